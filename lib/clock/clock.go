package clock

import "time"

const Layout = "2006-01-02T15:04:05Z"

func Now() string {
	return Format(time.Now())
}

// Format renders t in UTC with second precision; the zero time renders empty.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(Layout)
}
