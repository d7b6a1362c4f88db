package flow

import "strings"

// NormalizePhone keeps the digits of free-form input and a single leading plus sign.
// The result is rejected when fewer than minPhoneDigits digits remain.
func NormalizePhone(text string) (string, bool) {
	text = strings.TrimSpace(text)
	var sb strings.Builder
	digits := 0
	for i, r := range text {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			sb.WriteRune(r)
		}
	}
	if digits < minPhoneDigits {
		return "", false
	}
	return sb.String(), true
}
