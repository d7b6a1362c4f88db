// Package catalog maps a grade band to the subjects a pupil may pick.
package catalog

import "strconv"

const (
	MinGrade = 1
	MaxGrade = 10
)

var (
	primary = []string{"Matematika", "Ingliz tili", "Mantiq"}
	middle  = []string{
		"Tabiiy fan - Ingliz tili",
		"Matematika - Ingliz tili",
	}
	senior = []string{
		"Matematika - Fizika",
		"Matematika - Ingliz tili",
		"Biologiya - Kimyo",
		"Huquq - Ingliz tili",
	}
)

// SubjectsFor returns a copy of the subject list for the grade; for skippable
// grades this is the auto-assigned set. Unknown grades yield an empty list.
func SubjectsFor(grade int) []string {
	var src []string
	switch {
	case grade >= 1 && grade <= 4:
		src = primary
	case grade >= 5 && grade <= 6:
		src = middle
	case grade >= 7 && grade <= 10:
		src = senior
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// IsSkippable reports whether subjects are assigned automatically for the grade.
func IsSkippable(grade int) bool {
	return grade >= 1 && grade <= 4
}

func IsValidChoice(grade int, text string) bool {
	for _, s := range SubjectsFor(grade) {
		if s == text {
			return true
		}
	}
	return false
}

func IsValidGrade(grade int) bool {
	return grade >= MinGrade && grade <= MaxGrade
}

// ParseGrade accepts only a plain integer in the supported range.
func ParseGrade(text string) (int, bool) {
	grade, err := strconv.Atoi(text)
	if err != nil || !IsValidGrade(grade) {
		return 0, false
	}
	return grade, true
}
