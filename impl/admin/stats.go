package admin

import (
	"fmt"
	"html"
	"regbot/entity"
	"sort"
	"strings"
)

type Count struct {
	Name  string
	Count int
}

type GradeCount struct {
	Grade int
	Count int
}

type GradeSubjects struct {
	Grade    int
	Subjects []Count
}

// Stats is the aggregate over subscribed registrations. Records without a
// grade only contribute to Total and BySubject.
type Stats struct {
	Total     int
	ByGrade   []GradeCount    // grade ascending
	BySubject []Count         // count descending, then name
	CrossTab  []GradeSubjects // grade ascending, subjects as in BySubject
}

func sortedCounts(m map[string]int) []Count {
	list := make([]Count, 0, len(m))
	for name, n := range m {
		list = append(list, Count{Name: name, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func BuildStats(list []*entity.Registration) Stats {
	stats := Stats{Total: len(list)}
	byGrade := make(map[int]int)
	bySubject := make(map[string]int)
	cross := make(map[int]map[string]int)

	for _, reg := range list {
		subjects := reg.SubjectList()
		for _, s := range subjects {
			bySubject[s]++
		}
		if reg.Grade == 0 {
			continue
		}
		byGrade[reg.Grade]++
		if len(subjects) == 0 {
			continue
		}
		row, ok := cross[reg.Grade]
		if !ok {
			row = make(map[string]int)
			cross[reg.Grade] = row
		}
		for _, s := range subjects {
			row[s]++
		}
	}

	for g, n := range byGrade {
		stats.ByGrade = append(stats.ByGrade, GradeCount{Grade: g, Count: n})
	}
	sort.Slice(stats.ByGrade, func(i, j int) bool {
		return stats.ByGrade[i].Grade < stats.ByGrade[j].Grade
	})

	stats.BySubject = sortedCounts(bySubject)

	for g, row := range cross {
		stats.CrossTab = append(stats.CrossTab, GradeSubjects{Grade: g, Subjects: sortedCounts(row)})
	}
	sort.Slice(stats.CrossTab, func(i, j int) bool {
		return stats.CrossTab[i].Grade < stats.CrossTab[j].Grade
	})
	return stats
}

// Render formats the statistics for an HTML parse mode message.
func (s Stats) Render() string {
	if s.Total == 0 {
		return "📊 <b>Statistika</b>\n\nHozircha ro'yxatdan o'tganlar yo'q."
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>To'liq Statistika</b>\n\n")
	sb.WriteString(fmt.Sprintf("📈 <b>Jami ro'yxatdan o'tganlar:</b> %d\n\n", s.Total))

	if len(s.ByGrade) > 0 {
		sb.WriteString("🎓 <b>Sinf bo'yicha:</b>\n")
		for _, g := range s.ByGrade {
			sb.WriteString(fmt.Sprintf("  %d-sinf: %d ta\n", g.Grade, g.Count))
		}
		sb.WriteString("\n")
	}

	if len(s.BySubject) > 0 {
		sb.WriteString("📚 <b>Fan bo'yicha:</b>\n")
		for _, c := range s.BySubject {
			sb.WriteString(fmt.Sprintf("  %s: %d ta\n", html.EscapeString(c.Name), c.Count))
		}
		sb.WriteString("\n")
	}

	if len(s.CrossTab) > 0 {
		sb.WriteString("📋 <b>Sinf va fan bo'yicha:</b>\n")
		for _, row := range s.CrossTab {
			sb.WriteString(fmt.Sprintf("\n<b>%d-sinf:</b>\n", row.Grade))
			for _, c := range row.Subjects {
				sb.WriteString(fmt.Sprintf("  • %s: %d ta\n", html.EscapeString(c.Name), c.Count))
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
