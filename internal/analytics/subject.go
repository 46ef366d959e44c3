package analytics

import (
	"sort"

	"scoreline/pkg/contracts/domain"
)

// AnalyzeSubjectLines measures each subject against its own line. Subjects
// without a line, or absent from data, are skipped.
func AnalyzeSubjectLines(data *domain.SchoolData, subjectLines map[string]float64) map[string]domain.SubjectLineResult {
	out := make(map[string]domain.SubjectLineResult, len(subjectLines))

	for subject, line := range subjectLines {
		t, ok := data.Get(subject)
		if !ok || t.Len() == 0 {
			continue
		}

		scores := t.Scores()
		passed := countAtLeast(scores, line)

		classStats := []domain.ClassPassCount{}
		if t.HasClass {
			byClass := groupByClass(t.Rows)
			for _, class := range byClass.keys {
				cs := byClass.values[class]
				cp := countAtLeast(cs, line)
				classStats = append(classStats, domain.ClassPassCount{
					ClassName:     class,
					TotalStudents: len(cs),
					PassedCount:   cp,
					PassRate:      passRate(cp, len(cs)),
				})
			}
			sort.SliceStable(classStats, func(i, j int) bool {
				return classStats[i].PassRate > classStats[j].PassRate
			})
		}

		out[subject] = domain.SubjectLineResult{
			ScoreLine:     line,
			TotalStudents: len(scores),
			PassedCount:   passed,
			PassRate:      passRate(passed, len(scores)),
			ClassStats:    classStats,
		}
	}
	return out
}

// SubjectLineReport wraps AnalyzeSubjectLines with the lines it used.
func SubjectLineReport(data *domain.SchoolData, totalLine float64, subjectLines map[string]float64) domain.SubjectLineReport {
	if subjectLines == nil {
		subjectLines = map[string]float64{}
	}
	return domain.SubjectLineReport{
		TotalScoreLine: totalLine,
		SubjectLines:   subjectLines,
		Subjects:       AnalyzeSubjectLines(data, subjectLines),
	}
}
