package analytics

import (
	"sort"

	"scoreline/pkg/contracts/domain"
)

// AnalyzePerSubject returns descriptive statistics for every subject in data.
// An empty subject still gets an entry, with zero statistics.
func AnalyzePerSubject(data *domain.SchoolData) map[string]domain.SubjectStats {
	out := make(map[string]domain.SubjectStats, data.Len())

	for _, t := range data.Tables() {
		s := summarize(t.Scores())
		result := domain.SubjectStats{
			TotalStudents: s.Count,
			AverageScore:  s.Mean,
			MaxScore:      s.Max,
			MinScore:      s.Min,
			MedianScore:   s.Median,
			StdScore:      s.Std,
			ClassStats:    map[string]domain.ClassScoreStat{},
		}

		if t.HasClass {
			byClass := groupByClass(t.Rows)
			for _, class := range byClass.keys {
				cs := summarize(byClass.values[class])
				result.ClassStats[class] = domain.ClassScoreStat{
					Count:   cs.Count,
					Average: cs.Mean,
					Max:     cs.Max,
					Min:     cs.Min,
				}
			}
		}

		out[t.Subject] = result
	}
	return out
}

// AnalyzeSubjectsByClass compares the classes inside each subject. Classes
// are ordered by average score, best first.
func AnalyzeSubjectsByClass(data *domain.SchoolData) map[string]domain.SubjectClassComparison {
	out := make(map[string]domain.SubjectClassComparison, data.Len())

	for _, t := range data.Tables() {
		s := summarize(t.Scores())
		result := domain.SubjectClassComparison{
			TotalStudents: s.Count,
			AverageScore:  s.Mean,
			MaxScore:      s.Max,
			MinScore:      s.Min,
			MedianScore:   s.Median,
			StdScore:      s.Std,
			ClassStats:    []domain.ClassComparison{},
		}

		if t.HasClass {
			byClass := groupByClass(t.Rows)
			for _, class := range byClass.keys {
				cs := summarize(byClass.values[class])
				result.ClassStats = append(result.ClassStats, domain.ClassComparison{
					ClassName:     class,
					TotalStudents: cs.Count,
					AverageScore:  cs.Mean,
					MaxScore:      cs.Max,
					MinScore:      cs.Min,
					MedianScore:   cs.Median,
				})
			}
			sort.SliceStable(result.ClassStats, func(i, j int) bool {
				return result.ClassStats[i].AverageScore > result.ClassStats[j].AverageScore
			})
		}

		out[t.Subject] = result
	}
	return out
}

// groupByClass groups scores by non-blank class label.
func groupByClass(rows []domain.ScoreRow) *group {
	g := newGroup()
	for _, r := range rows {
		if r.Class != "" {
			g.add(r.Class, r.Score)
		}
	}
	return g
}

// AnalyzeTotalScore merges data into per-student totals and measures them
// against each line. Students whose total is missing or zero are left out.
func AnalyzeTotalScore(data *domain.SchoolData, lines []float64) map[string]domain.PassLineResult {
	totals, _ := PassLineTotals(Merge(data))
	return AnalyzeTotals(totals, lines)
}

// AnalyzeTotals measures precomputed student totals against each line.
func AnalyzeTotals(totals []domain.StudentTotal, lines []float64) map[string]domain.PassLineResult {
	all := make([]float64, len(totals))
	byClass := newGroup()
	for i, st := range totals {
		all[i] = st.Total
		if st.Class != "" {
			byClass.add(st.Class, st.Total)
		}
	}
	overall := summarize(all)

	out := make(map[string]domain.PassLineResult, len(lines))
	for _, line := range lines {
		var passed, notPassed []float64
		distribution := map[string]int{}
		for _, st := range totals {
			if st.Total >= line {
				passed = append(passed, st.Total)
				if st.Class != "" {
					distribution[st.Class]++
				}
			} else {
				notPassed = append(notPassed, st.Total)
			}
		}

		classStats := make([]domain.ClassLineStat, 0, len(byClass.keys))
		for _, class := range byClass.keys {
			scores := byClass.values[class]
			var classPassed []float64
			for _, v := range scores {
				if v >= line {
					classPassed = append(classPassed, v)
				}
			}
			classStats = append(classStats, domain.ClassLineStat{
				ClassName:      class,
				TotalStudents:  len(scores),
				PassedCount:    len(classPassed),
				PassRate:       passRate(len(classPassed), len(scores)),
				AverageScore:   mean2(scores),
				PassedAvgScore: mean2(classPassed),
			})
		}
		sort.SliceStable(classStats, func(i, j int) bool {
			return classStats[i].PassRate > classStats[j].PassRate
		})

		out[domain.LineKey(line)] = domain.PassLineResult{
			ScoreLine:         line,
			TotalStudents:     overall.Count,
			AverageScore:      overall.Mean,
			MaxScore:          overall.Max,
			MinScore:          overall.Min,
			MedianScore:       overall.Median,
			StdScore:          overall.Std,
			PassedCount:       len(passed),
			PassRate:          passRate(len(passed), overall.Count),
			PassedAvgScore:    mean2(passed),
			NotPassedCount:    len(notPassed),
			NotPassedAvgScore: mean2(notPassed),
			ClassStats:        classStats,
			ClassDistribution: distribution,
		}
	}
	return out
}
