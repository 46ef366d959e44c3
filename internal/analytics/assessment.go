package analytics

import (
	"sort"

	"scoreline/pkg/contracts/domain"
)

// Weights of the two line pass rates in the class assessment score.
const (
	TekongWeight = 0.3
	YiduanWeight = 0.7
)

// ScoreClassAssessment ranks classes by 0.3 × tekong pass rate + 0.7 ×
// yiduan pass rate over student totals. Students missing a subject, or whose
// total is missing or zero, are excluded and reported. Ties keep first-seen
// class order.
func ScoreClassAssessment(data *domain.SchoolData, tekongLine, yiduanLine float64) domain.AssessmentReport {
	report := domain.AssessmentReport{
		ClassResults:     []domain.ClassAssessmentResult{},
		ExcludedStudents: []domain.ExcludedStudent{},
	}

	merged := Merge(data)
	if len(merged.Rows) == 0 {
		return report
	}

	totals, excluded := AssessmentTotals(merged)
	report.ExcludedStudents = append(report.ExcludedStudents, excluded...)

	byClass := newGroup()
	for _, st := range totals {
		if st.Class != "" {
			byClass.add(st.Class, st.Total)
		}
	}

	for _, class := range byClass.keys {
		scores := byClass.values[class]
		n := len(scores)
		tekong := countAtLeast(scores, tekongLine)
		yiduan := countAtLeast(scores, yiduanLine)

		// rates stay unrounded until the composite is computed
		tekongRate := float64(tekong) / float64(n) * 100
		yiduanRate := float64(yiduan) / float64(n) * 100

		report.ClassResults = append(report.ClassResults, domain.ClassAssessmentResult{
			ClassName:       class,
			TotalStudents:   n,
			TekongPassed:    tekong,
			TekongRate:      round2(tekongRate),
			YiduanPassed:    yiduan,
			YiduanRate:      round2(yiduanRate),
			AssessmentScore: round2(TekongWeight*tekongRate + YiduanWeight*yiduanRate),
		})
	}

	sort.SliceStable(report.ClassResults, func(i, j int) bool {
		return report.ClassResults[i].AssessmentScore > report.ClassResults[j].AssessmentScore
	})
	for i := range report.ClassResults {
		report.ClassResults[i].Rank = i + 1
	}

	return report
}
