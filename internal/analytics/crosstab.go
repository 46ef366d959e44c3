package analytics

import (
	"sort"

	"scoreline/pkg/contracts/domain"
)

// AnalyzeClassSubjectMatrix tabulates, per class and subject, how many
// students reach that subject's line. Every non-blank class seen in any
// subject gets a row; a cell exists only when the class has scores in that
// subject. Subjects without a line are skipped.
func AnalyzeClassSubjectMatrix(data *domain.SchoolData, subjectLines map[string]float64) domain.ClassSubjectMatrix {
	if subjectLines == nil {
		subjectLines = map[string]float64{}
	}
	matrix := domain.ClassSubjectMatrix{
		SubjectLines: subjectLines,
		Classes:      map[string]map[string]domain.MatrixCell{},
	}

	for _, class := range Classes(data) {
		matrix.Classes[class] = map[string]domain.MatrixCell{}
	}

	for _, t := range data.Tables() {
		line, ok := subjectLines[t.Subject]
		if !ok || !t.HasClass || t.Len() == 0 {
			continue
		}
		byClass := groupByClass(t.Rows)
		for _, class := range byClass.keys {
			scores := byClass.values[class]
			passed := countAtLeast(scores, line)
			matrix.Classes[class][t.Subject] = domain.MatrixCell{
				TotalStudents: len(scores),
				PassedCount:   passed,
				PassRate:      passRate(passed, len(scores)),
			}
		}
	}
	return matrix
}

// Classes returns the sorted, distinct, non-blank class labels across every
// subject that carries a class column.
func Classes(data *domain.SchoolData) []string {
	seen := make(map[string]struct{})
	for _, t := range data.Tables() {
		if !t.HasClass {
			continue
		}
		for _, r := range t.Rows {
			if r.Class != "" {
				seen[r.Class] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
