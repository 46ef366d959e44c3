package analytics

import (
	"maps"
	"strings"

	"scoreline/pkg/contracts/domain"
)

// IsTotalColumn reports whether a subject name denotes a pre-computed total
// rather than a real subject.
func IsTotalColumn(subject string) bool {
	return strings.Contains(subject, domain.ColumnTotal) ||
		strings.Contains(strings.ToLower(subject), "total")
}

type joinKey struct {
	name  string
	class string
}

// Merge outer-joins every non-empty subject table of data into one row per
// student, in insertion order. Tables join on name and class when both the
// accumulated left side and the incoming table carry a class column, and on
// name alone otherwise. Duplicate keys produce every matching pair.
func Merge(data *domain.SchoolData) *domain.MergedTable {
	merged := &domain.MergedTable{}
	started := false

	for _, t := range data.Tables() {
		if t.Len() == 0 {
			continue
		}
		merged.Subjects = append(merged.Subjects, t.Subject)
		if merged.TotalColumn == "" && IsTotalColumn(t.Subject) {
			merged.TotalColumn = t.Subject
		}

		if !started {
			for _, r := range t.Rows {
				merged.Rows = append(merged.Rows, domain.MergedStudent{
					Name:   r.Name,
					Class:  r.Class,
					Scores: map[string]float64{t.Subject: r.Score},
				})
			}
			merged.HasClass = t.HasClass
			started = true
			continue
		}

		withClass := merged.HasClass && t.HasClass
		keyOf := func(name, class string) joinKey {
			if withClass {
				return joinKey{name: name, class: class}
			}
			return joinKey{name: name}
		}

		right := make(map[joinKey][]domain.ScoreRow)
		for _, r := range t.Rows {
			k := keyOf(r.Name, r.Class)
			right[k] = append(right[k], r)
		}

		matched := make(map[joinKey]bool)
		rows := make([]domain.MergedStudent, 0, len(merged.Rows))
		for _, left := range merged.Rows {
			k := keyOf(left.Name, left.Class)
			hits := right[k]
			if len(hits) == 0 {
				rows = append(rows, left)
				continue
			}
			matched[k] = true
			for _, r := range hits {
				row := domain.MergedStudent{
					Name:   left.Name,
					Class:  left.Class,
					Scores: maps.Clone(left.Scores),
				}
				if row.Class == "" {
					row.Class = r.Class
				}
				row.Scores[t.Subject] = r.Score
				rows = append(rows, row)
			}
		}

		for _, r := range t.Rows {
			if matched[keyOf(r.Name, r.Class)] {
				continue
			}
			rows = append(rows, domain.MergedStudent{
				Name:   r.Name,
				Class:  r.Class,
				Scores: map[string]float64{t.Subject: r.Score},
			})
		}

		merged.Rows = rows
		merged.HasClass = merged.HasClass || t.HasClass
	}

	return merged
}

// scoreSubjects are the merged subjects that are summed into a total.
func scoreSubjects(m *domain.MergedTable) []string {
	out := make([]string, 0, len(m.Subjects))
	for _, s := range m.Subjects {
		if !IsTotalColumn(s) {
			out = append(out, s)
		}
	}
	return out
}

func excluded(r domain.MergedStudent, reason string) domain.ExcludedStudent {
	return domain.ExcludedStudent{Name: r.Name, Class: r.Class, Reason: reason}
}

// fromTotalColumn applies the shared rule for sources that ship their own
// total: the column is the total, and a missing or non-positive value
// excludes the student.
func fromTotalColumn(m *domain.MergedTable) ([]domain.StudentTotal, []domain.ExcludedStudent) {
	var (
		totals []domain.StudentTotal
		out    []domain.ExcludedStudent
	)
	for _, r := range m.Rows {
		v, ok := r.Scores[m.TotalColumn]
		if !ok || v <= 0 {
			out = append(out, excluded(r, domain.ReasonTotalMissing))
			continue
		}
		totals = append(totals, domain.StudentTotal{Name: r.Name, Class: r.Class, Total: v})
	}
	return totals, out
}

// PassLineTotals derives each student's total for pass-line analysis. The
// total is the pre-existing total column when there is one, otherwise the sum
// of the scores present. Students whose total is missing or not positive are
// excluded.
func PassLineTotals(m *domain.MergedTable) ([]domain.StudentTotal, []domain.ExcludedStudent) {
	if m.TotalColumn != "" {
		return fromTotalColumn(m)
	}

	subjects := scoreSubjects(m)
	var (
		totals []domain.StudentTotal
		out    []domain.ExcludedStudent
	)
	for _, r := range m.Rows {
		var sum float64
		for _, s := range subjects {
			sum += r.Scores[s]
		}
		if sum <= 0 {
			out = append(out, excluded(r, domain.ReasonTotalMissing))
			continue
		}
		totals = append(totals, domain.StudentTotal{Name: r.Name, Class: r.Class, Total: sum})
	}
	return totals, out
}

// AssessmentTotals derives totals for class assessment. Without a
// pre-existing total column, a student missing any subject score is excluded
// before summation.
func AssessmentTotals(m *domain.MergedTable) ([]domain.StudentTotal, []domain.ExcludedStudent) {
	if m.TotalColumn != "" {
		return fromTotalColumn(m)
	}

	subjects := scoreSubjects(m)
	var (
		totals []domain.StudentTotal
		out    []domain.ExcludedStudent
	)
	for _, r := range m.Rows {
		var (
			sum      float64
			complete = true
		)
		for _, s := range subjects {
			v, ok := r.Scores[s]
			if !ok {
				complete = false
				break
			}
			sum += v
		}
		switch {
		case !complete:
			out = append(out, excluded(r, domain.ReasonMissingSubject))
		case sum <= 0:
			out = append(out, excluded(r, domain.ReasonTotalMissing))
		default:
			totals = append(totals, domain.StudentTotal{Name: r.Name, Class: r.Class, Total: sum})
		}
	}
	return totals, out
}
