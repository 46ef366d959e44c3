package domain

// ScoreRow is one student's result in a single subject.
type ScoreRow struct {
	Class string  `json:"class"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SubjectTable is the canonical per-subject roster. Every row carries a
// numeric score; rows without one never make it into the table.
type SubjectTable struct {
	Subject string `json:"subject"`
	// HasClass records whether the source carried a class column at all.
	HasClass bool       `json:"has_class"`
	Rows     []ScoreRow `json:"rows"`
}

// Len returns the number of rows.
func (t *SubjectTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Scores returns the score column.
func (t *SubjectTable) Scores() []float64 {
	out := make([]float64, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, r.Score)
	}
	return out
}

// SchoolData holds one school's subject tables in insertion order.
// Insertion order is the processing order used by the total-score merge.
type SchoolData struct {
	order  []string
	tables map[string]*SubjectTable
}

// NewSchoolData creates an empty SchoolData.
func NewSchoolData() *SchoolData {
	return &SchoolData{tables: make(map[string]*SubjectTable)}
}

// Add stores a table under its subject name. Re-adding a subject replaces the
// table but keeps its original position.
func (s *SchoolData) Add(t *SubjectTable) {
	if s.tables == nil {
		s.tables = make(map[string]*SubjectTable)
	}
	if _, exists := s.tables[t.Subject]; !exists {
		s.order = append(s.order, t.Subject)
	}
	s.tables[t.Subject] = t
}

// Get returns the table for subject.
func (s *SchoolData) Get(subject string) (*SubjectTable, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.tables[subject]
	return t, ok
}

// Subjects returns subject names in insertion order.
func (s *SchoolData) Subjects() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Tables returns the tables in insertion order.
func (s *SchoolData) Tables() []*SubjectTable {
	if s == nil {
		return nil
	}
	out := make([]*SubjectTable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tables[name])
	}
	return out
}

// Len returns the number of subjects.
func (s *SchoolData) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// LeagueRow is one student in the combined multi-school table.
// A subject missing from Scores is a null score.
type LeagueRow struct {
	School string             `json:"school"`
	Name   string             `json:"name"`
	Class  string             `json:"class"`
	Scores map[string]float64 `json:"scores"`
}

// Total sums the present subject scores. ok is false when no subject had a
// score at all.
func (r LeagueRow) Total(subjects []string) (total float64, ok bool) {
	for _, s := range subjects {
		if v, present := r.Scores[s]; present {
			total += v
			ok = true
		}
	}
	return total, ok
}

// LeagueTable is the normalized league dataset.
type LeagueTable struct {
	// Subjects lists the recognised subject columns, in canonical order.
	Subjects  []string    `json:"subjects"`
	HasSchool bool        `json:"has_school"`
	HasName   bool        `json:"has_name"`
	HasClass  bool        `json:"has_class"`
	Rows      []LeagueRow `json:"rows"`
}

// Columns returns the canonical columns present in the table.
func (t *LeagueTable) Columns() []string {
	var cols []string
	if t.HasSchool {
		cols = append(cols, ColumnSchool)
	}
	if t.HasName {
		cols = append(cols, ColumnName)
	}
	if t.HasClass {
		cols = append(cols, ColumnClass)
	}
	return append(cols, t.Subjects...)
}

// Schools returns distinct school names in first-seen order.
func (t *LeagueTable) Schools() []string {
	if !t.HasSchool {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		if _, ok := seen[r.School]; ok {
			continue
		}
		seen[r.School] = struct{}{}
		out = append(out, r.School)
	}
	return out
}

// Canonical column labels.
const (
	ColumnSchool = "学校"
	ColumnName   = "姓名"
	ColumnClass  = "班级"
	ColumnScore  = "得分"
	ColumnTotal  = "总分"
)

// MergedStudent is one row of the outer-joined subject tables.
// A subject missing from Scores had no score for this student.
type MergedStudent struct {
	Name   string
	Class  string
	Scores map[string]float64
}

// MergedTable is the result of joining every subject table of a school.
type MergedTable struct {
	Subjects []string
	HasClass bool
	// TotalColumn names a pre-existing aggregate column, if the source had one.
	TotalColumn string
	Rows        []MergedStudent
}

// StudentTotal is a student with a derived total score.
type StudentTotal struct {
	Name  string  `json:"name"`
	Class string  `json:"class"`
	Total float64 `json:"total"`
}

// Exclusion reasons.
const (
	ReasonTotalMissing   = "total missing or zero"
	ReasonMissingSubject = "has missing subject score(s)"
)

// ExcludedStudent is a student dropped from total-score analytics.
type ExcludedStudent struct {
	Name   string `json:"name"`
	Class  string `json:"class"`
	Reason string `json:"reason"`
}
