package domain

// ClassScoreStat summarises one class inside a single subject.
type ClassScoreStat struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// SubjectStats holds the descriptive statistics of one subject table.
type SubjectStats struct {
	TotalStudents int                       `json:"total_students"`
	AverageScore  float64                   `json:"average_score"`
	MaxScore      float64                   `json:"max_score"`
	MinScore      float64                   `json:"min_score"`
	MedianScore   float64                   `json:"median_score"`
	StdScore      float64                   `json:"std_score"`
	ClassStats    map[string]ClassScoreStat `json:"class_stats"`
}

// ClassComparison is one class row in the per-subject class comparison.
type ClassComparison struct {
	ClassName     string  `json:"class_name"`
	TotalStudents int     `json:"total_students"`
	AverageScore  float64 `json:"average_score"`
	MaxScore      float64 `json:"max_score"`
	MinScore      float64 `json:"min_score"`
	MedianScore   float64 `json:"median_score"`
}

// SubjectClassComparison is a subject's overall statistics plus every class,
// ordered by average score descending.
type SubjectClassComparison struct {
	TotalStudents int               `json:"total_students"`
	AverageScore  float64           `json:"average_score"`
	MaxScore      float64           `json:"max_score"`
	MinScore      float64           `json:"min_score"`
	MedianScore   float64           `json:"median_score"`
	StdScore      float64           `json:"std_score"`
	ClassStats    []ClassComparison `json:"class_stats"`
}

// ClassLineStat is a class's standing against one total-score line.
type ClassLineStat struct {
	ClassName      string  `json:"class_name"`
	TotalStudents  int     `json:"total_students"`
	PassedCount    int     `json:"passed_count"`
	PassRate       float64 `json:"pass_rate"`
	AverageScore   float64 `json:"average_score"`
	PassedAvgScore float64 `json:"passed_avg_score"`
}

// PassLineResult is the total-score analysis at one score line.
type PassLineResult struct {
	ScoreLine         float64         `json:"score_line"`
	TotalStudents     int             `json:"total_students"`
	AverageScore      float64         `json:"average_score"`
	MaxScore          float64         `json:"max_score"`
	MinScore          float64         `json:"min_score"`
	MedianScore       float64         `json:"median_score"`
	StdScore          float64         `json:"std_score"`
	PassedCount       int             `json:"passed_count"`
	PassRate          float64         `json:"pass_rate"`
	PassedAvgScore    float64         `json:"passed_avg_score"`
	NotPassedCount    int             `json:"not_passed_count"`
	NotPassedAvgScore float64         `json:"not_passed_avg_score"`
	ClassStats        []ClassLineStat `json:"class_stats"`
	ClassDistribution map[string]int  `json:"class_distribution"`
}

// SchoolLineStat is one school's row in the league ranking.
type SchoolLineStat struct {
	SchoolName    string  `json:"school_name"`
	TotalStudents int     `json:"total_students"`
	PassedCount   int     `json:"passed_count"`
	PassRate      float64 `json:"pass_rate"`
	AverageScore  float64 `json:"average_score"`
}

// ClassPassStat is a class of the queried school against one league line.
type ClassPassStat struct {
	ClassName     string  `json:"class_name"`
	TotalStudents int     `json:"total_students"`
	PassedCount   int     `json:"passed_count"`
	PassRate      float64 `json:"pass_rate"`
	AverageScore  float64 `json:"average_score"`
}

// LeagueLineResult is the league-wide analysis at one score line.
type LeagueLineResult struct {
	ScoreLine               float64          `json:"score_line"`
	DisplayName             string           `json:"display_name,omitempty"`
	LeagueTotal             int              `json:"league_total"`
	LeaguePassedCount       int              `json:"league_passed_count"`
	LeaguePassRate          float64          `json:"league_pass_rate"`
	SchoolStats             []SchoolLineStat `json:"school_stats"`
	SchoolTotal             int              `json:"school_total"`
	SchoolPassedCount       int              `json:"school_passed_count"`
	SchoolPassRate          float64          `json:"school_pass_rate"`
	SchoolRank              *int             `json:"school_rank"`
	SchoolClassDistribution map[string]int   `json:"school_class_distribution"`
	SchoolClassPassStats    []ClassPassStat  `json:"school_class_pass_stats"`
	SchoolAverageScore      float64          `json:"school_average_score"`
}

// ClassPassCount is a class's pass count against a single-subject line.
type ClassPassCount struct {
	ClassName     string  `json:"class_name"`
	TotalStudents int     `json:"total_students"`
	PassedCount   int     `json:"passed_count"`
	PassRate      float64 `json:"pass_rate"`
}

// SubjectLineResult is one subject measured against its own score line.
type SubjectLineResult struct {
	ScoreLine     float64          `json:"score_line"`
	TotalStudents int              `json:"total_students"`
	PassedCount   int              `json:"passed_count"`
	PassRate      float64          `json:"pass_rate"`
	ClassStats    []ClassPassCount `json:"class_stats"`
}

// SubjectLineReport wraps per-subject line results with the lines that
// produced them.
type SubjectLineReport struct {
	TotalScoreLine float64                      `json:"total_score_line"`
	SubjectLines   map[string]float64           `json:"subject_lines"`
	Subjects       map[string]SubjectLineResult `json:"subjects"`
}

// MatrixCell is one (class, subject) cell of the cross-tabulation.
type MatrixCell struct {
	TotalStudents int     `json:"total_students"`
	PassedCount   int     `json:"passed_count"`
	PassRate      float64 `json:"pass_rate"`
}

// ClassSubjectMatrix is a sparse class × subject table. Cells with no
// students are absent rather than zero-filled.
type ClassSubjectMatrix struct {
	ScoreLine    float64                          `json:"score_line"`
	SubjectLines map[string]float64               `json:"subject_lines"`
	Classes      map[string]map[string]MatrixCell `json:"classes"`
}

// ClassAssessmentResult is a class's composite assessment.
type ClassAssessmentResult struct {
	ClassName       string  `json:"class_name"`
	TotalStudents   int     `json:"total_students"`
	TekongPassed    int     `json:"tekong_passed"`
	TekongRate      float64 `json:"tekong_rate"`
	YiduanPassed    int     `json:"yiduan_passed"`
	YiduanRate      float64 `json:"yiduan_rate"`
	AssessmentScore float64 `json:"assessment_score"`
	Rank            int     `json:"rank"`
}

// AssessmentReport is the class assessment output.
type AssessmentReport struct {
	ClassResults     []ClassAssessmentResult `json:"class_results"`
	ExcludedStudents []ExcludedStudent       `json:"excluded_students"`
}

// SchoolSubjectStat is a school's standing in one subject at one line.
type SchoolSubjectStat struct {
	SchoolName    string  `json:"school_name"`
	TotalStudents int     `json:"total_students"`
	PassedCount   int     `json:"passed_count"`
	PassRate      float64 `json:"pass_rate"`
}

// LeagueSubjectLineResult ranks schools by pass rate in one subject.
type LeagueSubjectLineResult struct {
	ScoreLine      float64             `json:"score_line"`
	SchoolStats    []SchoolSubjectStat `json:"school_stats"`
	SchoolRank     *int                `json:"school_rank"`
	SchoolPassRate float64             `json:"school_pass_rate"`
	SchoolTotal    int                 `json:"school_total"`
	SchoolPassed   int                 `json:"school_passed_count"`
}

// ClassDetail lists one class's students in a subject, best score first.
type ClassDetail struct {
	Subject    string     `json:"subject"`
	ClassName  string     `json:"class_name"`
	TotalCount int        `json:"total_count"`
	Students   []ScoreRow `json:"students"`
}

// SubjectPreview is a short look at a parsed subject table.
type SubjectPreview struct {
	Columns    []string   `json:"columns"`
	RowCount   int        `json:"row_count"`
	SampleData []ScoreRow `json:"sample_data"`
}

// LeaguePreview is a short look at a parsed league table.
type LeaguePreview struct {
	Columns    []string    `json:"columns"`
	RowCount   int         `json:"row_count"`
	SampleData []LeagueRow `json:"sample_data"`
	Schools    []string    `json:"schools"`
}
