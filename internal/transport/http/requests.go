package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"scoreline/internal/dataprocessing"
	"scoreline/internal/exporter"
)

var errLineFormat = errors.New("score lines must be numbers")

// Line is a score line sent as a JSON number or a numeric string. Null and
// empty strings decode to zero, which the service treats as missing.
type Line float64

// UnmarshalJSON implements json.Unmarshaler.
func (l *Line) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*l = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*l = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", string(b), errLineFormat)
	}
	*l = Line(f)
	return nil
}

// Lines is a list of score lines.
type Lines []Line

func (ls Lines) floats() []float64 {
	out := make([]float64, len(ls))
	for i, l := range ls {
		out[i] = float64(l)
	}
	return out
}

// SubjectLines maps a subject to its line. Blank subjects and zero lines
// are dropped.
type SubjectLines map[string]Line

func (s SubjectLines) floats() map[string]float64 {
	out := make(map[string]float64, len(s))
	for subject, l := range s {
		subject = strings.TrimSpace(subject)
		if subject == "" || l == 0 {
			continue
		}
		out[subject] = float64(l)
	}
	return out
}

// schoolRef identifies the school's data: a school workbook or the league
// workbook plus the school's names. school_name and school_alias are the
// older single-name fields and are used only when school_names is empty.
type schoolRef struct {
	SchoolPath  string   `json:"school_path" validate:"workbook"`
	LeaguePath  string   `json:"league_path" validate:"workbook"`
	SchoolNames []string `json:"school_names"`
	SchoolName  string   `json:"school_name"`
	SchoolAlias string   `json:"school_alias"`
}

func (s schoolRef) names() []string {
	if names := dataprocessing.CleanSchoolNames(s.SchoolNames); len(names) > 0 {
		return names
	}
	return dataprocessing.CleanSchoolNames([]string{s.SchoolName, s.SchoolAlias})
}

type analyzeRequest struct {
	schoolRef
	ScoreLines Lines `json:"score_lines"`
}

type analyzeLeagueRequest struct {
	schoolRef
	ScoreLines Lines `json:"score_lines"`
	// SubjectLines is keyed by line name, e.g. {"特控线": {"语文": 100}}.
	SubjectLines map[string]SubjectLines `json:"subject_lines"`
}

func (r analyzeLeagueRequest) subjectLines() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(r.SubjectLines))
	for name, lines := range r.SubjectLines {
		if fl := lines.floats(); len(fl) > 0 {
			out[name] = fl
		}
	}
	return out
}

type previewRequest struct {
	FileType string `json:"file_type" validate:"required,oneof=school league"`
	FilePath string `json:"file_path" validate:"required,workbook"`
}

type totalRequest struct {
	schoolRef
	ScoreLines Lines `json:"score_lines"`
}

type classDetailRequest struct {
	schoolRef
	// FilePath is the school workbook under its older field name.
	FilePath  string `json:"file_path" validate:"workbook"`
	Subject   string `json:"subject" validate:"required"`
	ClassName string `json:"class_name" validate:"required"`
}

type subjectLinesRequest struct {
	schoolRef
	TotalScoreLine    Line         `json:"total_score_line"`
	SubjectScoreLines SubjectLines `json:"subject_score_lines"`
}

type classSubjectsRequest struct {
	schoolRef
	ScoreLine         Line         `json:"score_line"`
	SubjectScoreLines SubjectLines `json:"subject_score_lines"`
}

type assessmentRequest struct {
	schoolRef
	TekongLine Line `json:"tekong_line"`
	YiduanLine Line `json:"yiduan_line"`
}

type exportRequest struct {
	ExportData exporter.ExportData `json:"export_data"`
}
