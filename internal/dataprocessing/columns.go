package dataprocessing

import "strings"

// ColumnKind is the canonical role of a subject-sheet column.
type ColumnKind int

const (
	ColumnUnknown ColumnKind = iota
	ColumnName
	ColumnClass
	ColumnScore
)

// String returns the canonical column label for k.
func (k ColumnKind) String() string {
	switch k {
	case ColumnName:
		return "name"
	case ColumnClass:
		return "class"
	case ColumnScore:
		return "score"
	default:
		return "unknown"
	}
}

// columnKeywords is checked in order; the first kind with a matching keyword
// wins. Keywords match as case-insensitive substrings.
var columnKeywords = []struct {
	kind     ColumnKind
	keywords []string
}{
	{ColumnName, []string{"姓名", "名字", "name"}},
	{ColumnClass, []string{"班级", "class"}},
	{ColumnScore, []string{"得分", "分数", "成绩", "score"}},
}

// ClassifyColumn maps a header to its canonical role.
func ClassifyColumn(header string) ColumnKind {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return ColumnUnknown
	}
	for _, entry := range columnKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(h, kw) {
				return entry.kind
			}
		}
	}
	return ColumnUnknown
}

// Keyword sets for the wide layout's fixed header cells (C/D/E).
var (
	wideClassKeywords = []string{"班级", "class"}
	wideNameKeywords  = []string{"姓名", "名字", "name"}
	wideIDKeywords    = []string{"学号", "student", "id"}
)

// reservedHeaders never name a subject column in the wide layout.
var reservedHeaders = map[string]struct{}{
	"班级": {}, "姓名": {}, "学号": {}, "得分": {}, "分数": {}, "成绩": {},
}

func containsAny(header string, keywords []string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, kw := range keywords {
		if strings.Contains(h, kw) {
			return true
		}
	}
	return false
}

// isPlaceholderHeader reports headers that carry no subject name.
func isPlaceholderHeader(h string) bool {
	h = strings.TrimSpace(h)
	if h == "" || strings.HasPrefix(h, "Unnamed") {
		return true
	}
	switch strings.ToLower(h) {
	case "nan", "none":
		return true
	}
	return false
}
