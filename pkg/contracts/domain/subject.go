package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Canonical subject names as they appear in league and school workbooks.
const (
	SubjectChinese   = "语文"
	SubjectMath      = "数学"
	SubjectEnglish   = "英语"
	SubjectPhysics   = "物理"
	SubjectChemistry = "化学"
	SubjectBiology   = "生物"
	SubjectPolitics  = "政治"
	SubjectHistory   = "历史"
	SubjectGeography = "地理"
)

// SubjectOrder is the fixed display order for subjects. It is also the closed
// set of subjects the league reader recognises.
var SubjectOrder = []string{
	SubjectChinese,
	SubjectMath,
	SubjectEnglish,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectPolitics,
	SubjectHistory,
	SubjectGeography,
}

// SubjectColumns is the whitelist of headers exposed by the upload preview.
// Exam numbers, elective combinations and ranking columns never appear here.
var SubjectColumns = SubjectOrder

var subjectRank = func() map[string]int {
	m := make(map[string]int, len(SubjectOrder))
	for i, s := range SubjectOrder {
		m[s] = i
	}
	return m
}()

// IsKnownSubject reports whether name is one of the fixed league subjects.
func IsKnownSubject(name string) bool {
	_, ok := subjectRank[name]
	return ok
}

// SortSubjects returns a copy of subjects in canonical order. Unknown subjects
// follow the known ones in their original relative order.
func SortSubjects(subjects []string) []string {
	out := make([]string, len(subjects))
	copy(out, subjects)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := subjectRank[out[i]]
		rj, jok := subjectRank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}

// LineKey formats the result key for a score line, e.g. "line_500.0" or
// "line_512.5". Integral lines always carry one decimal place.
func LineKey(line float64) string {
	s := strconv.FormatFloat(line, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return "line_" + s
}
