// Package dataprocessing reads school and league score workbooks into the
// canonical tables of pkg/contracts/domain.
//
// # School workbooks
//
// Two layouts are recognised. DetectLayout looks at the first sheet's C, D
// and E header cells:
//
//   - wide: C/D/E are class, name and student ID; every later column whose
//     values are at least half numeric is a subject.
//   - multi-sheet: one sheet per subject, a grouping row on top and the
//     name/class/score header on the second row. The 总分 and Total sheets
//     are skipped.
//
// DetectSchoolData tries the wide parser first and falls back to the
// multi-sheet parser. Subjects that fail to parse are logged and left out;
// only an unreadable file is an error.
//
// # League workbooks
//
// ParseLeague reads the 分数 sheet. Headers are matched against the school,
// name and class columns and the nine fixed subjects; anything else is
// ignored. ExtractSchool reshapes a school's league rows into the same
// subject tables the school parsers produce.
//
// Usage:
//
//	data, err := dataprocessing.ReadSchoolData("school.xlsx", logger)
//	if err != nil {
//	    return err
//	}
//	for _, t := range data.Tables() {
//	    fmt.Println(t.Subject, t.Len())
//	}
package dataprocessing
