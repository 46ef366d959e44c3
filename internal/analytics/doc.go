// Package analytics computes score-line statistics over the canonical tables
// produced by package dataprocessing.
//
// Every function is pure: it reads its inputs and returns fresh result
// values. Percentages and averages are rounded to two decimals, half away
// from zero. Degenerate inputs such as an empty subject or a line nobody
// reaches yield zero values, never errors.
//
// There are two exclusion rules. PassLineTotals keeps a student as
// long as the summed total is positive, while AssessmentTotals drops anyone
// missing a subject before summing. A source that ships its own total column
// (a subject named 总分 or *total*) bypasses summation on both paths.
package analytics
