// Package shared holds helpers used by more than one package.
//
// testutil carries the test-only pieces: a slog handler that captures
// records for assertions, and builders that write small workbooks to a
// temporary directory in the school and league layouts.
package shared
