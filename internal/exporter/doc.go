// Package exporter renders analysis results as a downloadable Excel workbook.
//
// WorkbookExporter writes one sheet per selected section: the class
// assessment ranking and its excluded students, the class × subject
// matrices for each line, one sheet per subject line report and the
// league subject summaries. Sheet names are sanitised and cut to Excel's
// 31-character limit.
//
// Example usage:
//
//	exp := exporter.NewWorkbookExporter(logger)
//	w.Header().Set("Content-Type", exporter.ContentType)
//	err := exp.Write(w, data)
package exporter
