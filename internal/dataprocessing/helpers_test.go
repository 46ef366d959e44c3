package dataprocessing

import "fmt"

// memWorkbook is an in-memory Workbook.
type memWorkbook struct {
	names  []string
	sheets map[string][][]string
	broken map[string]bool
}

func newMemWorkbook() *memWorkbook {
	return &memWorkbook{sheets: map[string][][]string{}, broken: map[string]bool{}}
}

func (w *memWorkbook) sheet(name string, rows ...[]string) *memWorkbook {
	w.names = append(w.names, name)
	w.sheets[name] = rows
	return w
}

func (w *memWorkbook) SheetNames() []string { return w.names }

func (w *memWorkbook) Rows(sheet string) ([][]string, error) {
	if w.broken[sheet] {
		return nil, fmt.Errorf("sheet %s is corrupt", sheet)
	}
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %s does not exist", sheet)
	}
	return rows, nil
}

func row(cells ...string) []string { return cells }
