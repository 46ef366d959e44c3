// Package report prints analysis results as console tables.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"scoreline/pkg/contracts"
	"scoreline/pkg/contracts/domain"
)

// Printer writes titled tables to out.
type Printer struct {
	out   io.Writer
	title *color.Color
	warn  *color.Color
}

// NewPrinter creates a printer. noColor disables ANSI colouring, which is
// also off when out is not a terminal.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	title := color.New(color.FgYellow, color.Bold)
	warn := color.New(color.FgRed)
	if noColor {
		title.DisableColor()
		warn.DisableColor()
	}
	return &Printer{out: out, title: title, warn: warn}
}

func (p *Printer) heading(format string, args ...any) {
	p.title.Fprintf(p.out, "\n"+format+"\n", args...)
}

func (p *Printer) table(header []string, rows [][]string) {
	t := tablewriter.NewWriter(p.out)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	t.AppendBulk(rows)
	t.Render()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pct(v float64) string {
	return num(v) + "%"
}

// SubjectsByClass prints each subject's class comparison in subject order.
func (p *Printer) SubjectsByClass(result map[string]domain.SubjectClassComparison) {
	for _, subject := range domain.SortSubjects(slices.Sorted(maps.Keys(result))) {
		s := result[subject]
		p.heading("%s  students %d  avg %s  median %s  std %s",
			subject, s.TotalStudents, num(s.AverageScore), num(s.MedianScore), num(s.StdScore))

		rows := make([][]string, 0, len(s.ClassStats))
		for _, c := range s.ClassStats {
			rows = append(rows, []string{
				c.ClassName,
				strconv.Itoa(c.TotalStudents),
				num(c.AverageScore),
				num(c.MaxScore),
				num(c.MinScore),
				num(c.MedianScore),
			})
		}
		p.table([]string{"Class", "Students", "Average", "Max", "Min", "Median"}, rows)
	}
}

// TotalScore prints the total-score analysis for lines, in the order given.
func (p *Printer) TotalScore(result map[string]domain.PassLineResult, lines []float64) {
	for _, line := range lines {
		r, ok := result[domain.LineKey(line)]
		if !ok {
			continue
		}
		p.heading("Line %s  passed %d/%d (%s)  passed avg %s",
			num(r.ScoreLine), r.PassedCount, r.TotalStudents, pct(r.PassRate), num(r.PassedAvgScore))

		rows := make([][]string, 0, len(r.ClassStats))
		for _, c := range r.ClassStats {
			rows = append(rows, []string{
				c.ClassName,
				strconv.Itoa(c.TotalStudents),
				strconv.Itoa(c.PassedCount),
				pct(c.PassRate),
				num(c.AverageScore),
				num(c.PassedAvgScore),
			})
		}
		p.table([]string{"Class", "Students", "Passed", "Rate", "Average", "Passed avg"}, rows)
	}
}

// League prints the school ranking at each line.
func (p *Printer) League(result map[string]domain.LeagueLineResult, lines []float64) {
	for _, line := range lines {
		r, ok := result[domain.LineKey(line)]
		if !ok {
			continue
		}
		rank := "-"
		if r.SchoolRank != nil {
			rank = strconv.Itoa(*r.SchoolRank)
		}
		p.heading("Line %s  league passed %d/%d (%s)  school rank %s",
			num(r.ScoreLine), r.LeaguePassedCount, r.LeagueTotal, pct(r.LeaguePassRate), rank)

		rows := make([][]string, 0, len(r.SchoolStats))
		for i, s := range r.SchoolStats {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				s.SchoolName,
				strconv.Itoa(s.TotalStudents),
				strconv.Itoa(s.PassedCount),
				pct(s.PassRate),
				num(s.AverageScore),
			})
		}
		p.table([]string{"Rank", "School", "Students", "Passed", "Rate", "Average"}, rows)
	}
}

// Assessment prints the class ranking and the excluded students.
func (p *Printer) Assessment(report domain.AssessmentReport) {
	p.heading("Class assessment")
	rows := make([][]string, 0, len(report.ClassResults))
	for _, r := range report.ClassResults {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.ClassName,
			strconv.Itoa(r.TotalStudents),
			strconv.Itoa(r.TekongPassed),
			pct(r.TekongRate),
			strconv.Itoa(r.YiduanPassed),
			pct(r.YiduanRate),
			num(r.AssessmentScore),
		})
	}
	p.table([]string{"Rank", "Class", "Students", "Tekong", "Tekong rate", "Yiduan", "Yiduan rate", "Score"}, rows)

	if len(report.ExcludedStudents) == 0 {
		return
	}
	p.warn.Fprintf(p.out, "\n%d students excluded\n", len(report.ExcludedStudents))
	excluded := make([][]string, 0, len(report.ExcludedStudents))
	for _, s := range report.ExcludedStudents {
		excluded = append(excluded, []string{s.Name, s.Class, s.Reason})
	}
	p.table([]string{"Name", "Class", "Reason"}, excluded)
}

// Matrix prints the class × subject pass table. Classes without students in
// a subject show "-".
func (p *Printer) Matrix(m domain.ClassSubjectMatrix) {
	subjects := domain.SortSubjects(slices.Sorted(maps.Keys(m.SubjectLines)))
	p.heading("Class × subject at line %s", num(m.ScoreLine))

	header := []string{"Class"}
	for _, s := range subjects {
		header = append(header, fmt.Sprintf("%s (%s)", s, num(m.SubjectLines[s])))
	}

	rows := make([][]string, 0, len(m.Classes))
	for _, class := range slices.Sorted(maps.Keys(m.Classes)) {
		row := []string{class}
		for _, s := range subjects {
			cell, ok := m.Classes[class][s]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%d/%d %s", cell.PassedCount, cell.TotalStudents, pct(cell.PassRate)))
		}
		rows = append(rows, row)
	}
	p.table(header, rows)
}

// SubjectLines prints each subject measured against its own line.
func (p *Printer) SubjectLines(r domain.SubjectLineReport) {
	for _, subject := range domain.SortSubjects(slices.Sorted(maps.Keys(r.Subjects))) {
		s := r.Subjects[subject]
		p.heading("%s  line %s  passed %d/%d (%s)",
			subject, num(s.ScoreLine), s.PassedCount, s.TotalStudents, pct(s.PassRate))

		rows := make([][]string, 0, len(s.ClassStats))
		for _, c := range s.ClassStats {
			rows = append(rows, []string{
				c.ClassName,
				strconv.Itoa(c.TotalStudents),
				strconv.Itoa(c.PassedCount),
				pct(c.PassRate),
			})
		}
		p.table([]string{"Class", "Students", "Passed", "Rate"}, rows)
	}
}

// Version prints build information.
func (p *Printer) Version(v contracts.VersionInfo) {
	p.table([]string{"Field", "Value"}, [][]string{
		{"version", v.Version},
		{"api", v.APIVersion},
		{"commit", v.GitCommit},
		{"built", v.BuildTime},
		{"go", v.GoVersion},
		{"platform", v.OS + "/" + v.Arch},
	})
}
