package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scoreline/internal/config"
	"scoreline/internal/exporter"
	"scoreline/internal/infrastructure"
	"scoreline/internal/report"
	"scoreline/internal/services"
	"scoreline/pkg/contracts"
)

type options struct {
	leaguePath  string
	schoolPath  string
	schoolNames []string
	logLevel    string
	noColor     bool
	exportPath  string
}

func (o *options) source() services.Source {
	return services.Source{
		SchoolPath:  o.schoolPath,
		LeaguePath:  o.leaguePath,
		SchoolNames: o.schoolNames,
	}
}

// env is what every analysis command needs.
type env struct {
	service  *services.AnalysisService
	printer  *report.Printer
	exporter *exporter.WorkbookExporter
	logger   *slog.Logger
	close    func() error
}

func (o *options) env(stdout, stderr io.Writer) (*env, error) {
	logCfg := config.Default().Logging
	logCfg.Level = o.logLevel
	logCfg.Format = "text"
	logger, closeLog, err := infrastructure.NewLoggerTo(logCfg, stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc, err := services.NewAnalysisService(services.NewExcelLoader(logger), nil, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	return &env{
		service:  svc,
		printer:  report.NewPrinter(stdout, o.noColor),
		exporter: exporter.NewWorkbookExporter(logger),
		logger:   logger,
		close:    closeLog,
	}, nil
}

// export writes data to o.exportPath when --export was given.
func (e *env) export(path string, data exporter.ExportData) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := e.exporter.Write(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to export results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	e.logger.Info("Results exported", slog.String("path", path))
	return nil
}

func newRootCommand(ctx context.Context, stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "scorecli",
		Short:         "Analyze school and league exam score workbooks",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.leaguePath, "league", "", "Path to the league workbook (.xlsx)")
	flags.StringVar(&o.schoolPath, "school", "", "Path to a standalone school workbook (.xlsx)")
	flags.StringSliceVar(&o.schoolNames, "school-name", nil, "School name as written in the league workbook; repeat for aliases")
	flags.StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(
		newSubjectsCommand(ctx, o, stdout, stderr),
		newTotalCommand(ctx, o, stdout, stderr),
		newLeagueCommand(ctx, o, stdout, stderr),
		newAssessCommand(ctx, o, stdout, stderr),
		newMatrixCommand(ctx, o, stdout, stderr),
		newSubjectLinesCommand(ctx, o, stdout, stderr),
		newVersionCommand(o, stdout),
	)
	return cmd
}

// run builds the environment, calls fn and releases the environment.
func run(o *options, stdout, stderr io.Writer, fn func(e *env) error) error {
	e, err := o.env(stdout, stderr)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(e)
}

func newSubjectsCommand(ctx context.Context, o *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "Compare classes within each subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, stdout, stderr, func(e *env) error {
				result, err := e.service.SubjectsByClass(ctx, o.source())
				if err != nil {
					return err
				}
				e.printer.SubjectsByClass(result)
				return nil
			})
		},
	}
}

func newTotalCommand(ctx context.Context, o *options, stdout, stderr io.Writer) *cobra.Command {
	var lines []float64
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Analyze total scores against score lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, stdout, stderr, func(e *env) error {
				result, err := e.service.TotalScore(ctx, o.source(), lines)
				if err != nil {
					return err
				}
				e.printer.TotalScore(result, lines)
				return nil
			})
		},
	}
	cmd.Flags().Float64SliceVar(&lines, "lines", nil, "Score lines, e.g. --lines 520,450")
	cmd.MarkFlagRequired("lines")
	return cmd
}

func newLeagueCommand(ctx context.Context, o *options, stdout, stderr io.Writer) *cobra.Command {
	var (
		lines        []float64
		subjectLines []string
	)
	cmd := &cobra.Command{
		Use:   "league",
		Short: "Rank the league's schools at score lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			named, err := parseNamedSubjectLines(subjectLines)
			if err != nil {
				return err
			}
			return run(o, stdout, stderr, func(e *env) error {
				result, err := e.service.AnalyzeLeague(ctx, services.LeagueQuery{
					LeaguePath:   o.leaguePath,
					SchoolNames:  o.schoolNames,
					ScoreLines:   lines,
					SubjectLines: named,
				})
				if err != nil {
					return err
				}
				e.printer.League(result.Lines, lines)
				return e.export(o.exportPath, exporter.ExportData{LeagueSubjectSummary: result.SubjectLineRankings})
			})
		},
	}
	cmd.Flags().Float64SliceVar(&lines, "lines", nil, "Total score lines, e.g. --lines 520,450")
	cmd.Flags().StringArrayVar(&subjectLines, "subject-line", nil, "Named subject line, e.g. --subject-line 特控线:语文=100")
	cmd.Flags().StringVar(&o.exportPath, "export", "", "Write the subject rankings to this .xlsx file")
	cmd.MarkFlagRequired("lines")
	return cmd
}

func newAssessCommand(ctx context.Context, o *options, stdout, stderr io.Writer) *cobra.Command {
	var tekong, yiduan float64
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Rank classes by their tekong and yiduan pass rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, stdout, stderr, func(e *env) error {
				result, err := e.service.ClassAssessment(ctx, o.source(), tekong, yiduan)
				if err != nil {
					return err
				}
				e.printer.Assessment(result)
				return e.export(o.exportPath, exporter.ExportData{
					ClassAssessment:         result.ClassResults,
					ClassAssessmentExcluded: result.ExcludedStudents,
				})
			})
		},
	}
	cmd.Flags().Float64Var(&tekong, "tekong", 0, "Tekong (特控线) total score line")
	cmd.Flags().Float64Var(&yiduan, "yiduan", 0, "Yiduan (一段线) total score line")
	cmd.Flags().StringVar(&o.exportPath, "export", "", "Write the assessment to this .xlsx file")
	cmd.MarkFlagRequired("tekong")
	cmd.MarkFlagRequired("yiduan")
	return cmd
}

func newMatrixCommand(ctx context.Context, o *options, stdout, stderr io.Writer) *cobra.Command {
	var (
		line     float64
		subjects map[string]string
		lineName string
	)
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Cross-tabulate classes and subjects against subject lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseSubjectLines(subjects)
			if err != nil {
				return err
			}
			return run(o, stdout, stderr, func(e *env) error {
				result, err := e.service.ClassSubjects(ctx, o.source(), line, parsed)
				if err != nil {
					return err
				}
				e.printer.Matrix(result)

				data := exporter.ExportData{}
				if lineName == exporter.LineYiduan {
					data.ClassSubjectsYiduan = &result
				} else {
					data.ClassSubjectsTekong = &result
				}
				return e.export(o.exportPath, data)
			})
		},
	}
	cmd.Flags().Float64Var(&line, "line", 0, "Total score line the subject lines belong to")
	cmd.Flags().StringToStringVar(&subjects, "subject", nil, "Subject lines, e.g. --subject 语文=100,数学=90")
	cmd.Flags().StringVar(&lineName, "line-name", exporter.LineTekong, "Line name used for the export sheet: 特控线 or 一段线")
	cmd.Flags().StringVar(&o.exportPath, "export", "", "Write the matrix to this .xlsx file")
	cmd.MarkFlagRequired("subject")
	return cmd
}

func newSubjectLinesCommand(ctx context.Context, o *options, stdout, stderr io.Writer) *cobra.Command {
	var (
		total    float64
		subjects map[string]string
	)
	cmd := &cobra.Command{
		Use:   "subject-lines",
		Short: "Measure each subject against its own score line",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseSubjectLines(subjects)
			if err != nil {
				return err
			}
			return run(o, stdout, stderr, func(e *env) error {
				result, err := e.service.SubjectLines(ctx, o.source(), total, parsed)
				if err != nil {
					return err
				}
				e.printer.SubjectLines(result)
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&total, "total", 0, "Total score line the subject lines belong to")
	cmd.Flags().StringToStringVar(&subjects, "subject", nil, "Subject lines, e.g. --subject 语文=100,数学=90")
	cmd.MarkFlagRequired("subject")
	return cmd
}

func newVersionCommand(o *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			report.NewPrinter(stdout, o.noColor).Version(contracts.GetVersionInfo())
			return nil
		},
	}
}

var errSubjectLine = errors.New("subject lines take the form subject=score")

// parseSubjectLines converts {"语文": "100"} into numeric lines.
func parseSubjectLines(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for subject, value := range raw {
		subject = strings.TrimSpace(subject)
		line, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if subject == "" || err != nil {
			return nil, fmt.Errorf("%s=%s: %w", subject, value, errSubjectLine)
		}
		out[subject] = line
	}
	return out, nil
}

// parseNamedSubjectLines converts "特控线:语文=100" entries into
// {"特控线": {"语文": 100}}.
func parseNamedSubjectLines(entries []string) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64)
	for _, entry := range entries {
		name, pair, ok := strings.Cut(entry, ":")
		subject, value, ok2 := strings.Cut(pair, "=")
		if !ok || !ok2 || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%s: named subject lines take the form name:subject=score", entry)
		}
		parsed, err := parseSubjectLines(map[string]string{subject: value})
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		if out[name] == nil {
			out[name] = make(map[string]float64)
		}
		for s, v := range parsed {
			out[name][s] = v
		}
	}
	return out, nil
}
