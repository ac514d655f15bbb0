package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/config"
	"github.com/Sumatoshi-tech/yearcal/pkg/ical"
	"github.com/Sumatoshi-tech/yearcal/pkg/observability"
	"github.com/Sumatoshi-tech/yearcal/pkg/render"
	"github.com/Sumatoshi-tech/yearcal/pkg/render/pdf"
	"github.com/Sumatoshi-tech/yearcal/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
	"github.com/Sumatoshi-tech/yearcal/pkg/tabular"
	"github.com/Sumatoshi-tech/yearcal/pkg/version"
)

const (
	generateCmdUse   = "yearcal <ical-file> <output-file> <year>"
	generateCmdShort = "Render a yearly calendar overview and event listing from an iCalendar file"
	generateArgCount = 3

	generateCommand = "generate"

	minYear = 1
	maxYear = 9999
)

// Flag names.
const (
	formatFlag      = "format"
	pageSizeFlag    = "page-size"
	titleLengthFlag = "title-length"
	themeFlag       = "theme"
	fontFlag        = "font"
	maxSizeFlag     = "max-size"
	noCSVFlag       = "no-csv"
	jsonFlag        = "json"
	sqliteFlag      = "sqlite"
	summaryFlag     = "summary"
	metricsFileFlag = "metrics-file"
)

// ErrInvalidYear is returned when the year argument is not a usable year.
var ErrInvalidYear = errors.New("invalid year")

// reportFlags override the report and input configuration.
type reportFlags struct {
	pageSize    int
	titleLength int
	maxSize     string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pageSize, pageSizeFlag, config.DefaultPageSize, "listing rows per page")
	cmd.Flags().IntVar(&f.titleLength, titleLengthFlag, config.DefaultTitleLength, "listing title length before truncation")
	cmd.Flags().StringVar(&f.maxSize, maxSizeFlag, config.DefaultMaxInputSize, "largest calendar file accepted, e.g. 32MB")
}

func (f *reportFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(pageSizeFlag) {
		cfg.Report.PageSize = f.pageSize
	}

	if flags.Changed(titleLengthFlag) {
		cfg.Report.TitleLength = f.titleLength
	}

	if flags.Changed(maxSizeFlag) {
		cfg.Input.MaxSize = f.maxSize
	}
}

// generateFlags override the document and export configuration.
type generateFlags struct {
	reportFlags

	format      string
	theme       string
	font        string
	noCSV       bool
	json        bool
	sqlite      string
	summary     string
	metricsFile string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	f.reportFlags.register(cmd)

	cmd.Flags().StringVar(&f.format, formatFlag, "", "output format: pdf or html (default: from the output extension)")
	cmd.Flags().StringVar(&f.theme, themeFlag, config.DefaultTheme, "html theme: light or dark")
	cmd.Flags().StringVar(&f.font, fontFlag, "", "TrueType font for PDF text, needed for non-Latin titles")
	cmd.Flags().BoolVar(&f.noCSV, noCSVFlag, false, "skip the CSV export")
	cmd.Flags().BoolVar(&f.json, jsonFlag, false, "also write a JSON export next to the output")
	cmd.Flags().StringVar(&f.sqlite, sqliteFlag, "", "write the export rows to this SQLite database")
	cmd.Flags().StringVar(&f.summary, summaryFlag, "", "write a YAML run summary to this file")
	cmd.Flags().StringVar(&f.metricsFile, metricsFileFlag, "", "write run metrics in Prometheus text format to this file")
}

func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	f.reportFlags.apply(cmd, cfg)

	flags := cmd.Flags()

	if flags.Changed(formatFlag) {
		cfg.Report.Format = f.format
	}

	if flags.Changed(themeFlag) {
		cfg.Report.Theme = f.theme
	}

	if flags.Changed(fontFlag) {
		cfg.Report.Font = f.font
	}

	if flags.Changed(noCSVFlag) {
		cfg.Export.CSV = !f.noCSV
	}

	if flags.Changed(jsonFlag) {
		cfg.Export.JSON = f.json
	}

	if flags.Changed(sqliteFlag) {
		cfg.Export.SQLite = f.sqlite
	}

	if flags.Changed(summaryFlag) {
		cfg.Export.Summary = f.summary
	}

	if flags.Changed(metricsFileFlag) {
		cfg.Telemetry.MetricsFile = f.metricsFile
	}

	return cfg.Validate()
}

func newGenerateCommand(global *globalFlags) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   generateCmdUse,
		Short: generateCmdShort,
		Long: `yearcal reads the VEVENTs of an iCalendar file and renders, for one year,
a twelve-month overview shaded by events per day followed by a paginated
chronological listing. A CSV export with the full titles is written next to
the output file.`,
		Args:          cobra.ExactArgs(generateArgCount),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, global, &flags, args[0], args[1], args[2])
		},
	}

	flags.register(cmd)

	return cmd
}

func parseYear(arg string) (int, error) {
	year, err := strconv.Atoi(arg)
	if err != nil || year < minYear || year > maxYear {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, arg)
	}

	return year, nil
}

func runGenerate(cmd *cobra.Command, global *globalFlags, flags *generateFlags, input, output, yearArg string) (err error) {
	ctx := cmd.Context()

	year, err := parseYear(yearArg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}

	err = flags.apply(cmd, cfg)
	if err != nil {
		return err
	}

	format, err := render.FormatFor(output, cfg.Report.Format)
	if err != nil {
		return err
	}

	theme, err := plotpage.ParseTheme(cfg.Report.Theme)
	if err != nil {
		return err
	}

	runID := report.NewRunID()

	providers, err := initObservability(ctx, cfg, global, generateCommand, runID, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}()

	metrics, err := observability.NewReportMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	logger := providers.Logger
	start := time.Now()

	stats := observability.RunStats{Year: year, Format: string(format), Status: observability.StatusOK}

	defer func() {
		if err != nil {
			stats.Status = observability.StatusError
		}

		stats.Duration = time.Since(start)
		metrics.RecordRun(ctx, stats)
	}()

	events, err := readEvents(ctx, cfg, input, logger)
	if err != nil {
		return err
	}

	stats.EventsParsed = len(events)

	driver := report.NewDriver(logger)
	driver.PageSize = cfg.Report.PageSize
	driver.TitleLength = cfg.Report.TitleLength
	driver.Tracer = providers.Tracer

	openOutput := openerFor(format, theme, output, cfg.Report)
	created := false

	res, err := driver.Generate(ctx, func(ctx context.Context) (report.Document, error) {
		doc, openErr := openOutput(ctx)
		created = openErr == nil

		return doc, openErr
	}, events, year)
	if err != nil {
		if errors.Is(err, pdf.ErrUnsupportedGlyphs) {
			err = fmt.Errorf("%w (pass --%s with a TrueType font covering these titles)", err, fontFlag)
		}

		err = fmt.Errorf("generate %s: %w", output, err)
		if created {
			err = errors.Join(err, removePartial(output))
		}

		return err
	}

	stats.EventsInYear = res.Store.Len()
	stats.Pages = 1 + len(res.Pages)
	stats.MaxDailyCount = res.Overview.MaxDailyCount

	logWritten(ctx, logger, "report written", output)

	return writeExports(ctx, cfg, output, runID, res, logger)
}

// removePartial deletes an output file left behind by a failed run.
func removePartial(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove partial output: %w", err)
	}

	return nil
}

// readEvents parses the calendar file within the configured size limit.
func readEvents(ctx context.Context, cfg *config.Config, path string, logger *slog.Logger) ([]calendar.Event, error) {
	maxBytes, err := cfg.Input.MaxBytes()
	if err != nil {
		return nil, err
	}

	events, err := ical.ParseFile(path, maxBytes)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "calendar parsed", "path", path, "events", len(events))

	return events, nil
}

// openerFor returns the document session for format writing to output. The
// file is created only when the driver opens the session.
func openerFor(format render.Format, theme plotpage.Theme, output string, cfg config.ReportConfig) report.Opener {
	return func(_ context.Context) (report.Document, error) {
		file, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}

		switch format {
		case render.FormatPDF:
			opts := []pdf.Option{pdf.WithCreator("yearcal " + version.Current())}
			if cfg.Font != "" {
				opts = append(opts, pdf.WithFont(cfg.Font))
			}

			doc, docErr := pdf.NewDocument(file, opts...)
			if docErr != nil {
				return nil, errors.Join(docErr, file.Close())
			}

			return doc, nil
		case render.FormatHTML:
			return plotpage.NewDocument(file, theme), nil
		default:
			return nil, errors.Join(fmt.Errorf("%w: %q", render.ErrUnknownFormat, format), file.Close())
		}
	}
}

// writeExports writes the configured flat exports of the listing rows.
func writeExports(
	ctx context.Context, cfg *config.Config, output, runID string, res report.Result, logger *slog.Logger,
) error {
	if cfg.Export.CSV {
		path, err := tabular.SaveRows(output, tabular.NewCSVCodec(), res.Rows)
		if err != nil {
			return err
		}

		logWritten(ctx, logger, "csv written", path)
	}

	if cfg.Export.JSON {
		path, err := tabular.SaveRows(output, tabular.NewJSONCodec(), res.Rows)
		if err != nil {
			return err
		}

		logWritten(ctx, logger, "json written", path)
	}

	if cfg.Export.SQLite != "" {
		err := writeSQLite(ctx, cfg.Export.SQLite, res)
		if err != nil {
			return err
		}

		logWritten(ctx, logger, "sqlite written", cfg.Export.SQLite)
	}

	if cfg.Export.Summary != "" {
		err := writeSummary(cfg.Export.Summary, report.Summarize(runID, res))
		if err != nil {
			return err
		}

		logWritten(ctx, logger, "summary written", cfg.Export.Summary)
	}

	return nil
}

func writeSQLite(ctx context.Context, path string, res report.Result) (err error) {
	db, err := tabular.OpenSQLite(path)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, db.Close())
	}()

	return db.WriteRows(ctx, res.Rows)
}

func writeSummary(path string, sum report.Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}

	writeErr := report.WriteSummary(file, sum)

	return errors.Join(writeErr, file.Close())
}

func logWritten(ctx context.Context, logger *slog.Logger, msg, path string) {
	attrs := []any{"path", path}

	info, err := os.Stat(path)
	if err == nil {
		attrs = append(attrs, "size", humanize.Bytes(uint64(info.Size())))
	}

	logger.InfoContext(ctx, msg, attrs...)
}
