package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/yearcal/pkg/render/terminal"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
)

const (
	previewCmdUse   = "preview <ical-file> <year>"
	previewCmdShort = "Print the yearly overview and listing to the terminal"
	previewArgCount = 2
	previewCommand  = "preview"

	noColorFlag = "no-color"
	widthFlag   = "width"
)

type previewFlags struct {
	reportFlags

	noColor bool
	width   int
}

func newPreviewCommand(global *globalFlags) *cobra.Command {
	var flags previewFlags

	cmd := &cobra.Command{
		Use:   previewCmdUse,
		Short: previewCmdShort,
		Long: `preview renders the same report as the root command to standard output:
month grids side by side with event days shaded, then the listing pages as
tables. Colour is disabled by --no-color or the NO_COLOR environment variable.`,
		Args: cobra.ExactArgs(previewArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, global, &flags, args[0], args[1])
		},
	}

	flags.reportFlags.register(cmd)
	cmd.Flags().BoolVar(&flags.noColor, noColorFlag, false, "disable colour output")
	cmd.Flags().IntVar(&flags.width, widthFlag, 0, "terminal width (default: $COLUMNS or 80)")

	return cmd
}

func runPreview(cmd *cobra.Command, global *globalFlags, flags *previewFlags, input, yearArg string) (err error) {
	ctx := cmd.Context()

	year, err := parseYear(yearArg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}

	flags.reportFlags.apply(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return err
	}

	providers, err := initObservability(ctx, cfg, global, previewCommand, report.NewRunID(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}()

	logger := providers.Logger

	events, err := readEvents(ctx, cfg, input, logger)
	if err != nil {
		return err
	}

	termCfg := terminal.NewConfig()
	if flags.noColor {
		termCfg.NoColor = true
	}

	if flags.width > 0 {
		termCfg.Width = flags.width
	}

	driver := report.NewDriver(logger)
	driver.PageSize = cfg.Report.PageSize
	driver.TitleLength = cfg.Report.TitleLength
	driver.Tracer = providers.Tracer

	open := func(_ context.Context) (report.Document, error) {
		return terminal.NewDocument(cmd.OutOrStdout(), termCfg), nil
	}

	_, err = driver.Generate(ctx, open, events, year)

	return err
}
