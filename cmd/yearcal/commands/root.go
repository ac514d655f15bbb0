// Package commands implements the yearcal command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/yearcal/pkg/config"
	"github.com/Sumatoshi-tech/yearcal/pkg/observability"
	"github.com/Sumatoshi-tech/yearcal/pkg/version"
)

const (
	configFlag     = "config"
	verboseFlag    = "verbose"
	quietFlag      = "quiet"
	dotEnvFile     = ".env"
	envOTLPHeaders = "OTEL_EXPORTER_OTLP_HEADERS"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
}

// NewRootCommand builds the yearcal command tree. The root command itself
// generates a report; preview and version are subcommands.
func NewRootCommand() *cobra.Command {
	var global globalFlags

	rootCmd := newGenerateCommand(&global)

	rootCmd.PersistentFlags().StringVar(&global.configPath, configFlag, "", "config file (default: yearcal.yaml in ., ./config or ~/.config/yearcal)")
	rootCmd.PersistentFlags().BoolVarP(&global.verbose, verboseFlag, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&global.quiet, quietFlag, "q", false, "only log errors")

	rootCmd.AddCommand(newPreviewCommand(&global))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig reads .env, then the config file and environment.
func loadConfig(global *globalFlags) (*config.Config, error) {
	dotEnvErr := config.LoadDotEnv(dotEnvFile)
	if dotEnvErr != nil {
		return nil, dotEnvErr
	}

	cfg, err := config.LoadConfig(global.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// initObservability sets up logging, tracing and metrics for one run of
// command. Every log record and the telemetry resource carry runID.
func initObservability(
	ctx context.Context, cfg *config.Config, global *globalFlags, command, runID string, logOut io.Writer,
) (observability.Providers, error) {
	level, err := observability.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Providers{}, err
	}

	switch {
	case global.quiet:
		level = slog.LevelError
	case global.verbose:
		level = slog.LevelDebug
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Current()
	obsCfg.Command = command
	obsCfg.RunID = runID
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = logOut

	providers, err := observability.Init(ctx, obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}
