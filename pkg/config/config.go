// Package config provides configuration loading and validation for yearcal.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override, e.g. YEARCAL_REPORT_PAGE_SIZE.
const EnvPrefix = "YEARCAL"

// Config holds all configuration for yearcal.
type Config struct {
	Report    ReportConfig    `mapstructure:"report"`
	Input     InputConfig     `mapstructure:"input"`
	Export    ExportConfig    `mapstructure:"export"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ReportConfig controls the rendered document.
type ReportConfig struct {
	PageSize    int    `mapstructure:"page_size"    validate:"gte=1"`
	TitleLength int    `mapstructure:"title_length" validate:"gte=0"`
	Theme       string `mapstructure:"theme"        validate:"oneof=light dark"`
	Format      string `mapstructure:"format"       validate:"omitempty,oneof=pdf html htm"`
	Font        string `mapstructure:"font"`
}

// InputConfig limits what is read from the calendar file.
type InputConfig struct {
	MaxSize string `mapstructure:"max_size" validate:"required"`
}

// MaxBytes parses MaxSize, e.g. "32MB" or "1 MiB".
func (c InputConfig) MaxBytes() (uint64, error) {
	n, err := humanize.ParseBytes(c.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("input.max_size %q: %w", c.MaxSize, err)
	}

	return n, nil
}

// ExportConfig selects the flat exports written next to the document.
type ExportConfig struct {
	CSV     bool   `mapstructure:"csv"`
	JSON    bool   `mapstructure:"json"`
	SQLite  string `mapstructure:"sqlite"`
	Summary string `mapstructure:"summary"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// TelemetryConfig holds tracing and metrics export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	SampleRatio  float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// LoadDotEnv loads environment variables from a dotenv file. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

// LoadConfig loads configuration from file and environment variables. With an
// empty configPath, yearcal.yaml is searched in the working directory,
// ./config and $HOME/.config/yearcal; not finding one is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("yearcal")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/yearcal")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return &config, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			PageSize:    DefaultPageSize,
			TitleLength: DefaultTitleLength,
			Theme:       DefaultTheme,
			Format:      DefaultFormat,
			Font:        DefaultFont,
		},
		Input: InputConfig{MaxSize: DefaultMaxInputSize},
		Export: ExportConfig{
			CSV:     DefaultExportCSV,
			JSON:    DefaultExportJSON,
			SQLite:  DefaultExportSQLite,
			Summary: DefaultExportSummary,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultOTLPEndpoint,
			OTLPInsecure: DefaultOTLPInsecure,
			MetricsFile:  DefaultMetricsFile,
			SampleRatio:  DefaultSampleRatio,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Report defaults.
	viperCfg.SetDefault("report.page_size", DefaultPageSize)
	viperCfg.SetDefault("report.title_length", DefaultTitleLength)
	viperCfg.SetDefault("report.theme", DefaultTheme)
	viperCfg.SetDefault("report.format", DefaultFormat)
	viperCfg.SetDefault("report.font", DefaultFont)

	// Input defaults.
	viperCfg.SetDefault("input.max_size", DefaultMaxInputSize)

	// Export defaults.
	viperCfg.SetDefault("export.csv", DefaultExportCSV)
	viperCfg.SetDefault("export.json", DefaultExportJSON)
	viperCfg.SetDefault("export.sqlite", DefaultExportSQLite)
	viperCfg.SetDefault("export.summary", DefaultExportSummary)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.metrics_file", DefaultMetricsFile)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that sizes parse.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	_, err = c.Input.MaxBytes()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
