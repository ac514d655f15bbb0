package config

// Report defaults.
const (
	DefaultPageSize    = 40
	DefaultTitleLength = 30
	DefaultTheme       = "light"
	DefaultFormat      = ""
	DefaultFont        = ""
)

// Input defaults.
const (
	DefaultMaxInputSize = "32MB"
)

// Export defaults.
const (
	DefaultExportCSV     = true
	DefaultExportJSON    = false
	DefaultExportSQLite  = ""
	DefaultExportSummary = ""
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultMetricsFile  = ""
	DefaultSampleRatio  = 1.0
)
