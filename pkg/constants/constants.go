// Package constants provides shared constants for the loan-amortization application.
package constants

// DateLayout is the format expected in config files and is also the output
// date format for payment dates.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DefaultCurrencyDecimals is the default number of decimal places for
	// currency values
	DefaultCurrencyDecimals = 2

	// MaxTermMonths is the longest loan term accepted from callers (100 years)
	MaxTermMonths = 1200

	// MaxCurrencyDecimals is the largest currency precision accepted from callers
	MaxCurrencyDecimals = 10

	// PaymentDecimals is the precision of the fixed scheduled payment
	PaymentDecimals = 2

	// ExportDecimals is the precision of every amount written by the CSV exporter
	ExportDecimals = 2

	// PowerPrecision is the number of decimal places kept while raising
	// (1 + r) to the term
	PowerPrecision = 28

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100

	// InterestShareDecimals is the precision of the interest share shown in summaries
	InterestShareDecimals = 1
)

// CSVHeader lists the exported schedule columns in order.
var CSVHeader = []string{
	"PaymentNumber",
	"PaymentDate",
	"ScheduledPayment",
	"Interest",
	"ScheduledPrincipal",
	"ExtraPrincipal",
	"TotalPrincipal",
	"EndingBalance",
	"CumulativeInterest",
	"CumulativeTotalPaid",
	"CumulativePrincipal",
	"PercentPaidOff",
	"InterestPercentOfPayment",
}

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of config keys
	EnvPrefix = "AMORTIZATION"
)

// Scenario names
const (
	// BaseScenarioName names the schedule computed without extra payments
	BaseScenarioName = "base"

	// ExtrasScenarioName labels schedules computed with an extra-payment plan
	ExtrasScenarioName = "extras"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMetricsPath is where Prometheus metrics are served
	DefaultMetricsPath = "/metrics"

	// DefaultCacheBackend is the schedule cache used when none is configured
	DefaultCacheBackend = "memory"

	// DefaultCacheTTL is the default lifetime of cached schedules
	DefaultCacheTTL = "10m"

	// CacheKeyPrefix prefixes every schedule cache key
	CacheKeyPrefix = "amortization:schedule:"
)
