// Package constants provides shared constants for the space-planner application.
package constants

// Simulation defaults
const (
	// DefaultTimeSteps is the default simulated horizon in ticks (seconds)
	DefaultTimeSteps = 900

	// DefaultMinimumIncome is the income floor used when the catalog produces nothing
	DefaultMinimumIncome = 0.1

	// WeightPolicyFull recomputes the selection weights on every tick
	WeightPolicyFull = "full"

	// WeightPolicyPrune recomputes only after a purchase and prunes otherwise
	WeightPolicyPrune = "prune"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultSaveFile is where the canonical catalog quantities are persisted
	DefaultSaveFile = "resource/save/things.json"

	// DefaultParametersFile holds the fitted price-curve parameters
	DefaultParametersFile = "fitted_parameters.csv"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
	// MaxRequestSizeBytes is the largest request body limit the server accepts (1 MB)
	MaxRequestSizeBytes int64 = 1024 * 1024

	// DefaultStatusIntervalMillis is how often the websocket stream pushes a status frame
	DefaultStatusIntervalMillis = 1000
)

