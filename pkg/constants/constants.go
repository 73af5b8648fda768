// Package constants provides shared constants for the job-offer application.
package constants

import "time"

// Salary constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// MaxCurrencyAmount is the largest magnitude that can be split into
	// whole units and hundredths, and so spelled out in words.
	MaxCurrencyAmount = 1e15

	// MaxFormulaPasses bounds the number of recomputation sweeps over a document.
	MaxFormulaPasses = 5

	// MaxFormulaLength is the longest formula, in bytes, that is compiled.
	MaxFormulaLength = 4096

	// MaxFormulaDepth bounds the nesting of parentheses, ternaries, helper
	// calls, unary operators and exponents in a formula.
	MaxFormulaDepth = 64

	// BaseIdentifier is the formula identifier bound to the document's base salary.
	BaseIdentifier = "base"

	// HelperNamespace is reserved for formula helper functions (Math.round etc.).
	HelperNamespace = "Math"
)

// DateLayout is the layout of offer dates (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Structure application modes
const (
	// StructureModeNone leaves the component tables as they are.
	StructureModeNone = "none"

	// StructureModeOverwrite replaces the component tables with the structure rows.
	StructureModeOverwrite = "overwrite"

	// StructureModeAppend appends the structure rows to the component tables.
	StructureModeAppend = "append"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"

	// DefaultXLSXFile is the workbook written when no output file is given
	DefaultXLSXFile = "job-offers.xlsx"
)

// Money-in-words defaults
const (
	// DefaultCurrency is used when neither the offer nor the structure names one
	DefaultCurrency = "INR"

	// DefaultFractionUnit is the name of the currency's fractional unit
	DefaultFractionUnit = "Paisa"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "job-offer.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "job-offer.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides for the server configuration
	EnvPrefix = "JOBOFFER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimitPerMinute is the default per-IP request budget
	DefaultRateLimitPerMinute = 60

	// DefaultStructureCacheTTL is how long a fetched salary structure stays cached
	DefaultStructureCacheTTL = 10 * time.Minute

	// DefaultBatchConcurrency bounds concurrent offer preparation
	DefaultBatchConcurrency = 8

	// FrappeStructureMethod is the whitelisted server method returning structure components
	FrappeStructureMethod = "fbts.salary_str.get_salary_structure_components"
)
