// Package reporter renders reconciliation results as invoice reports.
//
// Supported output formats:
//   - Console: plain text for terminal display
//   - JSON and YAML: structured data for programmatic consumption
//   - CSV: one row per invoice item for spreadsheet applications
//   - Markdown and HTML: documents to attach to intercompany invoices
//   - XLSX: a workbook with a summary sheet and one sheet per invoice
//
// Amounts are rounded with decimal arithmetic before rendering: items to
// ItemPrecision fractional digits, subtotals and totals to TotalPrecision.
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(&reporter.ReportConfig{Format: reporter.FormatMarkdown})
//	err = generator.GenerateReport(result, os.Stdout)
package reporter

import (
	"fmt"
	"io"
	"strings"

	"financial-report-slicer/internal/reconciler"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatXLSX     OutputFormat = "xlsx"
)

// Formats lists every supported output format
var Formats = []OutputFormat{
	FormatConsole, FormatJSON, FormatCSV, FormatYAML, FormatMarkdown, FormatHTML, FormatXLSX,
}

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	for _, format := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// IsBinary reports whether the format can't be written to a terminal
func (f OutputFormat) IsBinary() bool {
	return f == FormatXLSX
}

// Extension returns the usual file extension of the format
func (f OutputFormat) Extension() string {
	switch f {
	case FormatConsole:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// ParseOutputFormat converts a user supplied format name
func ParseOutputFormat(name string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	if format == "md" {
		format = FormatMarkdown
	}
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %s", name)
	}
	return format, nil
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeCurrencyRecords bool `json:"include_currency_records"`
	IncludeAddresses       bool `json:"include_addresses"`

	// Rounding of amounts, in fractional digits
	ItemPrecision  int32 `json:"item_precision"`
	TotalPrecision int32 `json:"total_precision"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                 FormatConsole,
		IncludeCurrencyRecords: true,
		IncludeAddresses:       true,
		ItemPrecision:          4,
		TotalPrecision:         2,
		CSVDelimiter:           ',',
		CSVHeaders:             true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.ItemPrecision < 0 || c.ItemPrecision > 10 {
		return fmt.Errorf("item precision must be between 0 and 10, got %d", c.ItemPrecision)
	}

	if c.TotalPrecision < 0 || c.TotalPrecision > c.ItemPrecision {
		return fmt.Errorf("total precision must be between 0 and the item precision %d, got %d",
			c.ItemPrecision, c.TotalPrecision)
	}

	if c.Format == FormatCSV && (c.CSVDelimiter == 0 || c.CSVDelimiter == '"' || c.CSVDelimiter == '\n') {
		return fmt.Errorf("invalid CSV delimiter %q", c.CSVDelimiter)
	}

	return nil
}

// ReportGenerator generates invoice reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport generates a report from a reconciliation result and writes it to the provided writer
func (rg *ReportGenerator) GenerateReport(result *reconciler.Result, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("reconciliation result cannot be nil")
	}

	view := newReportView(result, rg.config)

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(view, writer)
	case FormatJSON:
		return rg.generateJSONReport(view, writer)
	case FormatCSV:
		return rg.generateCSVReport(view, writer)
	case FormatYAML:
		return rg.generateYAMLReport(view, writer)
	case FormatMarkdown:
		return rg.generateMarkdownReport(view, writer)
	case FormatHTML:
		return rg.generateHTMLReport(view, writer)
	case FormatXLSX:
		return rg.generateXLSXReport(view, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
