package config

import (
	"reflect"
	"testing"
	"time"

	"financial-report-slicer/internal/entities"
	"financial-report-slicer/internal/reporter"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

func TestParseAsOf(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expected    *time.Time
		expectError bool
	}{
		{"empty", "", nil, false},
		{"blank", "  ", nil, false},
		{"date", "2024-10-26", ptr(time.Date(2024, time.October, 26, 0, 0, 0, 0, time.UTC)), false},
		{"wrong layout", "10/26/2024", nil, true},
		{"invalid month", "2024-13-01", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asOf, err := ParseAsOf(tt.value)
			if (err != nil) != tt.expectError {
				t.Fatalf("ParseAsOf(%q) error = %v, expectError %v", tt.value, err, tt.expectError)
			}
			if tt.expectError {
				if !errors.HasCode(err, errors.CodeInvalidConfig) {
					t.Errorf("Expected invalid config error, got %v", err)
				}
				return
			}
			if (asOf == nil) != (tt.expected == nil) || (asOf != nil && !asOf.Equal(*tt.expected)) {
				t.Errorf("Expected %v, got %v", tt.expected, asOf)
			}
		})
	}
}

func TestCreateReconcilerConfig(t *testing.T) {
	tests := []struct {
		name             string
		localCurrency    string
		entityNames      []string
		asOf             string
		expectedCurrency string
		expectedEntities []entities.LegalEntity
		expectError      bool
	}{
		{
			name: "defaults",
		},
		{
			name:             "lowercase currency",
			localCurrency:    " chf ",
			expectedCurrency: "CHF",
		},
		{
			name:             "comma separated entities",
			entityNames:      []string{"europe,japan"},
			expectedEntities: []entities.LegalEntity{entities.Europe, entities.Japan},
		},
		{
			name:             "repeated entity flags",
			entityNames:      []string{"APAC", " latam "},
			expectedEntities: []entities.LegalEntity{entities.APAC, entities.LatAm},
		},
		{
			name:        "unknown entity",
			entityNames: []string{"europe,mars"},
			expectError: true,
		},
		{
			name:          "invalid currency",
			localCurrency: "euro",
			expectError:   true,
		},
		{
			name:        "invalid as-of",
			asOf:        "yesterday",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := CreateReconcilerConfig(tt.localCurrency, tt.entityNames, tt.asOf)
			if (err != nil) != tt.expectError {
				t.Fatalf("CreateReconcilerConfig() error = %v, expectError %v", err, tt.expectError)
			}
			if tt.expectError {
				if slicerErr, ok := errors.AsSlicerError(err); !ok || slicerErr.Category != errors.CategoryConfiguration {
					t.Errorf("Expected configuration error, got %v", err)
				}
				return
			}

			if config.LocalCurrency != tt.expectedCurrency {
				t.Errorf("Expected local currency %q, got %q", tt.expectedCurrency, config.LocalCurrency)
			}
			if !reflect.DeepEqual(config.SelectedEntities, tt.expectedEntities) {
				t.Errorf("Expected entities %v, got %v", tt.expectedEntities, config.SelectedEntities)
			}
		})
	}
}

func TestCreateReconcilerConfig_AsOf(t *testing.T) {
	config, err := CreateReconcilerConfig("", nil, "2024-11-01")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.AsOf == nil || !config.AsOf.Equal(time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected pinned clock, got %v", config.AsOf)
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format             string
		includeCurrencies  bool
		expectedFormat     reporter.OutputFormat
		expectedCurrencies bool
		expectedAddresses  bool
		expectError        bool
	}{
		{"console", true, reporter.FormatConsole, true, true, false},
		{"console", false, reporter.FormatConsole, false, true, false},
		{"json", true, reporter.FormatJSON, true, false, false},
		{"csv", true, reporter.FormatCSV, false, false, false},
		{"md", true, reporter.FormatMarkdown, true, true, false},
		{"xlsx", true, reporter.FormatXLSX, true, true, false},
		{"pdf", true, "", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			config, err := CreateReportConfig(tt.format, tt.includeCurrencies)
			if (err != nil) != tt.expectError {
				t.Fatalf("CreateReportConfig(%q) error = %v, expectError %v", tt.format, err, tt.expectError)
			}
			if tt.expectError {
				return
			}

			if config.Format != tt.expectedFormat {
				t.Errorf("Expected format %s, got %s", tt.expectedFormat, config.Format)
			}
			if config.IncludeCurrencyRecords != tt.expectedCurrencies {
				t.Errorf("Expected currency records %v, got %v", tt.expectedCurrencies, config.IncludeCurrencyRecords)
			}
			if config.IncludeAddresses != tt.expectedAddresses {
				t.Errorf("Expected addresses %v, got %v", tt.expectedAddresses, config.IncludeAddresses)
			}
			if err := config.Validate(); err != nil {
				t.Errorf("Report config should be valid: %v", err)
			}
		})
	}
}

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		name         string
		format       reporter.OutputFormat
		outputFile   string
		expectedCode errors.ErrorCode
	}{
		{"console to stdout", reporter.FormatConsole, "", ""},
		{"json to file", reporter.FormatJSON, "out/report.json", ""},
		{"file without extension", reporter.FormatHTML, "report", ""},
		{"uppercase extension", reporter.FormatMarkdown, "REPORT.MD", ""},
		{"xlsx to stdout", reporter.FormatXLSX, "", errors.CodeMissingConfig},
		{"extension mismatch", reporter.FormatXLSX, "report.csv", errors.CodeConfigConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutput(&reporter.ReportConfig{Format: tt.format}, tt.outputFile)
			if tt.expectedCode == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.HasCode(err, tt.expectedCode) {
				t.Errorf("Expected error code %s, got %v", tt.expectedCode, err)
			}
		})
	}
}

func TestCreateLoggerConfig(t *testing.T) {
	tests := []struct {
		name           string
		level          string
		format         string
		file           string
		verbose        bool
		expectedLevel  logger.Level
		expectedOutput logger.Output
		expectError    bool
	}{
		{"defaults", "", "", "", false, logger.WarnLevel, logger.StderrOutput, false},
		{"verbose", "", "", "", true, logger.InfoLevel, logger.StderrOutput, false},
		{"debug stays debug", "debug", "", "", true, logger.DebugLevel, logger.StderrOutput, false},
		{"explicit level", "ERROR", "json", "", false, logger.ErrorLevel, logger.StderrOutput, false},
		{"log file", "", "", "slicer.log", false, logger.WarnLevel, logger.FileOutput, false},
		{"invalid level", "trace", "", "", false, "", "", true},
		{"invalid format", "", "xml", "", false, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := CreateLoggerConfig(tt.level, tt.format, tt.file, tt.verbose)
			if (err != nil) != tt.expectError {
				t.Fatalf("CreateLoggerConfig() error = %v, expectError %v", err, tt.expectError)
			}
			if tt.expectError {
				return
			}
			if config.Level != tt.expectedLevel {
				t.Errorf("Expected level %s, got %s", tt.expectedLevel, config.Level)
			}
			if config.Output != tt.expectedOutput || config.File != tt.file {
				t.Errorf("Expected output %s to %q, got %s to %q", tt.expectedOutput, tt.file, config.Output, config.File)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if names := EntityNames(); len(names) != 7 || names[0] != "europe" || names[6] != "apac" {
		t.Errorf("Unexpected entity names %v", names)
	}
	if names := FormatNames(); len(names) != len(reporter.Formats) || names[0] != "console" {
		t.Errorf("Unexpected format names %v", names)
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
