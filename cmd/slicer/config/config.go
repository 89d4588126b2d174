package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"financial-report-slicer/internal/entities"
	"financial-report-slicer/internal/reconciler"
	"financial-report-slicer/internal/reporter"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

// DateLayout is the layout of date flags such as --as-of
const DateLayout = "2006-01-02"

// ParseAsOf converts an --as-of value; empty means the current clock
func ParseAsOf(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	asOf, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "as-of", value, err).
			WithSuggestion("Use the YYYY-MM-DD date format")
	}
	return &asOf, nil
}

// CreateReconcilerConfig creates a reconciler configuration from raw flag values
func CreateReconcilerConfig(localCurrency string, entityNames []string, asOf string) (*reconciler.Config, error) {
	config := reconciler.DefaultConfig()

	config.LocalCurrency = strings.ToUpper(strings.TrimSpace(localCurrency))

	selected, err := entities.ParseLegalEntities(splitList(entityNames))
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "entities", strings.Join(entityNames, ","), err).
			WithSuggestion(fmt.Sprintf("Valid entities: %s", strings.Join(EntityNames(), ", ")))
	}
	config.SelectedEntities = selected

	if config.AsOf, err = ParseAsOf(asOf); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "local-currency", localCurrency, err)
	}

	return config, nil
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string, includeCurrencies bool) (*reporter.ReportConfig, error) {
	outputFormat, err := reporter.ParseOutputFormat(format)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "output-format", format, err).
			WithSuggestion(fmt.Sprintf("Valid formats: %s", strings.Join(FormatNames(), ", ")))
	}

	config := reporter.DefaultReportConfig()
	config.Format = outputFormat
	config.IncludeCurrencyRecords = includeCurrencies

	switch outputFormat {
	case reporter.FormatCSV:
		// CSV is for item data
		config.IncludeCurrencyRecords = false
		config.IncludeAddresses = false
	case reporter.FormatJSON, reporter.FormatYAML:
		config.IncludeAddresses = false
	}

	return config, nil
}

// ValidateOutput checks that the output destination suits the format
func ValidateOutput(config *reporter.ReportConfig, outputFile string) error {
	if outputFile == "" {
		if config.Format.IsBinary() {
			return errors.ConfigurationError(errors.CodeMissingConfig, "output-file", nil, nil).
				WithSuggestion(fmt.Sprintf("The %s format can't be written to a terminal; pass --output-file report%s",
					config.Format, config.Format.Extension()))
		}
		return nil
	}

	if ext := filepath.Ext(outputFile); ext != "" && !strings.EqualFold(ext, config.Format.Extension()) {
		return errors.ConfigurationError(errors.CodeConfigConflict, "output-file", outputFile, nil).
			WithSuggestion(fmt.Sprintf("Use the %s extension for the %s format", config.Format.Extension(), config.Format))
	}

	return nil
}

// CreateLoggerConfig creates a logger configuration from the global flags
func CreateLoggerConfig(level, format, file string, verbose bool) (*logger.Config, error) {
	config := logger.DefaultConfig()

	if file != "" {
		config.Output = logger.FileOutput
		config.File = file
	}

	if level != "" {
		config.Level = logger.Level(strings.ToLower(level))
	}
	if verbose && config.Level != logger.DebugLevel {
		config.Level = logger.InfoLevel
	}
	if format != "" {
		config.Format = logger.Format(strings.ToLower(format))
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "log", fmt.Sprintf("%s/%s", level, format), err)
	}
	return config, nil
}

// EntityNames returns the flag names of all legal entities
func EntityNames() []string {
	names := make([]string, 0, len(entities.All))
	for _, entity := range entities.All {
		names = append(names, entity.String())
	}
	return names
}

// FormatNames returns the names of all output formats
func FormatNames() []string {
	names := make([]string, 0, len(reporter.Formats))
	for _, format := range reporter.Formats {
		names = append(names, string(format))
	}
	return names
}

// splitList accepts both repeated flags and comma separated values
func splitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
