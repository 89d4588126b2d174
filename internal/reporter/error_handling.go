package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"financial-report-slicer/internal/reconciler"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

// SafeReportGenerator wraps ReportGenerator with error handling and fallbacks
type SafeReportGenerator struct {
	*ReportGenerator
	logger logger.Logger
}

// NewSafeReportGenerator creates a new safe report generator with error handling
func NewSafeReportGenerator(config *ReportConfig, log logger.Logger) (*SafeReportGenerator, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	generator, err := NewReportGenerator(config)
	if err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"report_config",
			config,
			err,
		).WithSuggestion("Check the output format and precision settings")
	}

	return &SafeReportGenerator{
		ReportGenerator: generator,
		logger:          log.WithComponent("reporter"),
	}, nil
}

// GenerateReportSafely generates a report, falling back to the console format
// when a text format fails to render
func (srg *SafeReportGenerator) GenerateReportSafely(result *reconciler.Result, writer io.Writer) error {
	srg.logger.WithFields(logger.Fields{
		"format": srg.config.Format,
		"output": getWriterDescription(writer),
	}).Info("Starting report generation")

	if err := srg.validateInputs(result, writer); err != nil {
		srg.logger.WithError(err).Error("Report generation failed: input validation")
		return err
	}

	if err := srg.generateWithFallback(result, writer); err != nil {
		srg.logger.WithError(err).Error("Report generation failed")
		return err
	}

	srg.logger.WithField("invoices", len(result.Invoices)).Info("Report generation completed successfully")
	return nil
}

// WriteReportFile renders the report and writes it to path. When path can't
// be written the report is saved to a backup location in the temp directory
// and the backup path is returned.
func (srg *SafeReportGenerator) WriteReportFile(result *reconciler.Result, path string) (string, error) {
	var buf bytes.Buffer
	if err := srg.GenerateReportSafely(result, &buf); err != nil {
		return "", err
	}

	err := writeFile(path, buf.Bytes())
	if err == nil {
		srg.logger.WithField("file", path).Info("Report written")
		return path, nil
	}

	if !isFileError(err) {
		return "", errors.FileError(errors.CodeDirectoryError, path, err)
	}

	backupPath := srg.generateBackupPath(path)
	srg.logger.WithFields(logger.Fields{
		"original_file": path,
		"backup_file":   backupPath,
	}).WithError(err).Warn("Attempting output fallback")

	if backupErr := writeFile(backupPath, buf.Bytes()); backupErr != nil {
		code := errors.CodeDirectoryError
		if os.IsPermission(err) {
			code = errors.CodeFilePermission
		}
		return "", errors.FileError(code, path, err).
			WithContext("backup_error", backupErr.Error())
	}

	fmt.Fprintf(os.Stderr, "Warning: Could not write to %s, report saved to %s\n", path, backupPath)
	return backupPath, nil
}

// validateInputs validates the inputs for report generation
func (srg *SafeReportGenerator) validateInputs(result *reconciler.Result, writer io.Writer) error {
	if result == nil {
		return errors.New(errors.CategoryValidation, errors.CodeProcessingError, "reconciliation result is missing").
			WithSuggestion("Run the reconciliation before generating a report")
	}

	if writer == nil {
		return errors.New(errors.CategoryValidation, errors.CodeProcessingError, "report output writer is missing").
			WithSuggestion("Provide a valid output writer")
	}

	return nil
}

// generateWithFallback attempts to generate the report with fallback strategies
func (srg *SafeReportGenerator) generateWithFallback(result *reconciler.Result, writer io.Writer) error {
	// Render to a buffer first so a failed format leaves no partial output
	var buf bytes.Buffer
	err := srg.GenerateReport(result, &buf)
	if err == nil {
		_, err = writer.Write(buf.Bytes())
		if err != nil {
			return srg.wrapGenerationError(err)
		}
		return nil
	}

	srg.logger.WithError(err).Warn("Primary report generation failed, attempting fallback")

	if srg.shouldAttemptFormatFallback() {
		return srg.generateWithFormatFallback(result, writer, err)
	}

	return srg.wrapGenerationError(err)
}

// shouldAttemptFormatFallback reports whether console output can stand in for
// the requested format
func (srg *SafeReportGenerator) shouldAttemptFormatFallback() bool {
	return srg.config.Format != FormatConsole && !srg.config.Format.IsBinary()
}

// generateWithFormatFallback attempts to generate with the console format
func (srg *SafeReportGenerator) generateWithFormatFallback(result *reconciler.Result, writer io.Writer, originalErr error) error {
	fallbackConfig := *srg.config
	fallbackConfig.Format = FormatConsole

	srg.logger.WithField("fallback_format", FormatConsole).Info("Attempting format fallback")

	fallbackGenerator, err := NewReportGenerator(&fallbackConfig)
	if err != nil {
		return srg.wrapGenerationError(originalErr)
	}

	fmt.Fprintf(writer, "NOTE: Report generated in fallback format due to error with requested format\n")
	fmt.Fprintf(writer, "Original error: %v\n\n", originalErr)

	if err := fallbackGenerator.GenerateReport(result, writer); err != nil {
		return errors.InternalError(
			errors.CodeUnexpectedError,
			"report_fallback",
			fmt.Errorf("both primary and fallback generation failed: primary=%v, fallback=%v", originalErr, err),
		)
	}

	srg.logger.Info("Report generated successfully using format fallback")
	return nil
}

// generateBackupPath creates a backup file path in the temp directory
func (srg *SafeReportGenerator) generateBackupPath(originalPath string) string {
	base := filepath.Base(originalPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	return filepath.Join(os.TempDir(), fmt.Sprintf("%s_backup%s", name, ext))
}

// wrapGenerationError wraps generation errors with context
func (srg *SafeReportGenerator) wrapGenerationError(err error) error {
	if slicerErr, ok := errors.AsSlicerError(err); ok {
		return slicerErr
	}

	return errors.InternalError(
		errors.CodeProcessingError,
		"report_generation",
		err,
	).WithSuggestion("Check the output destination and report format settings")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// isFileError checks if the error is file-related
func isFileError(err error) bool {
	return os.IsPermission(err) ||
		os.IsNotExist(err) ||
		os.IsExist(err) ||
		isSpaceError(err)
}

func getWriterDescription(writer io.Writer) string {
	switch w := writer.(type) {
	case *os.File:
		if w.Name() != "" {
			return fmt.Sprintf("file:%s", w.Name())
		}
		return "file:unnamed"
	default:
		return fmt.Sprintf("writer:%T", writer)
	}
}

func isSpaceError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "disk full") ||
		strings.Contains(msg, "device full")
}
