package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"

	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"

	"github.com/spf13/viper"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	out     io.Writer
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler writing to out
func NewCLIErrorHandler(out io.Writer) *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		out:     out,
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints err and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Debug("Command failed")

	if slicerErr, ok := errors.AsSlicerError(err); ok {
		return h.handleSlicerError(slicerErr)
	}

	return h.handleGenericError(err)
}

// handleSlicerError prints a SlicerError with its context and suggestion
func (h *CLIErrorHandler) handleSlicerError(err *errors.SlicerError) int {
	fmt.Fprintf(h.out, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		keys := make([]string, 0, len(err.Context))
		for key := range err.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(h.out, "\nContext:\n")
		for _, key := range keys {
			if value := err.Context[key]; value != nil {
				fmt.Fprintf(h.out, "  %s: %v\n", key, value)
			}
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(h.out, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(h.out, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(h.out, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

// handleGenericError handles errors that carry no category, such as flag parsing errors
func (h *CLIErrorHandler) handleGenericError(err error) int {
	if h.isFileNotFoundError(err) {
		fmt.Fprintf(h.out, "Error: File not found\n")
		fmt.Fprintf(h.out, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	}

	if h.isPermissionError(err) {
		fmt.Fprintf(h.out, "Error: Permission denied\n")
		fmt.Fprintf(h.out, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	}

	if h.isDiskFullError(err) {
		fmt.Fprintf(h.out, "Error: Insufficient disk space\n")
		fmt.Fprintf(h.out, "Suggestion: Free up disk space and try again\n")
		return 2
	}

	fmt.Fprintf(h.out, "Error: %v\n", err)
	fmt.Fprintf(h.out, "Run 'slicer --help' for usage.\n")

	return 1
}

// getCategoryHelp returns category-specific help text
func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check that the file exists and is readable
• Verify the file path is correct (use absolute paths if needed)
• Export the report again from the storefront if it looks damaged`

	case errors.CategoryParse:
		return `Parse error help:
• Pass the currency summary with --currency-file and the sales ledger with --ledger-file
• Use the final monthly reports; preliminary summaries can't be invoiced
• Keep the files tab or comma separated exactly as exported
• Check the row and column named in the context above`

	case errors.CategoryValidation:
		return `Validation error help:
• Every ledger row must cover the same reporting period
• A ledger period must not cross the 2024-10-26 entity cutover; split it first
• Country codes must be two-letter storefront codes`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify configuration file syntax if using --config
• SLICER_ environment variables override the config file
• Use 'slicer invoice --help' to see all available options`

	case errors.CategoryReconciliation:
		return `Reconciliation error help:
• Make sure both reports belong to the same month
• Every currency sold in the ledger needs a row in the currency summary`

	default:
		return `For more help:
• Use 'slicer --help' for general help
• Use 'slicer invoice --help' for command-specific help
• Run again with --verbose --log-level debug and report the output`
	}
}

// Error detection helpers

func (h *CLIErrorHandler) isFileNotFoundError(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file or directory")
}

func (h *CLIErrorHandler) isPermissionError(err error) bool {
	return os.IsPermission(err) ||
		strings.Contains(err.Error(), "permission denied") ||
		strings.Contains(err.Error(), "access denied")
}

func (h *CLIErrorHandler) isDiskFullError(err error) bool {
	if err == syscall.ENOSPC {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "disk full") ||
		strings.Contains(msg, "device full")
}
