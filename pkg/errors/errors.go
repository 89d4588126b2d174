package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile           ErrorCategory = "file"
	CategoryParse          ErrorCategory = "parse"
	CategoryValidation     ErrorCategory = "validation"
	CategoryConfiguration  ErrorCategory = "configuration"
	CategoryReconciliation ErrorCategory = "reconciliation"
	CategoryInternal       ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileCorrupted  ErrorCode = "file_corrupted"
	CodeDirectoryError ErrorCode = "directory_error"

	// Report parse errors
	CodePreliminaryMonthFile ErrorCode = "preliminary_month_file"
	CodeInvalidColumnCount   ErrorCode = "invalid_column_count"
	CodeNoDataInFile         ErrorCode = "no_data_in_file"
	CodeLineNoCurrencySymbol ErrorCode = "line_no_currency_symbol"
	CodeFailedParsingValue   ErrorCode = "failed_parsing_value"

	// Lookup and validation errors
	CodeUnknownCountryCode        ErrorCode = "unknown_country_code"
	CodeDateRangeStraddlesCutover ErrorCode = "date_range_straddles_cutover"

	// Configuration errors
	CodeInvalidConfig  ErrorCode = "invalid_config"
	CodeMissingConfig  ErrorCode = "missing_config"
	CodeConfigConflict ErrorCode = "config_conflict"

	// Reconciliation errors
	CodeCurrencyDataNotFound ErrorCode = "currency_data_not_found"
	CodeProcessingError      ErrorCode = "processing_error"

	// Internal errors
	CodeDateRangeMismatch ErrorCode = "date_range_mismatch"
	CodeUnexpectedError   ErrorCode = "unexpected_error"
)

// SlicerError is the base error type for all application errors
type SlicerError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *SlicerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *SlicerError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *SlicerError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryReconciliation, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *SlicerError) WithContext(key string, value interface{}) *SlicerError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *SlicerError) WithSuggestion(suggestion string) *SlicerError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SlicerError
func New(category ErrorCategory, code ErrorCode, message string) *SlicerError {
	return &SlicerError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with SlicerError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *SlicerError {
	if err == nil {
		return nil
	}

	return &SlicerError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *SlicerError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file appears to be corrupted: %s", path)
		suggestion = "download the report again from the storefront"
	case CodeDirectoryError:
		message = fmt.Sprintf("directory error: %s", path)
		suggestion = "ensure the directory exists and is accessible"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *SlicerError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *SlicerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the command help for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this setting as a flag, environment variable or config file entry"
	case CodeConfigConflict:
		message = fmt.Sprintf("configuration conflict with setting '%s': %v", setting, value)
		suggestion = "resolve the conflicting settings or use default values"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *SlicerError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *SlicerError {
	var message string
	var suggestion string

	switch code {
	case CodeUnexpectedError:
		message = fmt.Sprintf("unexpected error during %s", operation)
		suggestion = "this is likely a bug - please report it with the error details"
	default:
		message = fmt.Sprintf("internal error during %s", operation)
		suggestion = "try again or contact support if the problem persists"
	}

	var result *SlicerError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// Utility functions

// IsSlicerError checks if an error is a SlicerError
func IsSlicerError(err error) bool {
	_, ok := err.(*SlicerError)
	return ok
}

// AsSlicerError extracts a SlicerError from an error chain
func AsSlicerError(err error) (*SlicerError, bool) {
	var slicerErr *SlicerError
	if errors.As(err, &slicerErr) {
		return slicerErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a SlicerError with the given code
func HasCode(err error, code ErrorCode) bool {
	slicerErr, ok := AsSlicerError(err)
	return ok && slicerErr.Code == code
}

// WrapIfNeeded wraps an error if it's not already a SlicerError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *SlicerError {
	if err == nil {
		return nil
	}

	if slicerErr, ok := AsSlicerError(err); ok {
		return slicerErr
	}

	return Wrap(err, category, code, message)
}
