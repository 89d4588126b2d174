package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSlicerError(t *testing.T) {
	tests := []struct {
		name       string
		category   ErrorCategory
		code       ErrorCode
		message    string
		cause      error
		expectCode int
	}{
		{
			name:       "file error",
			category:   CategoryFile,
			code:       CodeFileNotFound,
			message:    "file not found",
			cause:      errors.New("no such file"),
			expectCode: 2,
		},
		{
			name:       "parse error",
			category:   CategoryParse,
			code:       CodeInvalidColumnCount,
			message:    "invalid column count",
			cause:      nil,
			expectCode: 3,
		},
		{
			name:       "configuration error",
			category:   CategoryConfiguration,
			code:       CodeInvalidConfig,
			message:    "invalid config",
			cause:      errors.New("missing field"),
			expectCode: 4,
		},
		{
			name:       "reconciliation error",
			category:   CategoryReconciliation,
			code:       CodeCurrencyDataNotFound,
			message:    "currency missing",
			cause:      nil,
			expectCode: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err *SlicerError
			if tt.cause != nil {
				err = Wrap(tt.cause, tt.category, tt.code, tt.message)
			} else {
				err = New(tt.category, tt.code, tt.message)
			}

			if err.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category)
			}
			if err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, err.Code)
			}
			if err.GetExitCode() != tt.expectCode {
				t.Errorf("expected exit code %d, got %d", tt.expectCode, err.GetExitCode())
			}
			if err.Error() != tt.message {
				t.Errorf("expected error string %s, got %s", tt.message, err.Error())
			}
			if tt.cause != nil && err.Unwrap() != tt.cause {
				t.Errorf("expected to unwrap to %v, got %v", tt.cause, err.Unwrap())
			}
			if len(err.StackTrace) == 0 {
				t.Error("expected stack trace to be captured")
			}
		})
	}
}

func TestSlicerErrorWithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "test error").
		WithContext("file", "/path/to/file").
		WithContext("line", 42).
		WithSuggestion("check file path")

	if err.Context["file"] != "/path/to/file" {
		t.Errorf("expected file context '/path/to/file', got %v", err.Context["file"])
	}
	if err.Context["line"] != 42 {
		t.Errorf("expected line context 42, got %v", err.Context["line"])
	}

	expected := "test error (suggestion: check file path)"
	if err.Error() != expected {
		t.Errorf("expected error string '%s', got '%s'", expected, err.Error())
	}
}

func TestReportErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *SlicerError
		category ErrorCategory
		code     ErrorCode
		key      string
		value    interface{}
	}{
		{"preliminary month", PreliminaryMonthFileError(10), CategoryParse, CodePreliminaryMonthFile, "title_columns", 10},
		{"column count", InvalidColumnCountError("currency summary", 2, 9, "12 or 13"), CategoryParse, CodeInvalidColumnCount, "columns", 9},
		{"no data", NoDataInFileError("sales ledger"), CategoryParse, CodeNoDataInFile, "source", "sales ledger"},
		{"no currency symbol", LineNoCurrencySymbolError(4, "Somewhere"), CategoryParse, CodeLineNoCurrencySymbol, "value", "Somewhere"},
		{"parsing value", FailedParsingValueError("currency summary", 5, "earnings", "x", nil), CategoryParse, CodeFailedParsingValue, "column", "earnings"},
		{"unknown country", UnknownCountryCodeError("ZZ"), CategoryValidation, CodeUnknownCountryCode, "country_code", "ZZ"},
		{"currency missing", CurrencyDataNotFoundError("USD - AP", "MN"), CategoryReconciliation, CodeCurrencyDataNotFound, "currency_key", "USD - AP"},
		{"date mismatch", DateRangeMismatchError(7, "09/01/2014", "09/27/2014"), CategoryInternal, CodeDateRangeMismatch, "start", "09/01/2014"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, tt.err.Category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Context[tt.key] != tt.value {
				t.Errorf("expected context %s=%v, got %v", tt.key, tt.value, tt.err.Context[tt.key])
			}
		})
	}
}

func TestDateRangeStraddlesCutoverError(t *testing.T) {
	start := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC)
	cutover := time.Date(2024, time.October, 26, 0, 0, 0, 0, time.UTC)

	err := DateRangeStraddlesCutoverError(start, end, cutover)

	if err.Code != CodeDateRangeStraddlesCutover {
		t.Errorf("expected straddle code, got %s", err.Code)
	}
	if err.Context["cutover"] != "2024-10-26" {
		t.Errorf("expected cutover context, got %v", err.Context["cutover"])
	}
	if err.Message != "date range 2024-10-01 - 2024-11-02 straddles the entity cutover on 2024-10-26" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestFailedParsingValueErrorWrapsCause(t *testing.T) {
	cause := errors.New("can't convert x to decimal")
	err := FailedParsingValueError("sales ledger", 3, "amount", "x", cause)

	if !errors.Is(err, cause) {
		t.Error("expected parse error to wrap its cause")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("building invoices: %w", UnknownCountryCodeError("ZZ"))

	if !HasCode(err, CodeUnknownCountryCode) {
		t.Error("expected wrapped error to carry unknown country code")
	}
	if HasCode(err, CodeNoDataInFile) {
		t.Error("expected no match for a different code")
	}
	if HasCode(errors.New("plain"), CodeNoDataInFile) {
		t.Error("expected no match for a plain error")
	}
	if HasCode(nil, CodeNoDataInFile) {
		t.Error("expected no match for nil")
	}
}

func TestIsSlicerError(t *testing.T) {
	slicerErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	if !IsSlicerError(slicerErr) {
		t.Error("expected IsSlicerError to return true for SlicerError")
	}
	if IsSlicerError(genericErr) {
		t.Error("expected IsSlicerError to return false for generic error")
	}
	if IsSlicerError(nil) {
		t.Error("expected IsSlicerError to return false for nil")
	}
}

func TestAsSlicerError(t *testing.T) {
	slicerErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	if extracted, ok := AsSlicerError(slicerErr); !ok || extracted != slicerErr {
		t.Error("expected AsSlicerError to extract SlicerError")
	}
	if _, ok := AsSlicerError(genericErr); ok {
		t.Error("expected AsSlicerError to return false for generic error")
	}
	if _, ok := AsSlicerError(nil); ok {
		t.Error("expected AsSlicerError to return false for nil")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	slicerErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	result1 := WrapIfNeeded(slicerErr, CategoryParse, CodeFailedParsingValue, "wrapped")
	if result1 != slicerErr {
		t.Error("expected WrapIfNeeded to return original SlicerError")
	}

	result2 := WrapIfNeeded(genericErr, CategoryParse, CodeFailedParsingValue, "wrapped")
	if result2.Cause != genericErr {
		t.Error("expected WrapIfNeeded to wrap generic error")
	}
	if result2.Category != CategoryParse {
		t.Error("expected wrapped error to have correct category")
	}

	if result3 := WrapIfNeeded(nil, CategoryParse, CodeFailedParsingValue, "wrapped"); result3 != nil {
		t.Error("expected WrapIfNeeded to return nil for nil input")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		category     ErrorCategory
		expectedCode int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryReconciliation, 5},
		{CategoryInternal, 5},
		{"unknown", 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := New(tt.category, "test_code", "test message")
			if err.GetExitCode() != tt.expectedCode {
				t.Errorf("expected exit code %d for category %s, got %d",
					tt.expectedCode, tt.category, err.GetExitCode())
			}
		})
	}
}
