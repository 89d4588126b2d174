package errors

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// PreliminaryMonthFileError reports a currency summary that has not been finalized yet
func PreliminaryMonthFileError(titleColumns int) *SlicerError {
	return New(CategoryParse, CodePreliminaryMonthFile,
		"currency summary is a preliminary month report").
		WithSuggestion("wait until the month is closed and download the final report").
		WithContext("title_columns", titleColumns)
}

// InvalidColumnCountError reports a row whose field count does not match the expected layout
func InvalidColumnCountError(source string, row int, got int, expected string) *SlicerError {
	return New(CategoryParse, CodeInvalidColumnCount,
		fmt.Sprintf("invalid column count in %s at row %d: got %d, expected %s", source, row, got, expected)).
		WithSuggestion("make sure the file is an unmodified export of the storefront report").
		WithContext("source", source).
		WithContext("row", row).
		WithContext("columns", got)
}

// NoDataInFileError reports input that contains no usable rows
func NoDataInFileError(source string) *SlicerError {
	return New(CategoryParse, CodeNoDataInFile,
		fmt.Sprintf("no data found in %s", source)).
		WithSuggestion("check that the right file was selected and that it is not empty").
		WithContext("source", source)
}

// LineNoCurrencySymbolError reports a summary row without a "(XXX)" currency code
func LineNoCurrencySymbolError(row int, label string) *SlicerError {
	return New(CategoryParse, CodeLineNoCurrencySymbol,
		fmt.Sprintf("no currency code found at row %d: '%s'", row, label)).
		WithSuggestion("region labels must end with a three letter currency code in parentheses").
		WithContext("row", row).
		WithContext("value", label)
}

// FailedParsingValueError reports a field that could not be parsed
func FailedParsingValueError(source string, row int, column string, value string, err error) *SlicerError {
	message := fmt.Sprintf("failed parsing %s in %s at row %d: '%s'", column, source, row, value)

	var result *SlicerError
	if err != nil {
		result = Wrap(err, CategoryParse, CodeFailedParsingValue, message)
	} else {
		result = New(CategoryParse, CodeFailedParsingValue, message)
	}

	return result.
		WithContext("source", source).
		WithContext("row", row).
		WithContext("column", column).
		WithContext("value", value)
}

// UnknownCountryCodeError reports a country code that no legal entity claims
func UnknownCountryCodeError(code string) *SlicerError {
	return New(CategoryValidation, CodeUnknownCountryCode,
		fmt.Sprintf("unknown country code: %s", code)).
		WithSuggestion("the entity directory may need an update for a newly added storefront country").
		WithContext("country_code", code)
}

// DateRangeStraddlesCutoverError reports a reporting period that spans the entity restructuring date
func DateRangeStraddlesCutoverError(start, end, cutover time.Time) *SlicerError {
	return New(CategoryValidation, CodeDateRangeStraddlesCutover,
		fmt.Sprintf("date range %s - %s straddles the entity cutover on %s",
			start.Format(dateLayout), end.Format(dateLayout), cutover.Format(dateLayout))).
		WithSuggestion("split the ledger into reports before and after the cutover date").
		WithContext("start", start.Format(dateLayout)).
		WithContext("end", end.Format(dateLayout)).
		WithContext("cutover", cutover.Format(dateLayout))
}

// CurrencyDataNotFoundError reports a currency key with sales but no matching currency record
func CurrencyDataNotFoundError(currencyKey string, countryCode string) *SlicerError {
	return New(CategoryReconciliation, CodeCurrencyDataNotFound,
		fmt.Sprintf("currency %s not found in currency data (country %s)", currencyKey, countryCode)).
		WithSuggestion("make sure the currency summary covers the same month as the sales ledger").
		WithContext("currency_key", currencyKey).
		WithContext("country_code", countryCode)
}

// DateRangeMismatchError reports a ledger row whose period differs from the first data row
func DateRangeMismatchError(row int, start, end string) *SlicerError {
	return New(CategoryInternal, CodeDateRangeMismatch,
		fmt.Sprintf("ledger row %d has period %s - %s which differs from the report period", row, start, end)).
		WithSuggestion("ledgers must cover a single period; the file may be a concatenation of several reports").
		WithContext("row", row).
		WithContext("start", start).
		WithContext("end", end)
}
