// Package parsers turns the storefront's financial report exports into
// structured records.
//
// Two report types are handled:
//   - the monthly currency summary (comma-delimited), which yields one
//     CurrencyRecord per currency key with exchange rate and tax factor
//   - the sales ledger (tab-delimited), which yields per-country product
//     sales and the reporting period
//
// Both are tokenized with Tokenize, a deliberately small splitter that
// understands simple double-quoted fields and nothing else. Report exports
// have variable column counts per row, and rows such as titles and footers are
// interleaved with data, so parsers address fields by position.
//
// Example usage:
//
//	records, err := parsers.ParseCurrencyData(summaryText)
//	sales, period, err := parsers.ParseLedger(ledgerText)
package parsers

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one tokenized line; it always holds at least one field
type Row []string

// Field returns the field at index and whether it exists
func (r Row) Field(index int) (string, bool) {
	if index < 0 || index >= len(r) {
		return "", false
	}
	return r[index], true
}

// Tokenize splits text into rows of fields. The input is trimmed, split into
// lines, and each line is split on delimiter outside of quotes. A double quote
// toggles quoting and is dropped; an unterminated quote runs to the end of the
// line. Tokenize never fails.
func Tokenize(text string, delimiter rune) []Row {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitRow(line, delimiter))
	}
	return rows
}

func splitRow(line string, delimiter rune) Row {
	var fields Row
	var current strings.Builder
	inQuote := false

	for _, char := range line {
		switch {
		case char == '"':
			inQuote = !inQuote
			continue
		case char == delimiter && !inQuote:
			fields = append(fields, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(char)
	}

	return append(fields, current.String())
}

// parseAmount parses a report number, dropping thousands separators when
// stripSeparators is set
func parseAmount(value string, stripSeparators bool) (float64, error) {
	if stripSeparators {
		value = strings.ReplaceAll(value, ",", "")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return amount.InexactFloat64(), nil
}
