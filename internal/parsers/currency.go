package parsers

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"financial-report-slicer/internal/entities"
	"financial-report-slicer/internal/models"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

const currencySource = "currency summary"

var (
	// first balanced parenthesis group, e.g. "(September, 2014)"
	monthPattern = regexp.MustCompile(`\(([^()]+)\)`)
	// three letter code closing the region label, e.g. "Euro-Zone (EUR)"
	currencyCodePattern = regexp.MustCompile(`\((\w{3})\)$`)
)

// CurrencyParser extracts currency records from a monthly currency summary
type CurrencyParser struct {
	layout *CurrencyLayout
	logger logger.Logger
}

// NewCurrencyParser creates a new CurrencyParser; a nil layout means DefaultCurrencyLayout
func NewCurrencyParser(layout *CurrencyLayout) (*CurrencyParser, error) {
	if layout == nil {
		layout = DefaultCurrencyLayout()
	}

	if err := layout.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "currency_layout", layout, err)
	}

	return &CurrencyParser{
		layout: layout,
	}, nil
}

// WithLogger sets the logger used for warnings and debug output
func (cp *CurrencyParser) WithLogger(log logger.Logger) *CurrencyParser {
	cp.logger = log
	return cp
}

// log falls back to the global logger so that SetGlobalLogger applies to the default parser
func (cp *CurrencyParser) log() logger.Logger {
	if cp.logger != nil {
		return cp.logger
	}
	return logger.WithComponent("currency_parser")
}

// ParseMonth returns the report month label from the title cell, e.g. "September, 2014"
func (cp *CurrencyParser) ParseMonth(text string) (string, bool) {
	rows := Tokenize(text, cp.layout.Delimiter)
	if len(rows) == 0 {
		return "", false
	}

	match := monthPattern.FindStringSubmatch(rows[0][0])
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Parse returns one record per currency key in the order of the summary's rows
func (cp *CurrencyParser) Parse(text string) ([]models.CurrencyRecord, error) {
	rows := Tokenize(text, cp.layout.Delimiter)
	if len(rows) < cp.layout.MinRows {
		return nil, errors.NoDataInFileError(currencySource)
	}

	title := rows[0]
	header := rows[cp.layout.HeaderRow]

	if len(title) == cp.layout.PreliminaryTitleColumns {
		return nil, errors.PreliminaryMonthFileError(len(title))
	}
	if len(title) != cp.layout.TitleColumns {
		return nil, errors.InvalidColumnCountError(currencySource, 1, len(title),
			fmt.Sprintf("%d", cp.layout.TitleColumns))
	}
	if len(header) != cp.layout.HeaderColumns && len(header) != cp.layout.BalanceHeaderColumns {
		return nil, errors.InvalidColumnCountError(currencySource, cp.layout.HeaderRow+1, len(header),
			fmt.Sprintf("%d or %d", cp.layout.HeaderColumns, cp.layout.BalanceHeaderColumns))
	}

	shift := cp.layout.columnShift(len(header))
	cp.log().WithFields(logger.Fields{
		"rows":         len(rows),
		"column_shift": shift,
	}).Debug("Parsing currency summary")

	var records []models.CurrencyRecord
	seen := make(map[string]bool)

	for i := cp.layout.FirstDataRow; i < len(rows); i++ {
		row := rows[i]
		// data ends at the first blank line; rows below hold totals and
		// earnings that haven't reached the payout threshold
		if row[0] == "" {
			break
		}

		record, ok, err := cp.parseRow(row, i+1, shift)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if seen[record.CurrencyKey] {
			cp.log().WithFields(logger.Fields{
				"currency_key": record.CurrencyKey,
				"row":          i + 1,
			}).Warn("Duplicate currency key in summary, keeping the first row")
			continue
		}
		seen[record.CurrencyKey] = true
		records = append(records, record)
	}

	return records, nil
}

// parseRow converts one data row; ok is false for rows that are skipped with a warning
func (cp *CurrencyParser) parseRow(row Row, line int, shift int) (models.CurrencyRecord, bool, error) {
	label := row[0]

	match := currencyCodePattern.FindStringSubmatch(label)
	if match == nil {
		return models.CurrencyRecord{}, false, errors.LineNoCurrencySymbolError(line, label)
	}
	currencyKey := match[1]

	// USD is listed once per region and the region names are localized
	if currencyKey == entities.USD {
		if region, ok := entities.MatchRegionLabel(label); ok {
			currencyKey = region.CurrencyKey(entities.USD)
		}
	}

	preTax, err := cp.number(row, cp.layout.PreTaxColumn+shift, line, "pre-tax subtotal")
	if err != nil {
		return models.CurrencyRecord{}, false, err
	}
	postTax, err := cp.number(row, cp.layout.PostTaxColumn+shift, line, "total owed")
	if err != nil {
		return models.CurrencyRecord{}, false, err
	}
	earnings, err := cp.number(row, cp.layout.EarningsColumn+shift, line, "proceeds")
	if err != nil {
		return models.CurrencyRecord{}, false, err
	}

	bankCurrency, ok := row.Field(cp.layout.BankCurrencyColumn + shift)
	if !ok {
		return models.CurrencyRecord{}, false, errors.FailedParsingValueError(
			currencySource, line, "bank account currency", "", nil)
	}

	// tax withheld without product sales in the same period can't be attributed to a product
	if preTax == 0 && postTax != 0 {
		cp.log().WithFields(logger.Fields{
			"region":       label,
			"currency_key": currencyKey,
			"total_owed":   postTax,
			"proceeds":     earnings,
		}).Warnf("Taxes without associated product sales were withheld for %s; deduct %s %.2f (%.2f) manually",
			label, currencyKey, postTax, earnings)
		return models.CurrencyRecord{}, false, nil
	}

	// the report's own rate column is rounded to 6 decimals, so derive the rate when possible
	var exchangeRate float64
	if postTax != 0 {
		exchangeRate = earnings / postTax
	} else {
		exchangeRate, err = cp.number(row, cp.layout.ExchangeRateColumn+shift, line, "exchange rate")
		if err != nil {
			return models.CurrencyRecord{}, false, err
		}
	}

	taxFactor := 1.0
	if preTax != 0 {
		taxFactor = 1 - math.Abs((preTax-postTax)/preTax)
	}

	return models.CurrencyRecord{
		CurrencyKey:         currencyKey,
		ExchangeRate:        exchangeRate,
		TaxFactor:           taxFactor,
		BankAccountCurrency: strings.TrimSpace(bankCurrency),
	}, true, nil
}

func (cp *CurrencyParser) number(row Row, index int, line int, column string) (float64, error) {
	value, ok := row.Field(index)
	if !ok {
		return 0, errors.FailedParsingValueError(currencySource, line, column, "", nil)
	}

	amount, err := parseAmount(value, true)
	if err != nil {
		return 0, errors.FailedParsingValueError(currencySource, line, column, value, err)
	}
	return amount, nil
}

var defaultCurrencyParser = mustParser(NewCurrencyParser(nil))

func mustParser[T any](parser T, err error) T {
	if err != nil {
		panic(err)
	}
	return parser
}

// ParseCurrencyMonth extracts the report month label with the default layout
func ParseCurrencyMonth(text string) (string, bool) {
	return defaultCurrencyParser.ParseMonth(text)
}

// ParseCurrencyData extracts currency records with the default layout
func ParseCurrencyData(text string) ([]models.CurrencyRecord, error) {
	return defaultCurrencyParser.Parse(text)
}
