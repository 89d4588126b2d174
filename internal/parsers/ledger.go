package parsers

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"financial-report-slicer/internal/entities"
	"financial-report-slicer/internal/models"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

const ledgerSource = "sales ledger"

// LedgerParser aggregates per-country product sales from a sales ledger
type LedgerParser struct {
	layout *LedgerLayout
	logger logger.Logger
}

// NewLedgerParser creates a new LedgerParser; a nil layout means DefaultLedgerLayout
func NewLedgerParser(layout *LedgerLayout) (*LedgerParser, error) {
	if layout == nil {
		layout = DefaultLedgerLayout()
	}

	if err := layout.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "ledger_layout", layout, err)
	}

	return &LedgerParser{
		layout: layout,
	}, nil
}

// WithLogger sets the logger used for warnings and debug output
func (lp *LedgerParser) WithLogger(log logger.Logger) *LedgerParser {
	lp.logger = log
	return lp
}

// log falls back to the global logger so that SetGlobalLogger applies to the default parser
func (lp *LedgerParser) log() logger.Logger {
	if lp.logger != nil {
		return lp.logger
	}
	return logger.WithComponent("ledger_parser")
}

// countryAccumulator collects the sales of one country while the ledger is read
type countryAccumulator struct {
	currencyKey string
	sales       []models.ProductSale
	index       map[string]int
}

func (c *countryAccumulator) add(product string, quantity int, amount float64) {
	if i, ok := c.index[product]; ok {
		c.sales[i].Quantity += quantity
		c.sales[i].Amount += amount
		return
	}
	c.index[product] = len(c.sales)
	c.sales = append(c.sales, models.ProductSale{Product: product, Quantity: quantity, Amount: amount})
}

// Parse returns the sales per country, sorted by country code, and the reporting period.
// Products keep the order in which they first appear for their country.
func (lp *LedgerParser) Parse(text string) ([]models.CountrySales, models.DateRange, error) {
	rows := Tokenize(text, lp.layout.Delimiter)
	if len(rows) == 0 {
		return nil, models.DateRange{}, errors.NoDataInFileError(ledgerSource)
	}

	var dateRange models.DateRange
	haveRange := false
	countries := make(map[string]*countryAccumulator)
	dataRows := 0

	for i, row := range rows {
		line := i + 1

		startField, okStart := row.Field(lp.layout.StartDateColumn)
		endField, okEnd := row.Field(lp.layout.EndDateColumn)
		// headers and footers don't start with a date
		if !okStart || !okEnd || !strings.Contains(startField, "/") {
			continue
		}

		rowRange, dateErr := lp.parseDates(startField, endField, line)
		if !haveRange {
			if dateErr != nil {
				return nil, models.DateRange{}, dateErr
			}
			dateRange = rowRange
			haveRange = true
		} else if dateErr != nil || !rowRange.Equal(dateRange) {
			return nil, models.DateRange{}, errors.DateRangeMismatchError(line, startField, endField)
		}

		quantity, amount, err := lp.parseFigures(row, line)
		if err != nil {
			return nil, models.DateRange{}, err
		}

		currency, okCurrency := row.Field(lp.layout.CurrencyColumn)
		product, okProduct := row.Field(lp.layout.ProductColumn)
		countryCode, okCountry := row.Field(lp.layout.CountryCodeColumn)
		if !okCurrency || !okProduct || !okCountry {
			return nil, models.DateRange{}, errors.InvalidColumnCountError(ledgerSource, line, len(row),
				strconv.Itoa(lp.layout.CountryCodeColumn+1)+" or more")
		}

		country, ok := countries[countryCode]
		if !ok {
			country = &countryAccumulator{index: make(map[string]int)}
			countries[countryCode] = country
		}
		country.add(product, quantity, amount)
		// the latest row decides the country's currency
		country.currencyKey = entities.RegionalCurrencyKey(countryCode, currency, rowRange.Start)
		dataRows++
	}

	if len(countries) == 0 {
		return nil, models.DateRange{}, errors.NoDataInFileError(ledgerSource)
	}

	codes := make([]string, 0, len(countries))
	for code := range countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	result := make([]models.CountrySales, 0, len(codes))
	for _, code := range codes {
		country := countries[code]
		result = append(result, models.CountrySales{
			CountryCode: code,
			CurrencyKey: country.currencyKey,
			Sales:       country.sales,
		})
	}

	lp.log().WithFields(logger.Fields{
		"data_rows":  dataRows,
		"countries":  len(result),
		"date_range": dateRange.String(),
	}).Debug("Parsed sales ledger")

	return result, dateRange, nil
}

func (lp *LedgerParser) parseDates(start, end string, line int) (models.DateRange, error) {
	startDate, err := time.ParseInLocation(lp.layout.DateFormat, strings.TrimSpace(start), time.UTC)
	if err != nil {
		return models.DateRange{}, errors.FailedParsingValueError(ledgerSource, line, "start date", start, err)
	}
	endDate, err := time.ParseInLocation(lp.layout.DateFormat, strings.TrimSpace(end), time.UTC)
	if err != nil {
		return models.DateRange{}, errors.FailedParsingValueError(ledgerSource, line, "end date", end, err)
	}
	return models.DateRange{Start: startDate, End: endDate}, nil
}

// parseFigures reads quantity and amount; a missing or non-numeric field means
// the row doesn't have the expected layout
func (lp *LedgerParser) parseFigures(row Row, line int) (int, float64, error) {
	expected := strconv.Itoa(lp.layout.CountryCodeColumn+1) + " or more"

	quantityField, ok := row.Field(lp.layout.QuantityColumn)
	if !ok {
		return 0, 0, errors.InvalidColumnCountError(ledgerSource, line, len(row), expected)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(quantityField))
	if err != nil {
		return 0, 0, errors.InvalidColumnCountError(ledgerSource, line, len(row), expected).
			WithContext("quantity", quantityField)
	}

	amountField, ok := row.Field(lp.layout.AmountColumn)
	if !ok {
		return 0, 0, errors.InvalidColumnCountError(ledgerSource, line, len(row), expected)
	}
	amount, err := parseAmount(amountField, false)
	if err != nil {
		return 0, 0, errors.InvalidColumnCountError(ledgerSource, line, len(row), expected).
			WithContext("amount", amountField)
	}

	return quantity, amount, nil
}

var defaultLedgerParser = mustParser(NewLedgerParser(nil))

// ParseLedger aggregates a sales ledger with the default layout
func ParseLedger(text string) ([]models.CountrySales, models.DateRange, error) {
	return defaultLedgerParser.Parse(text)
}
