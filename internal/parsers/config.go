package parsers

import (
	"fmt"
	"strings"
)

// CurrencyLayout describes the positions of the currency summary's rows and columns.
// Column indices are those of a report without a "Balance" column.
type CurrencyLayout struct {
	Delimiter               rune `json:"delimiter"`
	MinRows                 int  `json:"min_rows"`
	TitleColumns            int  `json:"title_columns"`
	PreliminaryTitleColumns int  `json:"preliminary_title_columns"`
	HeaderRow               int  `json:"header_row"`
	HeaderColumns           int  `json:"header_columns"`
	BalanceHeaderColumns    int  `json:"balance_header_columns"`
	FirstDataRow            int  `json:"first_data_row"`
	PreTaxColumn            int  `json:"pre_tax_column"`
	PostTaxColumn           int  `json:"post_tax_column"`
	ExchangeRateColumn      int  `json:"exchange_rate_column"`
	EarningsColumn          int  `json:"earnings_column"`
	BankCurrencyColumn      int  `json:"bank_currency_column"`
}

// DefaultCurrencyLayout returns the layout of the storefront's "Payments and Financial Reports" summary
func DefaultCurrencyLayout() *CurrencyLayout {
	return &CurrencyLayout{
		Delimiter:               ',',
		MinRows:                 5,
		TitleColumns:            13,
		PreliminaryTitleColumns: 10,
		HeaderRow:               2,
		HeaderColumns:           12,
		BalanceHeaderColumns:    13,
		FirstDataRow:            3,
		PreTaxColumn:            3,
		PostTaxColumn:           7,
		ExchangeRateColumn:      8,
		EarningsColumn:          9,
		BankCurrencyColumn:      10,
	}
}

// Validate checks if the currency layout is consistent
func (cl *CurrencyLayout) Validate() error {
	if cl.HeaderRow < 1 {
		return fmt.Errorf("header row must follow the title row, got %d", cl.HeaderRow)
	}

	if cl.FirstDataRow <= cl.HeaderRow {
		return fmt.Errorf("first data row %d must come after header row %d", cl.FirstDataRow, cl.HeaderRow)
	}

	if cl.MinRows <= cl.FirstDataRow {
		return fmt.Errorf("min rows %d must leave room for data after row %d", cl.MinRows, cl.FirstDataRow)
	}

	if cl.BalanceHeaderColumns != cl.HeaderColumns+1 {
		return fmt.Errorf("balance header must add exactly one column, got %d and %d",
			cl.HeaderColumns, cl.BalanceHeaderColumns)
	}

	for name, index := range map[string]int{
		"pre-tax":       cl.PreTaxColumn,
		"post-tax":      cl.PostTaxColumn,
		"exchange rate": cl.ExchangeRateColumn,
		"earnings":      cl.EarningsColumn,
		"bank currency": cl.BankCurrencyColumn,
	} {
		if index < 1 || index >= cl.HeaderColumns {
			return fmt.Errorf("%s column %d is outside the header (1-%d)", name, index, cl.HeaderColumns-1)
		}
	}

	return nil
}

// columnShift returns the offset of the data columns for a header row of the given width.
// Reports with earnings below the payout threshold carry an extra "Balance" column.
func (cl *CurrencyLayout) columnShift(headerColumns int) int {
	if headerColumns == cl.BalanceHeaderColumns {
		return 1
	}
	return 0
}

// LedgerLayout describes the positions of the fields of interest in a sales ledger row
type LedgerLayout struct {
	Delimiter         rune   `json:"delimiter"`
	DateFormat        string `json:"date_format"`
	StartDateColumn   int    `json:"start_date_column"`
	EndDateColumn     int    `json:"end_date_column"`
	QuantityColumn    int    `json:"quantity_column"`
	AmountColumn      int    `json:"amount_column"`
	CurrencyColumn    int    `json:"currency_column"`
	ProductColumn     int    `json:"product_column"`
	CountryCodeColumn int    `json:"country_code_column"`
}

// DefaultLedgerLayout returns the layout of the storefront's financial report ledger
func DefaultLedgerLayout() *LedgerLayout {
	return &LedgerLayout{
		Delimiter:         '\t',
		DateFormat:        "01/02/2006",
		StartDateColumn:   0,
		EndDateColumn:     1,
		QuantityColumn:    5,
		AmountColumn:      7,
		CurrencyColumn:    8,
		ProductColumn:     12,
		CountryCodeColumn: 17,
	}
}

// Validate checks if the ledger layout is valid
func (ll *LedgerLayout) Validate() error {
	if strings.TrimSpace(ll.DateFormat) == "" {
		return fmt.Errorf("date format cannot be empty")
	}

	columns := map[string]int{
		"start date":   ll.StartDateColumn,
		"end date":     ll.EndDateColumn,
		"quantity":     ll.QuantityColumn,
		"amount":       ll.AmountColumn,
		"currency":     ll.CurrencyColumn,
		"product":      ll.ProductColumn,
		"country code": ll.CountryCodeColumn,
	}
	seen := make(map[int]string, len(columns))
	for name, index := range columns {
		if index < 0 {
			return fmt.Errorf("%s column cannot be negative, got %d", name, index)
		}
		if other, ok := seen[index]; ok {
			return fmt.Errorf("%s and %s share column %d", name, other, index)
		}
		seen[index] = name
	}

	return nil
}
