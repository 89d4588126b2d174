package models

import (
	"encoding/json"
	"fmt"
	"time"

	"financial-report-slicer/internal/entities"
)

// DateLayout is the layout of dates in JSON output
const DateLayout = "2006-01-02"

// CurrencyRecord holds the exchange rate and tax factor derived for one currency key
// of the monthly currency summary.
type CurrencyRecord struct {
	// CurrencyKey is an ISO code, optionally with a region suffix such as "USD - RoW"
	CurrencyKey         string  `json:"currency_key" yaml:"currency_key"`
	ExchangeRate        float64 `json:"exchange_rate" yaml:"exchange_rate"`
	TaxFactor           float64 `json:"tax_factor" yaml:"tax_factor"`
	BankAccountCurrency string  `json:"bank_account_currency" yaml:"bank_account_currency"`
}

// String returns a string representation of the CurrencyRecord
func (c CurrencyRecord) String() string {
	return fmt.Sprintf("CurrencyRecord{Key: %s, Rate: %g, TaxFactor: %g, Bank: %s}",
		c.CurrencyKey, c.ExchangeRate, c.TaxFactor, c.BankAccountCurrency)
}

// ProductSale is the accumulated quantity and amount of one product within one country
type ProductSale struct {
	Product  string  `json:"product" yaml:"product"`
	Quantity int     `json:"quantity" yaml:"quantity"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// CountrySales groups the product sales of one country together with its currency key
type CountrySales struct {
	CountryCode string        `json:"country_code" yaml:"country_code"`
	CurrencyKey string        `json:"currency_key" yaml:"currency_key"`
	Sales       []ProductSale `json:"sales" yaml:"sales"`
}

// HasQuantity reports whether at least one product was sold with a positive quantity
func (c CountrySales) HasQuantity() bool {
	for _, sale := range c.Sales {
		if sale.Quantity > 0 {
			return true
		}
	}
	return false
}

// DateRange is the reporting period of a sales ledger
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Equal compares two ranges
func (d DateRange) Equal(other DateRange) bool {
	return d.Start.Equal(other.Start) && d.End.Equal(other.End)
}

// Straddles reports whether t lies strictly inside the range
func (d DateRange) Straddles(t time.Time) bool {
	return d.Start.Before(t) && t.Before(d.End)
}

// String returns the range as "start - end"
func (d DateRange) String() string {
	return fmt.Sprintf("%s - %s", d.Start.Format(DateLayout), d.End.Format(DateLayout))
}

// MarshalJSON writes both bounds as plain dates
func (d DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: d.Start.Format(DateLayout),
		End:   d.End.Format(DateLayout),
	})
}

// UnmarshalJSON reads the format written by MarshalJSON
func (d *DateRange) UnmarshalJSON(data []byte) error {
	var aux struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if d.Start, err = time.Parse(DateLayout, aux.Start); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if d.End, err = time.Parse(DateLayout, aux.End); err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	return nil
}

// InvoiceItem is one product line of a sub-invoice
type InvoiceItem struct {
	Quantity int    `json:"quantity" yaml:"quantity"`
	Product  string `json:"product" yaml:"product"`
	// Amount is after tax and before currency conversion
	Amount                float64   `json:"amount" yaml:"amount"`
	ExchangeRate          float64   `json:"exchange_rate" yaml:"exchange_rate"`
	AmountInLocalCurrency float64   `json:"amount_in_local_currency" yaml:"amount_in_local_currency"`
	DateRange             DateRange `json:"date_range" yaml:"date_range"`
}

// SubInvoice holds the items sold in one country
type SubInvoice struct {
	Country         string        `json:"country" yaml:"country"`
	CountryCode     string        `json:"country_code" yaml:"country_code"`
	CountryCurrency string        `json:"country_currency" yaml:"country_currency"`
	InvoiceItems    []InvoiceItem `json:"invoice_items" yaml:"invoice_items"`
}

// Subtotal sums item amounts in the country currency
func (s SubInvoice) Subtotal() float64 {
	var total float64
	for _, item := range s.InvoiceItems {
		total += item.Amount
	}
	return total
}

// SubtotalInLocalCurrency sums item amounts after currency conversion
func (s SubInvoice) SubtotalInLocalCurrency() float64 {
	var total float64
	for _, item := range s.InvoiceItems {
		total += item.AmountInLocalCurrency
	}
	return total
}

// Invoice is addressed to one legal entity and split by country
type Invoice struct {
	Recipient   entities.LegalEntity `json:"recipient" yaml:"recipient"`
	SubInvoices []SubInvoice         `json:"sub_invoices" yaml:"sub_invoices"`
}

// TotalInLocalCurrency sums all sub-invoice subtotals in local currency
func (i Invoice) TotalInLocalCurrency() float64 {
	var total float64
	for _, sub := range i.SubInvoices {
		total += sub.SubtotalInLocalCurrency()
	}
	return total
}

// ItemCount returns the number of product lines across all countries
func (i Invoice) ItemCount() int {
	count := 0
	for _, sub := range i.SubInvoices {
		count += len(sub.InvoiceItems)
	}
	return count
}
