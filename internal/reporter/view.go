package reporter

import (
	"time"

	"financial-report-slicer/internal/models"
	"financial-report-slicer/internal/reconciler"

	"github.com/shopspring/decimal"
)

// ratePrecision keeps exchange rates of weak currencies such as JPY readable
const ratePrecision = 10

// reportView is the rounded, presentation-ready form of a reconciler.Result
// shared by every output format
type reportView struct {
	ReportID      string         `json:"report_id" yaml:"report_id"`
	Month         string         `json:"month,omitempty" yaml:"month,omitempty"`
	PeriodStart   string         `json:"period_start" yaml:"period_start"`
	PeriodEnd     string         `json:"period_end" yaml:"period_end"`
	LocalCurrency string         `json:"local_currency" yaml:"local_currency"`
	GeneratedAt   time.Time      `json:"generated_at" yaml:"generated_at"`
	Invoices      []invoiceView  `json:"invoices" yaml:"invoices"`
	Currencies    []currencyView `json:"currency_records,omitempty" yaml:"currency_records,omitempty"`
	Total         amount         `json:"total" yaml:"total"`
}

type invoiceView struct {
	Entity      string           `json:"entity" yaml:"entity"`
	Title       string           `json:"title" yaml:"title"`
	Address     string           `json:"address,omitempty" yaml:"address,omitempty"`
	SubInvoices []subInvoiceView `json:"sub_invoices" yaml:"sub_invoices"`
	Total       amount           `json:"total" yaml:"total"`
}

type subInvoiceView struct {
	Country                 string     `json:"country" yaml:"country"`
	CountryCode             string     `json:"country_code" yaml:"country_code"`
	Currency                string     `json:"currency" yaml:"currency"`
	Items                   []itemView `json:"items" yaml:"items"`
	Subtotal                amount     `json:"subtotal" yaml:"subtotal"`
	SubtotalInLocalCurrency amount     `json:"subtotal_in_local_currency" yaml:"subtotal_in_local_currency"`
}

type itemView struct {
	Product               string `json:"product" yaml:"product"`
	Quantity              int    `json:"quantity" yaml:"quantity"`
	Amount                amount `json:"amount" yaml:"amount"`
	ExchangeRate          amount `json:"exchange_rate" yaml:"exchange_rate"`
	AmountInLocalCurrency amount `json:"amount_in_local_currency" yaml:"amount_in_local_currency"`
}

type currencyView struct {
	CurrencyKey         string `json:"currency_key" yaml:"currency_key"`
	ExchangeRate        amount `json:"exchange_rate" yaml:"exchange_rate"`
	TaxFactor           amount `json:"tax_factor" yaml:"tax_factor"`
	BankAccountCurrency string `json:"bank_account_currency" yaml:"bank_account_currency"`
}

// amount is a rounded decimal that serializes as a plain number
type amount struct {
	value     decimal.Decimal
	precision int32
}

func newAmount(value float64, precision int32) amount {
	return amount{value: decimal.NewFromFloat(value).Round(precision), precision: precision}
}

// String formats the amount with exactly its precision in fractional digits
func (a amount) String() string {
	return a.value.StringFixed(a.precision)
}

// Float returns the rounded value
func (a amount) Float() float64 {
	return a.value.InexactFloat64()
}

// MarshalJSON writes the amount as a JSON number
func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

// MarshalYAML writes the amount as a YAML float
func (a amount) MarshalYAML() (interface{}, error) {
	return a.Float(), nil
}

func newReportView(result *reconciler.Result, config *ReportConfig) *reportView {
	view := &reportView{
		ReportID:      result.ReportID,
		Month:         result.Month,
		PeriodStart:   result.DateRange.Start.Format(models.DateLayout),
		PeriodEnd:     result.DateRange.End.Format(models.DateLayout),
		LocalCurrency: result.LocalCurrency,
		GeneratedAt:   result.ProcessedAt,
		Invoices:      make([]invoiceView, 0, len(result.Invoices)),
		Total:         newAmount(result.TotalInLocalCurrency(), config.TotalPrecision),
	}

	for _, invoice := range result.Invoices {
		iv := invoiceView{
			Entity: invoice.Recipient.String(),
			Title:  invoice.Recipient.Title(),
			Total:  newAmount(invoice.TotalInLocalCurrency(), config.TotalPrecision),
		}
		if config.IncludeAddresses {
			iv.Address = invoice.Recipient.Address()
		}

		for _, sub := range invoice.SubInvoices {
			sv := subInvoiceView{
				Country:                 sub.Country,
				CountryCode:             sub.CountryCode,
				Currency:                sub.CountryCurrency,
				Items:                   make([]itemView, 0, len(sub.InvoiceItems)),
				Subtotal:                newAmount(sub.Subtotal(), config.TotalPrecision),
				SubtotalInLocalCurrency: newAmount(sub.SubtotalInLocalCurrency(), config.TotalPrecision),
			}
			for _, item := range sub.InvoiceItems {
				sv.Items = append(sv.Items, itemView{
					Product:               item.Product,
					Quantity:              item.Quantity,
					Amount:                newAmount(item.Amount, config.ItemPrecision),
					ExchangeRate:          newAmount(item.ExchangeRate, ratePrecision),
					AmountInLocalCurrency: newAmount(item.AmountInLocalCurrency, config.ItemPrecision),
				})
			}
			iv.SubInvoices = append(iv.SubInvoices, sv)
		}

		view.Invoices = append(view.Invoices, iv)
	}

	if config.IncludeCurrencyRecords {
		for _, record := range result.CurrencyRecords {
			view.Currencies = append(view.Currencies, currencyView{
				CurrencyKey:         record.CurrencyKey,
				ExchangeRate:        newAmount(record.ExchangeRate, ratePrecision),
				TaxFactor:           newAmount(record.TaxFactor, ratePrecision),
				BankAccountCurrency: record.BankAccountCurrency,
			})
		}
	}

	return view
}

// itemCount returns the number of items across all invoices
func (v *reportView) itemCount() int {
	count := 0
	for _, invoice := range v.Invoices {
		for _, sub := range invoice.SubInvoices {
			count += len(sub.Items)
		}
	}
	return count
}
