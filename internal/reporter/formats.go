package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// generateConsoleReport generates a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(view *reportView, writer io.Writer) error {
	fmt.Fprintf(writer, "INVOICE REPORT\n")
	fmt.Fprintf(writer, "Report ID: %s\n", view.ReportID)
	if view.Month != "" {
		fmt.Fprintf(writer, "Month: %s\n", view.Month)
	}
	fmt.Fprintf(writer, "Period: %s - %s\n", view.PeriodStart, view.PeriodEnd)
	fmt.Fprintf(writer, "Local Currency: %s\n", view.LocalCurrency)
	fmt.Fprintf(writer, "Generated: %s\n\n", view.GeneratedAt.Format(time.RFC3339))

	if len(view.Invoices) == 0 {
		fmt.Fprintf(writer, "No invoices for the selected entities.\n")
	}

	for _, invoice := range view.Invoices {
		fmt.Fprintf(writer, "=== %s ===\n", strings.ToUpper(invoice.Entity))
		if invoice.Address != "" {
			fmt.Fprintf(writer, "%s\n\n", invoice.Address)
		} else {
			fmt.Fprintf(writer, "%s\n\n", invoice.Title)
		}

		for _, sub := range invoice.SubInvoices {
			fmt.Fprintf(writer, "%s (%s, %s)\n", sub.Country, sub.CountryCode, sub.Currency)
			fmt.Fprintf(writer, "  %6s  %-30s %14s %16s %14s\n",
				"Qty", "Product", "Amount", "Rate", "Amount "+view.LocalCurrency)
			for _, item := range sub.Items {
				fmt.Fprintf(writer, "  %6d  %-30s %14s %16s %14s\n",
					item.Quantity, truncate(item.Product, 30), item.Amount, item.ExchangeRate, item.AmountInLocalCurrency)
			}
			fmt.Fprintf(writer, "  Subtotal: %s %s = %s %s\n\n",
				sub.Subtotal, sub.Currency, sub.SubtotalInLocalCurrency, view.LocalCurrency)
		}

		fmt.Fprintf(writer, "Total %s: %s %s\n\n", invoice.Title, invoice.Total, view.LocalCurrency)
	}

	if len(view.Currencies) > 0 {
		fmt.Fprintf(writer, "=== CURRENCY DATA ===\n")
		fmt.Fprintf(writer, "  %-14s %16s %16s %6s\n", "Currency", "Rate", "Tax Factor", "Bank")
		for _, currency := range view.Currencies {
			fmt.Fprintf(writer, "  %-14s %16s %16s %6s\n",
				currency.CurrencyKey, currency.ExchangeRate, currency.TaxFactor, currency.BankAccountCurrency)
		}
		fmt.Fprintf(writer, "\n")
	}

	fmt.Fprintf(writer, "=== TOTAL ===\n")
	fmt.Fprintf(writer, "Invoices: %d\n", len(view.Invoices))
	fmt.Fprintf(writer, "Items:    %d\n", view.itemCount())
	fmt.Fprintf(writer, "Total:    %s %s\n", view.Total, view.LocalCurrency)

	return nil
}

// generateJSONReport generates a structured JSON report
func (rg *ReportGenerator) generateJSONReport(view *reportView, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(view)
}

// generateYAMLReport generates a structured YAML report
func (rg *ReportGenerator) generateYAMLReport(view *reportView, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(view); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return encoder.Close()
}

// generateCSVReport generates a CSV report with one row per invoice item
func (rg *ReportGenerator) generateCSVReport(view *reportView, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter

	if rg.config.CSVHeaders {
		headers := []string{
			"Entity",
			"Country_Code",
			"Country",
			"Currency",
			"Product",
			"Quantity",
			"Amount",
			"Exchange_Rate",
			"Amount_In_Local_Currency",
			"Local_Currency",
			"Period_Start",
			"Period_End",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, invoice := range view.Invoices {
		for _, sub := range invoice.SubInvoices {
			for _, item := range sub.Items {
				record := []string{
					invoice.Entity,
					sub.CountryCode,
					sub.Country,
					sub.Currency,
					item.Product,
					strconv.Itoa(item.Quantity),
					item.Amount.String(),
					item.ExchangeRate.String(),
					item.AmountInLocalCurrency.String(),
					view.LocalCurrency,
					view.PeriodStart,
					view.PeriodEnd,
				}
				if err := csvWriter.Write(record); err != nil {
					return fmt.Errorf("failed to write invoice item record: %w", err)
				}
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
