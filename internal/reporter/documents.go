package reporter

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const summarySheet = "Summary"

// generateMarkdownReport generates a markdown document with one section per invoice
func (rg *ReportGenerator) generateMarkdownReport(view *reportView, writer io.Writer) error {
	_, err := io.WriteString(writer, rg.markdown(view))
	return err
}

func (rg *ReportGenerator) markdown(view *reportView) string {
	var b strings.Builder

	b.WriteString("# Invoice Report")
	if view.Month != "" {
		fmt.Fprintf(&b, " %s", view.Month)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "- Report ID: `%s`\n", view.ReportID)
	fmt.Fprintf(&b, "- Period: %s - %s\n", view.PeriodStart, view.PeriodEnd)
	fmt.Fprintf(&b, "- Local currency: %s\n\n", view.LocalCurrency)

	for _, invoice := range view.Invoices {
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(invoice.Title))
		if invoice.Address != "" {
			// hard line breaks keep the address block together
			lines := strings.Split(invoice.Address, "\n")
			for i, line := range lines {
				b.WriteString(escapeMarkdown(line))
				if i < len(lines)-1 {
					b.WriteString("  ")
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}

		for _, sub := range invoice.SubInvoices {
			fmt.Fprintf(&b, "### %s (%s, %s)\n\n", escapeMarkdown(sub.Country), sub.CountryCode, sub.Currency)
			fmt.Fprintf(&b, "| Qty | Product | Amount | Rate | Amount %s |\n", view.LocalCurrency)
			b.WriteString("|---:|---|---:|---:|---:|\n")
			for _, item := range sub.Items {
				fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
					item.Quantity, escapeMarkdown(item.Product), item.Amount, item.ExchangeRate, item.AmountInLocalCurrency)
			}
			fmt.Fprintf(&b, "| | **Subtotal** | %s | | **%s** |\n\n", sub.Subtotal, sub.SubtotalInLocalCurrency)
		}

		fmt.Fprintf(&b, "**Total: %s %s**\n\n", invoice.Total, view.LocalCurrency)
	}

	if len(view.Currencies) > 0 {
		b.WriteString("## Currency Data\n\n")
		b.WriteString("| Currency | Rate | Tax Factor | Bank Account |\n")
		b.WriteString("|---|---:|---:|---|\n")
		for _, currency := range view.Currencies {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				currency.CurrencyKey, currency.ExchangeRate, currency.TaxFactor, currency.BankAccountCurrency)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Grand total: %s %s**\n", view.Total, view.LocalCurrency)
	return b.String()
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// generateHTMLReport renders the markdown report as a standalone HTML page
func (rg *ReportGenerator) generateHTMLReport(view *reportView, writer io.Writer) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(rg.markdown(view)), &body); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}

	title := "Invoice Report"
	if view.Month != "" {
		title += " " + view.Month
	}

	_, err := fmt.Fprintf(writer, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; }
</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(title), body.String())
	return err
}

// generateXLSXReport writes a workbook with a summary sheet, one sheet per
// invoice and, when enabled, a sheet with the currency records
func (rg *ReportGenerator) generateXLSXReport(view *reportView, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Report ID", view.ReportID},
		{"Month", view.Month},
		{"Period", view.PeriodStart + " - " + view.PeriodEnd},
		{"Local Currency", view.LocalCurrency},
		{},
		{"Entity", "Title", "Countries", "Total " + view.LocalCurrency},
	}
	for _, invoice := range view.Invoices {
		summary = append(summary, []interface{}{
			invoice.Entity, invoice.Title, len(invoice.SubInvoices), invoice.Total.Float(),
		})
	}
	summary = append(summary, []interface{}{"Total", "", "", view.Total.Float()})

	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	for _, invoice := range view.Invoices {
		sheet := invoice.Entity
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		rows := [][]interface{}{
			{invoice.Title},
			{},
			{"Country Code", "Country", "Currency", "Product", "Quantity", "Amount", "Exchange Rate",
				"Amount " + view.LocalCurrency},
		}
		for _, sub := range invoice.SubInvoices {
			for _, item := range sub.Items {
				rows = append(rows, []interface{}{
					sub.CountryCode, sub.Country, sub.Currency, item.Product, item.Quantity,
					item.Amount.Float(), item.ExchangeRate.Float(), item.AmountInLocalCurrency.Float(),
				})
			}
		}
		rows = append(rows, []interface{}{"Total", "", "", "", "", "", "", invoice.Total.Float()})

		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if len(view.Currencies) > 0 {
		const sheet = "Currencies"
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		rows := [][]interface{}{{"Currency", "Exchange Rate", "Tax Factor", "Bank Account Currency"}}
		for _, currency := range view.Currencies {
			rows = append(rows, []interface{}{
				currency.CurrencyKey, currency.ExchangeRate.Float(), currency.TaxFactor.Float(), currency.BankAccountCurrency,
			})
		}
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write XLSX report: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
