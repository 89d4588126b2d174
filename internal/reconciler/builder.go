package reconciler

import (
	"sort"

	"financial-report-slicer/internal/entities"
	"financial-report-slicer/internal/models"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

// DefaultLocalCurrency is used when the local currency can't be inferred from currency data
const DefaultLocalCurrency = "EUR"

// Options control how invoices are built
type Options struct {
	// SelectedEntities limits the output to these entities; empty means all
	SelectedEntities []entities.LegalEntity
	// LocalCurrency overrides the currency inferred from the bank account currencies
	LocalCurrency string
	// Directory resolves country display names; nil means the default directory
	Directory *entities.Directory
	Logger    logger.Logger
}

// InferLocalCurrency returns the most frequent bank account currency. Ties go to
// the currency seen first; without records the result is DefaultLocalCurrency.
func InferLocalCurrency(currencyData []models.CurrencyRecord) string {
	counts := make(map[string]int)
	var order []string

	for _, record := range currencyData {
		if record.BankAccountCurrency == "" {
			continue
		}
		if counts[record.BankAccountCurrency] == 0 {
			order = append(order, record.BankAccountCurrency)
		}
		counts[record.BankAccountCurrency]++
	}

	best, bestCount := DefaultLocalCurrency, 0
	for _, currency := range order {
		if counts[currency] > bestCount {
			best, bestCount = currency, counts[currency]
		}
	}
	return best
}

// BuildInvoices joins the sales of a ledger with the currency records of the same
// month and returns one invoice per legal entity with sales. Invoices follow the
// order of entities.All, sub-invoices are sorted by country code and items by product.
func BuildInvoices(
	sales []models.CountrySales,
	dateRange models.DateRange,
	currencyData []models.CurrencyRecord,
	opts *Options,
) ([]models.Invoice, error) {
	if opts == nil {
		opts = &Options{}
	}

	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("invoice_builder")
	}

	directory := opts.Directory
	if directory == nil {
		directory = entities.NewDirectory(nil).WithLogger(log)
	}

	localCurrency := opts.LocalCurrency
	if localCurrency == "" {
		localCurrency = InferLocalCurrency(currencyData)
	}

	if dateRange.Straddles(entities.Cutover) {
		return nil, errors.DateRangeStraddlesCutoverError(dateRange.Start, dateRange.End, entities.Cutover)
	}

	// the first record of a key wins, matching the parser's duplicate handling
	records := make(map[string]models.CurrencyRecord, len(currencyData))
	for _, record := range currencyData {
		if _, exists := records[record.CurrencyKey]; !exists {
			records[record.CurrencyKey] = record
		}
	}

	grouped := make(map[entities.LegalEntity][]models.CountrySales)
	for _, country := range sales {
		entity, ok := directory.EntityFor(country.CountryCode, dateRange.Start)
		if !ok {
			continue
		}
		grouped[entity] = append(grouped[entity], country)
	}

	selected := opts.SelectedEntities
	if len(selected) == 0 {
		selected = entities.All
	}
	wanted := make(map[entities.LegalEntity]bool, len(selected))
	for _, entity := range selected {
		wanted[entity] = true
	}

	log.WithFields(logger.Fields{
		"countries":      len(sales),
		"local_currency": localCurrency,
		"date_range":     dateRange.String(),
	}).Debug("Building invoices")

	var invoices []models.Invoice
	for _, entity := range entities.All {
		countries := grouped[entity]
		if !wanted[entity] || len(countries) == 0 {
			continue
		}

		sort.SliceStable(countries, func(i, j int) bool {
			return countries[i].CountryCode < countries[j].CountryCode
		})

		invoice := models.Invoice{Recipient: entity}
		for _, country := range countries {
			sub, err := buildSubInvoice(country, dateRange, records, localCurrency, directory)
			if err != nil {
				return nil, err
			}
			invoice.SubInvoices = append(invoice.SubInvoices, sub)
		}

		log.WithFields(logger.Fields{
			"entity":    entity.String(),
			"countries": len(invoice.SubInvoices),
			"items":     invoice.ItemCount(),
			"total":     invoice.TotalInLocalCurrency(),
		}).Debug("Built invoice")

		invoices = append(invoices, invoice)
	}

	return invoices, nil
}

func buildSubInvoice(
	country models.CountrySales,
	dateRange models.DateRange,
	records map[string]models.CurrencyRecord,
	localCurrency string,
	directory *entities.Directory,
) (models.SubInvoice, error) {
	name, err := directory.CountryDisplayName(country.CountryCode)
	if err != nil {
		return models.SubInvoice{}, err
	}

	exchangeRate, taxFactor := 1.0, 1.0
	if country.CurrencyKey != localCurrency {
		record, ok := records[country.CurrencyKey]
		switch {
		case ok:
			exchangeRate, taxFactor = record.ExchangeRate, record.TaxFactor
		case country.HasQuantity():
			return models.SubInvoice{}, errors.CurrencyDataNotFoundError(country.CurrencyKey, country.CountryCode)
		default:
			// zero quantities without a record keep the identity rate
		}
	}

	products := make([]models.ProductSale, len(country.Sales))
	copy(products, country.Sales)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Product < products[j].Product
	})

	sub := models.SubInvoice{
		Country:         name,
		CountryCode:     country.CountryCode,
		CountryCurrency: country.CurrencyKey,
		InvoiceItems:    make([]models.InvoiceItem, 0, len(products)),
	}
	for _, sale := range products {
		amount := sale.Amount * taxFactor
		sub.InvoiceItems = append(sub.InvoiceItems, models.InvoiceItem{
			Quantity:              sale.Quantity,
			Product:               sale.Product,
			Amount:                amount,
			ExchangeRate:          exchangeRate,
			AmountInLocalCurrency: amount * exchangeRate,
			DateRange:             dateRange,
		})
	}

	return sub, nil
}
