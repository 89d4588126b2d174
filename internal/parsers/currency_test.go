package parsers

import (
	"math"
	"strings"
	"testing"

	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

const summaryHeader = "Region (Currency),Units Sold,Earned,Pre-Tax Subtotal,Input Tax,Adjustments," +
	"Withholding Tax,Total Owed,Exchange Rate,Proceeds,Bank Account Currency,"

// buildSummary assembles a currency summary around the given data rows
func buildSummary(header string, dataRows ...string) string {
	lines := []string{
		`"Payments and Financial Reports (October, 2024)"` + strings.Repeat(",", 12),
		strings.Repeat(",", 12),
		header,
	}
	lines = append(lines, dataRows...)
	lines = append(lines, strings.Repeat(",", 12), `,,,,,,,,,,,"100.00 EUR",`)
	return strings.Join(lines, "\n")
}

func quietCurrencyParser(t *testing.T) *CurrencyParser {
	t.Helper()

	parser, err := NewCurrencyParser(nil)
	if err != nil {
		t.Fatalf("Failed to create currency parser: %v", err)
	}
	return parser.WithLogger(logger.Discard())
}

func TestParseCurrencyMonth(t *testing.T) {
	month, ok := ParseCurrencyMonth(readTestData(t, "financial_report.csv"))
	if !ok {
		t.Fatal("Expected month to be found")
	}
	if month != "September, 2014" {
		t.Errorf("Expected 'September, 2014', got %q", month)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no parentheses", "Payments and Financial Reports,,,"},
		{"parentheses on a later row", "Payments\n(September, 2014)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if month, ok := ParseCurrencyMonth(tt.input); ok {
				t.Errorf("Expected no month, got %q", month)
			}
		})
	}
}

func TestParseCurrencyData_Fixture(t *testing.T) {
	records, err := quietCurrencyParser(t).Parse(readTestData(t, "financial_report.csv"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d: %v", len(records), records)
	}

	expected := []struct {
		key       string
		rate      float64
		taxFactor float64
	}{
		{"CHF", 26.53 / 33.15, 1},
		{"EUR", 1, 1},
		{"JPY", 1.16 / 142, 142.0 / 179},
	}

	for i, want := range expected {
		got := records[i]
		if got.CurrencyKey != want.key {
			t.Errorf("Record %d: expected key %s, got %s", i, want.key, got.CurrencyKey)
		}
		if !approxEqual(got.ExchangeRate, want.rate) {
			t.Errorf("%s: expected rate %v, got %v", want.key, want.rate, got.ExchangeRate)
		}
		if !approxEqual(got.TaxFactor, want.taxFactor) {
			t.Errorf("%s: expected tax factor %v, got %v", want.key, want.taxFactor, got.TaxFactor)
		}
		if got.BankAccountCurrency != "EUR" {
			t.Errorf("%s: expected bank currency EUR, got %s", want.key, got.BankAccountCurrency)
		}
	}
}

func TestParseCurrencyData_BalanceColumn(t *testing.T) {
	// the extra "Balance" column moves every data column one to the right
	header := "Region (Currency),Beginning Balance,Units Sold,Earned,Pre-Tax Subtotal,Input Tax,Adjustments," +
		"Withholding Tax,Total Owed,Exchange Rate,Proceeds,Bank Account Currency,"
	text := buildSummary(header,
		"Euro-Zone (EUR),0,19,206.89,206.89,0,0,0,206.89,1.00000,206.89,EUR,",
		"Australia (AUD),5.00,3,20,20,0,0,-2,18,0.60000,12.60,EUR,",
	)

	records, err := quietCurrencyParser(t).Parse(text)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	aud := records[1]
	if aud.CurrencyKey != "AUD" {
		t.Errorf("Expected AUD, got %s", aud.CurrencyKey)
	}
	if !approxEqual(aud.ExchangeRate, 0.7) {
		t.Errorf("Expected rate 0.7, got %v", aud.ExchangeRate)
	}
	if !approxEqual(aud.TaxFactor, 0.9) {
		t.Errorf("Expected tax factor 0.9, got %v", aud.TaxFactor)
	}
}

func TestParseCurrencyData_RegionalUSD(t *testing.T) {
	text := buildSummary(summaryHeader,
		"Americas (USD),10,10,10,0,0,0,10,0.90000,9.00,EUR,",
		"Rest of World (USD),4,4,4,0,0,0,4,0.90000,3.60,EUR,",
		"Amérique latine et Caraïbes (USD),2,2,2,0,0,0,2,0.90000,1.80,EUR,",
		"Asien-Pazifik (USD),1,1,1,0,0,0,1,0.90000,0.90,EUR,",
	)

	records, err := quietCurrencyParser(t).Parse(text)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedKeys := []string{"USD", "USD - RoW", "USD - LatAm", "USD - AP"}
	if len(records) != len(expectedKeys) {
		t.Fatalf("Expected %d records, got %d", len(expectedKeys), len(records))
	}
	for i, key := range expectedKeys {
		if records[i].CurrencyKey != key {
			t.Errorf("Record %d: expected key %q, got %q", i, key, records[i].CurrencyKey)
		}
	}
}

func TestParseCurrencyData_SkippedRows(t *testing.T) {
	t.Run("tax without sales", func(t *testing.T) {
		text := buildSummary(summaryHeader,
			"Euro-Zone (EUR),19,206.89,206.89,0,0,0,206.89,1.00000,206.89,EUR,",
			"India (INR),0,0,0,0,0,-12,-12,0.01100,-0.13,EUR,",
		)

		records, err := quietCurrencyParser(t).Parse(text)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(records) != 1 || records[0].CurrencyKey != "EUR" {
			t.Errorf("Expected only the EUR record, got %v", records)
		}
	})

	t.Run("rows after the blank line", func(t *testing.T) {
		text := buildSummary(summaryHeader,
			"Euro-Zone (EUR),19,206.89,206.89,0,0,0,206.89,1.00000,206.89,EUR,",
			strings.Repeat(",", 12),
			"Japan (JPY),2,179,179,0,0,-37,142,0.00817,1.16,EUR,",
		)

		records, err := quietCurrencyParser(t).Parse(text)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("Expected parsing to stop at the blank line, got %v", records)
		}
	})

	t.Run("duplicate key keeps the first row", func(t *testing.T) {
		text := buildSummary(summaryHeader,
			"Euro-Zone (EUR),19,206.89,206.89,0,0,0,206.89,1.00000,206.89,EUR,",
			"Euro-Zone (EUR),1,10,10,0,0,0,10,0.50000,5.00,EUR,",
		)

		records, err := quietCurrencyParser(t).Parse(text)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(records) != 1 || !approxEqual(records[0].ExchangeRate, 1) {
			t.Errorf("Expected the first EUR record only, got %v", records)
		}
	})
}

func TestParseCurrencyData_Amounts(t *testing.T) {
	t.Run("thousands separators", func(t *testing.T) {
		text := buildSummary(summaryHeader,
			`Japan (JPY),200,"17,900","17,900",0,0,"-3,700","14,200",0.00817,116.00,EUR,`,
		)

		records, err := quietCurrencyParser(t).Parse(text)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !approxEqual(records[0].ExchangeRate, 116.0/14200) {
			t.Errorf("Unexpected rate %v", records[0].ExchangeRate)
		}
		if !approxEqual(records[0].TaxFactor, 14200.0/17900) {
			t.Errorf("Unexpected tax factor %v", records[0].TaxFactor)
		}
	})

	t.Run("nothing owed falls back to reported rate", func(t *testing.T) {
		text := buildSummary(summaryHeader,
			"Canada (CAD),0,0,0,0,0,0,0,0.68000,0,EUR,",
		)

		records, err := quietCurrencyParser(t).Parse(text)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
		if !approxEqual(records[0].ExchangeRate, 0.68) {
			t.Errorf("Expected reported rate 0.68, got %v", records[0].ExchangeRate)
		}
		if records[0].TaxFactor != 1 {
			t.Errorf("Expected tax factor 1, got %v", records[0].TaxFactor)
		}
	})
}

func TestParseCurrencyData_Errors(t *testing.T) {
	euroRow := "Euro-Zone (EUR),19,206.89,206.89,0,0,0,206.89,1.00000,206.89,EUR,"

	tests := []struct {
		name         string
		input        string
		expectedCode errors.ErrorCode
	}{
		{
			name:         "too few rows",
			input:        "title\n\nheader\n",
			expectedCode: errors.CodeNoDataInFile,
		},
		{
			name: "preliminary report",
			input: strings.Join([]string{
				`"Payments and Financial Reports (October, 2024)"` + strings.Repeat(",", 9),
				strings.Repeat(",", 9),
				summaryHeader,
				euroRow,
				strings.Repeat(",", 12),
			}, "\n"),
			expectedCode: errors.CodePreliminaryMonthFile,
		},
		{
			name: "unexpected title width",
			input: strings.Join([]string{
				"Payments and Financial Reports,,,",
				"",
				summaryHeader,
				euroRow,
				euroRow,
			}, "\n"),
			expectedCode: errors.CodeInvalidColumnCount,
		},
		{
			name:         "unexpected header width",
			input:        buildSummary("Region (Currency),Units Sold,Earned", euroRow),
			expectedCode: errors.CodeInvalidColumnCount,
		},
		{
			name:         "missing currency code",
			input:        buildSummary(summaryHeader, "Euro-Zone,19,206.89,206.89,0,0,0,206.89,1.00000,206.89,EUR,"),
			expectedCode: errors.CodeLineNoCurrencySymbol,
		},
		{
			name:         "non-numeric amount",
			input:        buildSummary(summaryHeader, "Euro-Zone (EUR),19,206.89,abc,0,0,0,206.89,1.00000,206.89,EUR,"),
			expectedCode: errors.CodeFailedParsingValue,
		},
		{
			name:         "short data row",
			input:        buildSummary(summaryHeader, "Euro-Zone (EUR),19,206.89,206.89"),
			expectedCode: errors.CodeFailedParsingValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietCurrencyParser(t).Parse(tt.input)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !errors.HasCode(err, tt.expectedCode) {
				t.Errorf("Expected error code %s, got %v", tt.expectedCode, err)
			}
		})
	}
}

func TestNewCurrencyParser_InvalidLayout(t *testing.T) {
	layout := DefaultCurrencyLayout()
	layout.HeaderRow = 0

	if _, err := NewCurrencyParser(layout); !errors.HasCode(err, errors.CodeInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}
