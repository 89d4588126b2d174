package parsers

import "testing"

func TestCurrencyLayout_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*CurrencyLayout)
		expectError bool
	}{
		{"default", func(*CurrencyLayout) {}, false},
		{"header on title row", func(l *CurrencyLayout) { l.HeaderRow = 0 }, true},
		{"data before header", func(l *CurrencyLayout) { l.FirstDataRow = 2 }, true},
		{"min rows too small", func(l *CurrencyLayout) { l.MinRows = 3 }, true},
		{"balance header not one wider", func(l *CurrencyLayout) { l.BalanceHeaderColumns = 14 }, true},
		{"column outside header", func(l *CurrencyLayout) { l.BankCurrencyColumn = 12 }, true},
		{"column on region label", func(l *CurrencyLayout) { l.PreTaxColumn = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := DefaultCurrencyLayout()
			tt.modify(layout)

			err := layout.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Validate() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestCurrencyLayout_ColumnShift(t *testing.T) {
	layout := DefaultCurrencyLayout()

	if shift := layout.columnShift(12); shift != 0 {
		t.Errorf("Expected no shift for 12 header columns, got %d", shift)
	}
	if shift := layout.columnShift(13); shift != 1 {
		t.Errorf("Expected shift of 1 for 13 header columns, got %d", shift)
	}
}

func TestLedgerLayout_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*LedgerLayout)
		expectError bool
	}{
		{"default", func(*LedgerLayout) {}, false},
		{"empty date format", func(l *LedgerLayout) { l.DateFormat = " " }, true},
		{"negative column", func(l *LedgerLayout) { l.AmountColumn = -1 }, true},
		{"shared column", func(l *LedgerLayout) { l.ProductColumn = l.CountryCodeColumn }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := DefaultLedgerLayout()
			tt.modify(layout)

			err := layout.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Validate() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}
