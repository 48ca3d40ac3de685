package utils

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"500", "500", nil},
		{" 1,234.5 ", "1234.5", nil},
		{"0.01", "0.01", nil},
		{"0", "", ErrAmountNotPos},
		{"-10", "", ErrAmountNotPos},
		{"12.345", "", ErrAmountPrecision},
		{"abc", "", ErrAmountInvalid},
		{"", "", ErrAmountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("Expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	d := decimal.RequireFromString("1234567.891")

	t.Run("CNY", func(t *testing.T) {
		if got := FormatAmount(d, "CNY"); got != "¥1,234,567.89" {
			t.Errorf("Expected '¥1,234,567.89', got '%s'", got)
		}
	})

	t.Run("EUR", func(t *testing.T) {
		if got := FormatAmount(d, "EUR"); got != "€1.234.567,89" {
			t.Errorf("Expected '€1.234.567,89', got '%s'", got)
		}
	})

	t.Run("JPY - no decimals", func(t *testing.T) {
		if got := FormatAmount(decimal.NewFromInt(123456), "JPY"); got != "¥123,456" {
			t.Errorf("Expected '¥123,456', got '%s'", got)
		}
	})

	t.Run("negative", func(t *testing.T) {
		if got := FormatAmount(decimal.RequireFromString("-50.755"), "XXX"); got != "-¥50.76" {
			t.Errorf("Expected '-¥50.76', got '%s'", got)
		}
	})

	t.Run("zero", func(t *testing.T) {
		if got := FormatAmount(decimal.Zero, "CNY"); got != "¥0.00" {
			t.Errorf("Expected '¥0.00', got '%s'", got)
		}
	})
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(decimal.RequireFromString("0.0175")); got != "1.75%" {
		t.Errorf("Expected '1.75%%', got '%s'", got)
	}
	if got := FormatPlain(decimal.RequireFromString("6.5")); got != "6.50" {
		t.Errorf("Expected '6.50', got '%s'", got)
	}
}
