package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency with its formatting rules
type Currency struct {
	Code          string // ISO 4217 code (e.g., "CNY")
	Symbol        string // Display symbol (e.g., "¥")
	SymbolFirst   bool   // True if symbol comes before amount
	DecimalPlaces int32
	ThousandsSep  string
	DecimalSep    string
}

// Currencies the backend may report
var Currencies = map[string]Currency{
	"CNY": {Code: "CNY", Symbol: "¥", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"HKD": {Code: "HKD", Symbol: "HK$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"USD": {Code: "USD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"EUR": {Code: "EUR", Symbol: "€", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ".", DecimalSep: ","},
	"JPY": {Code: "JPY", Symbol: "¥", SymbolFirst: true, DecimalPlaces: 0, ThousandsSep: ",", DecimalSep: "."},
}

// DefaultCurrency is used when a currency code is not found
var DefaultCurrency = Currencies["CNY"]

// GetCurrency returns the currency configuration for a code, or the default if not found
func GetCurrency(code string) Currency {
	if c, ok := Currencies[code]; ok {
		return c
	}
	return DefaultCurrency
}

// Amount parsing errors
var (
	ErrAmountInvalid   = errors.New("amount is not a number")
	ErrAmountNotPos    = errors.New("amount must be greater than zero")
	ErrAmountPrecision = errors.New("amount has more than two decimal places")
)

// ParseAmount parses user input as a positive amount with at most two decimal places.
// Thousands separators and surrounding spaces are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, ErrAmountInvalid
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountInvalid
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrAmountNotPos
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, ErrAmountPrecision
	}
	return d, nil
}

// FormatAmount renders d with the currency's symbol, separators and decimal places.
// This is the only place amounts are rounded for display.
func FormatAmount(d decimal.Decimal, currencyCode string) string {
	currency := GetCurrency(currencyCode)

	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(currency.DecimalPlaces)

	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = formatWithSeparator(n, currency.ThousandsSep)
	}

	result := whole
	if currency.DecimalPlaces > 0 {
		result += currency.DecimalSep + frac
	}

	if currency.SymbolFirst {
		result = currency.Symbol + result
	} else {
		result = result + " " + currency.Symbol
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPlain renders d with two decimal places and no symbol (e.g., "1234.50")
func FormatPlain(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatRate renders an annual rate fraction as a percentage (0.0175 -> "1.75%")
func FormatRate(rate decimal.Decimal) string {
	return rate.Shift(2).StringFixed(2) + "%"
}

// formatWithSeparator adds thousands separators to a number
func formatWithSeparator(n int64, sep string) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 || sep == "" {
		return str
	}

	var result strings.Builder
	startOffset := len(str) % 3
	if startOffset == 0 {
		startOffset = 3
	}

	result.WriteString(str[:startOffset])
	for i := startOffset; i < len(str); i += 3 {
		result.WriteString(sep)
		result.WriteString(str[i : i+3])
	}

	return result.String()
}
