package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal precision used throughout the gains pipeline. Every value parsed
// from a feed and every derived value (products, differences) is quantized at
// one of these scales before it is stored or compared.
const (
	UnitsDecimalPlaces = 3 // fund units
	NavDecimalPlaces   = 4 // price per unit
	MoneyDecimalPlaces = 2 // rupee amounts
)

// RoundUnits quantizes a unit quantity to 3 decimal places, half away from zero.
func RoundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(UnitsDecimalPlaces)
}

// RoundNav quantizes a NAV to 4 decimal places, half away from zero.
func RoundNav(d decimal.Decimal) decimal.Decimal {
	return d.Round(NavDecimalPlaces)
}

// RoundMoney quantizes a monetary amount to 2 decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyDecimalPlaces)
}

// ParseDecimal parses a decimal string from a transaction feed. Thousands
// separators are stripped; a parenthesized value, the feed's convention for
// outflows, is returned as negative.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty decimal value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing decimal %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
