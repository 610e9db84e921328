// Package core provides money parsing and formatting utilities.
//
// Amounts are kept as float64 end to end. Rounding to cents happens only when an
// amount is formatted for display.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an optional
// leading currency symbol. Zero is accepted; negative values are not.
//
// Examples:
//
//	ParseAmount("12.75")  -> 12.75, nil
//	ParseAmount("$12,75") -> 12.75, nil
//	ParseAmount("-3")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseAmountOrZero is the lenient form used by entry forms: anything unparsable is 0.
func ParseAmountOrZero(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount renders an amount with two decimals and a dollar sign, e.g. "$45.67".
func FormatAmount(v float64) string {
	if v < 0 {
		return "-$" + strconv.FormatFloat(-v, 'f', 2, 64)
	}
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatExpense renders a transaction amount as a debit, e.g. "-$45.67".
func FormatExpense(v float64) string {
	return FormatAmount(-math.Abs(v))
}
