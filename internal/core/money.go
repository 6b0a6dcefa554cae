// Package core provides number parsing for amounts and odometer readings.
//
// This file contains the helpers that turn spreadsheet or form text into
// decimal values without going through float64.
package core

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var errInvalidNumber = errors.New("invalid number")

// ParseDecimal converts a decimal string to a non-negative decimal value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit: rounding happens only when results are presented.
// Signed input, more than one separator and non-digit characters are rejected.
//
// Examples:
//
//	ParseDecimal("12.34")  -> 12.34, nil
//	ParseDecimal("12,345") -> 12.345, nil
//	ParseDecimal("-1")     -> 0, error
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errInvalidNumber
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, errInvalidNumber
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, errInvalidNumber
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return decimal.Zero, errInvalidNumber
		}
	}
	if fracPart == "" {
		return decimal.NewFromString(intPart)
	}
	return decimal.NewFromString(intPart + "." + fracPart)
}

// ParseAmount parses a money amount. Zero is allowed.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseDistance parses an odometer reading.
func ParseDistance(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, ErrInvalidDistance
	}
	return d, nil
}

// Round2 rounds half away from zero to two decimal places, the output
// precision of every amount, distance and mileage figure.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
