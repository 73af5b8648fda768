// Package format renders monetary amounts for human-readable output.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with the given symbol and western
// thousands separators (e.g., "-$1,234.56").
func Currency(amount float64, symbol string) string {
	formatted := formatPositiveCurrency(math.Abs(amount), westernGroups)
	if amount < 0 {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// IndianCurrency returns a currency string grouped the Indian way, thousands
// first and then pairs of digits (e.g., "₹1,23,45,678.00").
func IndianCurrency(amount float64, symbol string) string {
	formatted := formatPositiveCurrency(math.Abs(amount), indianGroups)
	if amount < 0 {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// ForCurrency picks the grouping and symbol conventional for an ISO currency code.
func ForCurrency(amount float64, code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "INR":
		return IndianCurrency(amount, "₹")
	case "USD", "":
		return Currency(amount, "$")
	case "EUR":
		return Currency(amount, "€")
	case "GBP":
		return Currency(amount, "£")
	default:
		return Currency(amount, strings.ToUpper(code)+" ")
	}
}

func westernGroups(intPart string) []string {
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	return append([]string{intPart}, groups...)
}

func indianGroups(intPart string) []string {
	if len(intPart) <= 3 {
		return []string{intPart}
	}
	groups := []string{intPart[len(intPart)-3:]}
	intPart = intPart[:len(intPart)-3]
	for len(intPart) > 2 {
		groups = append([]string{intPart[len(intPart)-2:]}, groups...)
		intPart = intPart[:len(intPart)-2]
	}
	return append([]string{intPart}, groups...)
}

func formatPositiveCurrency(value float64, group func(string) []string) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	return strings.Join(group(intPart), ",") + "." + decPart
}
