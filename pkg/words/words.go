// Package words spells monetary amounts out in English the way Frappe prints
// them on documents, e.g. "INR One Lakh Twenty Thousand only.".
package words

import (
	"strings"

	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/mathutil"
)

// System selects how large numbers are grouped.
type System int

const (
	// SystemIndian groups by thousand, lakh and crore.
	SystemIndian System = iota
	// SystemInternational groups by thousand, million and billion.
	SystemInternational
)

// Options controls Money.
type Options struct {
	Currency     string
	FractionUnit string
	System       System
}

var fractionUnits = map[string]string{
	"INR": constants.DefaultFractionUnit,
	"USD": "Cent",
	"EUR": "Cent",
	"GBP": "Penny",
	"AED": "Fils",
}

// OptionsFor returns the conventional options for an ISO currency code.
// Rupees use the Indian system, everything else the international one.
func OptionsFor(currency string) Options {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = constants.DefaultCurrency
	}
	opts := Options{Currency: code, FractionUnit: fractionUnits[code], System: SystemInternational}
	if code == "INR" {
		opts.System = SystemIndian
	}
	return opts
}

// Money spells amount out, rounded to two decimals. A zero amount reads
// "INR Zero only."; an amount below one unit names only the fraction.
// Amounts that mathutil.Split rejects return mathutil.ErrOutOfRange.
func Money(amount float64, opts Options) (string, error) {
	if opts.Currency == "" {
		opts.Currency = constants.DefaultCurrency
	}
	if opts.FractionUnit == "" {
		opts.FractionUnit = OptionsFor(opts.Currency).FractionUnit
	}
	if opts.FractionUnit == "" {
		opts.FractionUnit = "Cent"
	}

	rounded := mathutil.Round(amount)
	whole, fraction, err := mathutil.Split(rounded)
	if err != nil {
		return "", err
	}
	sign := ""
	if rounded < 0 {
		sign = "Minus "
	}

	var out string
	switch {
	case whole == 0 && fraction == 0:
		out = opts.Currency + " Zero"
	case whole == 0:
		out = sign + Number(fraction, opts.System) + " " + opts.FractionUnit
	default:
		out = opts.Currency + " " + sign + Number(whole, opts.System)
		if fraction > 0 {
			out += " and " + Number(fraction, opts.System) + " " + opts.FractionUnit
		}
	}
	return out + " only.", nil
}

var ones = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

type scale struct {
	value int64
	name  string
}

var (
	indianScales = []scale{
		{10000000, "Crore"},
		{100000, "Lakh"},
		{1000, "Thousand"},
		{100, "Hundred"},
	}
	internationalScales = []scale{
		{1000000000000, "Trillion"},
		{1000000000, "Billion"},
		{1000000, "Million"},
		{1000, "Thousand"},
		{100, "Hundred"},
	}
)

// Number spells a whole number in title case without separators.
// Negative numbers are spelled by magnitude.
func Number(n int64, system System) string {
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return ones[0]
	}
	scales := indianScales
	if system == SystemInternational {
		scales = internationalScales
	}
	return strings.Join(spell(n, scales), " ")
}

func spell(n int64, scales []scale) []string {
	var parts []string
	for _, s := range scales {
		if n >= s.value {
			parts = append(parts, spell(n/s.value, scales)...)
			parts = append(parts, s.name)
			n %= s.value
		}
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, ones[n])
	default:
		parts = append(parts, tens[n/10])
		if n%10 != 0 {
			parts = append(parts, ones[n%10])
		}
	}
	return parts
}
