// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"errors"
	"fmt"
	"math"

	"github.com/fbts/job-offer/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round toward positive infinity like JavaScript's Math.round, so
// -0.125 becomes -0.12 and 0.125 becomes 0.13.
func Round(val float64) float64 {
	return math.Floor(val*constants.DecimalPrecision+0.5) / constants.DecimalPrecision
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Annualize converts a monthly amount to a yearly amount.
func Annualize(monthly float64) float64 {
	return Round(monthly * constants.MonthsPerYear)
}

// ErrOutOfRange is returned by Split for NaN, infinities and magnitudes
// above constants.MaxCurrencyAmount.
var ErrOutOfRange = errors.New("amount out of range")

// Split returns the whole and fractional (in hundredths) parts of the
// magnitude of a currency value.
func Split(val float64) (int64, int64, error) {
	if !IsFinite(val) || math.Abs(val) > constants.MaxCurrencyAmount {
		return 0, 0, fmt.Errorf("%w: %v", ErrOutOfRange, val)
	}
	cents := int64(math.Round(math.Abs(val) * constants.DecimalPrecision))
	return cents / constants.DecimalPrecision, cents % constants.DecimalPrecision, nil
}
