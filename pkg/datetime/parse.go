// Package datetime parses the calendar dates carried on job offers.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/fbts/job-offer/pkg/constants"
)

const (
	DateLayout = constants.DateLayout
)

// ParseDate parses a YYYY-MM-DD date. Surrounding whitespace is ignored.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// MustParseDate is ParseDate for known-good literals.
func MustParseDate(date string) time.Time {
	t, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthsBetween counts whole calendar months from first to second. The
// result is negative when second precedes first.
func MonthsBetween(first, second time.Time) int {
	months := (second.Year()-first.Year())*12 + int(second.Month()-first.Month())
	switch {
	case months > 0 && second.Day() < first.Day():
		months--
	case months < 0 && second.Day() > first.Day():
		months++
	}
	return months
}
