// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/fbts/job-offer/pkg/datetime"
)

// MaxOfferDateDistanceMonths is how far an offer date may lie from the
// reference date before it is reported.
const MaxOfferDateDistanceMonths = 12

// ValidateOfferDate checks that an offer date parses and lies within a year
// of today. An empty date is accepted.
func ValidateOfferDate(offerName, date string, today time.Time) (string, error) {
	if strings.TrimSpace(date) == "" {
		return "", nil
	}
	t, err := datetime.ParseDate(date)
	if err != nil {
		return "", err
	}
	if today.IsZero() {
		return "", nil
	}

	months := datetime.MonthsBetween(today, t)
	if months > MaxOfferDateDistanceMonths || months < -MaxOfferDateDistanceMonths {
		return fmt.Sprintf("%s is dated %s, more than %d months from %s",
			offerName, t.Format(datetime.DateLayout), MaxOfferDateDistanceMonths, today.Format(datetime.DateLayout)), nil
	}
	return "", nil
}

// ValidateCurrency checks that a currency looks like an ISO 4217 code.
func ValidateCurrency(offerName, currency string) string {
	code := strings.TrimSpace(currency)
	if code == "" {
		return ""
	}
	if len(code) != 3 || strings.IndexFunc(code, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < 'a' || r > 'z')
	}) >= 0 {
		return fmt.Sprintf("%s has currency '%s' which is not a three letter code", offerName, currency)
	}
	return ""
}

// ValidateBase reports offers whose formulas depend on a base salary they
// do not carry.
func ValidateBase(offerName string, base float64, usesBase bool) string {
	if usesBase && base <= 0 {
		return fmt.Sprintf("%s has no base salary but its formulas reference base", offerName)
	}
	return ""
}

// ConfigValidator checks offer metadata that the formula checks do not see.
type ConfigValidator struct {
	Today  time.Time
	Offers []OfferConfig
}

// OfferConfig is the metadata of one configured job offer.
type OfferConfig struct {
	Name      string
	OfferDate string
	Currency  string
	Base      float64
	UsesBase  bool
}

// ValidateAll validates every offer and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	for _, o := range cv.Offers {
		label := fmt.Sprintf("Job offer '%s'", o.Name)

		warning, err := ValidateOfferDate(label, o.OfferDate, cv.Today)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("%s: %v", label, err))
		case warning != "":
			warnings = append(warnings, warning)
		}

		if warning := ValidateCurrency(label, o.Currency); warning != "" {
			warnings = append(warnings, warning)
		}
		if warning := ValidateBase(label, o.Base, o.UsesBase); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
