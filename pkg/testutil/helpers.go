// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/fbts/job-offer/internal/offer"
	"github.com/fbts/job-offer/internal/salary"
)

// FindOffer finds a prepared offer by name in the results slice.
// Returns nil if no offer has that name.
func FindOffer(results []*offer.Prepared, name string) *offer.Prepared {
	for _, result := range results {
		if result != nil && result.Offer.Name == name {
			return result
		}
	}
	return nil
}

// FindRow finds the first component row with the given abbreviation.
func FindRow(rows []salary.Row, abbr string) *salary.Row {
	for i := range rows {
		if rows[i].Abbr == abbr {
			return &rows[i]
		}
	}
	return nil
}

// RowAmount returns the amount of the row with the given abbreviation and
// whether such a row exists.
func RowAmount(rows []salary.Row, abbr string) (float64, bool) {
	row := FindRow(rows, abbr)
	if row == nil {
		return 0, false
	}
	return row.Amount.Float(), true
}
