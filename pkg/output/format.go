// Package output provides utilities for formatting and displaying prepared job offers.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fbts/job-offer/internal/offer"
	"github.com/fbts/job-offer/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table per offer.
func PrettyFormat(w io.Writer, results []*offer.Prepared) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		o := &result.Offer
		money := func(v float64) string { return format.ForCurrency(v, o.Currency) }

		if _, err := fmt.Fprintf(w, "--- Job offer %s ---\n", o.Title()); err != nil {
			return err
		}
		if details := offerDetails(o); details != "" {
			fmt.Fprintf(w, "%s\n", details)
		}
		fmt.Fprintf(w, "Component | Abbr | Monthly | Yearly\n")
		fmt.Fprintf(w, "_________ | ____ | _______ | ______\n")
		for _, line := range result.Summary.Lines() {
			note := ""
			if line.DoNotIncludeInTotal {
				note = " (not in total)"
			}
			fmt.Fprintf(w, "%s | %s | %s | %s%s\n", line.Component, line.Abbr, money(line.Amount), money(line.Yearly), note)
		}

		t := result.Summary.Totals
		fmt.Fprintf(w, "\n")
		for _, total := range []struct {
			label  string
			period offer.Period
		}{
			{"Gross", t.Gross},
			{"Deductions", t.Deductions},
			{"Net pay", t.Net},
			{"Employer contribution", t.EmployerContribution},
			{"Cost to company", t.CTC},
		} {
			fmt.Fprintf(w, "%s | %s | %s\n", total.label, money(total.period.Monthly), money(total.period.Annual))
		}
		fmt.Fprintf(w, "Annual CTC in words: %s\n", result.CTCInWords)

		_, _ = p.Fprintf(w, "Recomputed %d amounts in %d passes\n", result.Recompute.Computed, result.Recompute.Passes)
		for _, warning := range result.Recompute.Warnings {
			fmt.Fprintf(w, "Warning: %s\n", warning.Message())
		}
		if len(result.Recompute.Unresolved) > 0 {
			labels := make([]string, len(result.Recompute.Unresolved))
			for j, ref := range result.Recompute.Unresolved {
				labels[j] = ref.Label
			}
			fmt.Fprintf(w, "Unresolved: %s\n", strings.Join(labels, ", "))
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
	return nil
}

func offerDetails(o *offer.JobOffer) string {
	var parts []string
	for _, part := range []struct{ label, value string }{
		{"Applicant", o.ApplicantName},
		{"Designation", o.Designation},
		{"Company", o.Company},
		{"Structure", o.SalaryStructure},
		{"Currency", o.Currency},
	} {
		if part.value != "" {
			parts = append(parts, part.label+": "+part.value)
		}
	}
	return strings.Join(parts, " | ")
}

// CsvHeader lists the columns written by CsvFormat.
var CsvHeader = []string{"offer", "applicant", "table", "component", "abbr", "monthly", "yearly", "do_not_include_in_total"}

// CsvFormat writes one comma-separated record per component line.
func CsvFormat(w io.Writer, results []*offer.Prepared) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CsvHeader); err != nil {
		return err
	}
	for _, result := range results {
		for _, line := range result.Summary.Lines() {
			record := []string{
				result.Offer.Title(),
				result.Offer.ApplicantName,
				string(line.Table),
				line.Component,
				line.Abbr,
				strconv.FormatFloat(line.Amount, 'f', 2, 64),
				strconv.FormatFloat(line.Yearly, 'f', 2, 64),
				strconv.FormatBool(line.DoNotIncludeInTotal),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
