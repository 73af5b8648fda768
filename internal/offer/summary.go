package offer

import (
	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/pkg/mathutil"
)

// Line is one component of an offer with its monthly and yearly amounts.
type Line struct {
	Table               salary.Table `json:"table"`
	Component           string       `json:"component"`
	Abbr                string       `json:"abbr,omitempty"`
	Amount              float64      `json:"amount"`
	Yearly              float64      `json:"yearly"`
	DoNotIncludeInTotal bool         `json:"do_not_include_in_total"`
}

// Period holds a monthly figure and its annual equivalent.
type Period struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

func newPeriod(monthly float64) Period {
	monthly = mathutil.Round(monthly)
	return Period{Monthly: monthly, Annual: mathutil.Annualize(monthly)}
}

// Totals aggregates an offer. Rows flagged "do not include in total" are
// kept out of gross and deductions and counted as employer contributions.
type Totals struct {
	Gross                Period `json:"gross"`
	Deductions           Period `json:"deductions"`
	Net                  Period `json:"net"`
	EmployerContribution Period `json:"employer_contribution"`
	CTC                  Period `json:"ctc"`
}

// Summary is the printable view of a prepared offer.
type Summary struct {
	Earnings              []Line `json:"earnings"`
	Deductions            []Line `json:"deductions"`
	EmployerContributions []Line `json:"employer_contributions"`
	Totals                Totals `json:"totals"`
}

// Lines returns earnings followed by deductions.
func (s Summary) Lines() []Line {
	lines := make([]Line, 0, len(s.Earnings)+len(s.Deductions))
	lines = append(lines, s.Earnings...)
	return append(lines, s.Deductions...)
}

func newLine(table salary.Table, row salary.Row) Line {
	amount := mathutil.Round(row.Amount.Float())
	component := row.SalaryComponent
	if component == "" {
		component = row.Label()
	}
	return Line{
		Table:               table,
		Component:           component,
		Abbr:                row.Abbr,
		Amount:              amount,
		Yearly:              mathutil.Annualize(amount),
		DoNotIncludeInTotal: bool(row.DoNotIncludeInTotal),
	}
}

// Summarize builds the summary of o's current amounts.
func Summarize(o *JobOffer) Summary {
	summary := Summary{
		Earnings:              make([]Line, 0, len(o.Earnings)),
		Deductions:            make([]Line, 0, len(o.Deductions)),
		EmployerContributions: []Line{},
	}

	var gross, deductions, employer float64
	for _, row := range o.Earnings {
		line := newLine(salary.Earnings, row)
		summary.Earnings = append(summary.Earnings, line)
		if line.DoNotIncludeInTotal {
			summary.EmployerContributions = append(summary.EmployerContributions, line)
			employer += line.Amount
			continue
		}
		gross += line.Amount
	}
	for _, row := range o.Deductions {
		line := newLine(salary.Deductions, row)
		summary.Deductions = append(summary.Deductions, line)
		if line.DoNotIncludeInTotal {
			summary.EmployerContributions = append(summary.EmployerContributions, line)
			employer += line.Amount
			continue
		}
		deductions += line.Amount
	}

	summary.Totals = Totals{
		Gross:                newPeriod(gross),
		Deductions:           newPeriod(deductions),
		Net:                  newPeriod(gross - deductions),
		EmployerContribution: newPeriod(employer),
		CTC:                  newPeriod(gross + employer),
	}
	return summary
}
