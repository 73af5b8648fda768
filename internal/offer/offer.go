// Package offer prepares Job Offers: it populates their component tables
// from salary structures, fills blank amounts from formulas and summarises
// the resulting package.
package offer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/fbts/job-offer/pkg/constants"
)

// ErrInvalidMode is returned for an unknown structure application mode.
var ErrInvalidMode = errors.New("invalid structure mode")

// Mode says how a salary structure is applied to an offer's tables.
type Mode string

// Structure application modes.
const (
	ModeNone      Mode = constants.StructureModeNone
	ModeOverwrite Mode = constants.StructureModeOverwrite
	ModeAppend    Mode = constants.StructureModeAppend
)

// ParseMode converts a configured mode. An empty value means ModeNone.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNone:
		return ModeNone, nil
	case ModeOverwrite:
		return ModeOverwrite, nil
	case ModeAppend:
		return ModeAppend, nil
	}
	return ModeNone, fmt.Errorf("%w %q: must be one of none, overwrite, append", ErrInvalidMode, s)
}

// JobOffer is the subset of a Frappe Job Offer this module works with.
type JobOffer struct {
	Name             string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	JobApplicant     string `json:"job_applicant,omitempty" yaml:"jobApplicant,omitempty" mapstructure:"jobApplicant"`
	ApplicantName    string `json:"applicant_name,omitempty" yaml:"applicantName,omitempty" mapstructure:"applicantName"`
	Designation      string `json:"designation,omitempty" yaml:"designation,omitempty" mapstructure:"designation"`
	Company          string `json:"company,omitempty" yaml:"company,omitempty" mapstructure:"company"`
	OfferDate        string `json:"offer_date,omitempty" yaml:"offerDate,omitempty" mapstructure:"offerDate"`
	Status           string `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
	SalaryStructure  string `json:"salary_structure,omitempty" yaml:"salaryStructure,omitempty" mapstructure:"salaryStructure"`
	Currency         string `json:"currency,omitempty" yaml:"currency,omitempty" mapstructure:"currency"`
	PayrollFrequency string `json:"payroll_frequency,omitempty" yaml:"payrollFrequency,omitempty" mapstructure:"payrollFrequency"`
	StructureMode    string `json:"structure_mode,omitempty" yaml:"structureMode,omitempty" mapstructure:"structureMode"`

	salary.Document `yaml:",inline" mapstructure:",squash"`
}

// Title names the offer for output: the document name, else the applicant.
func (o *JobOffer) Title() string {
	switch {
	case o.Name != "":
		return o.Name
	case o.ApplicantName != "":
		return o.ApplicantName
	case o.JobApplicant != "":
		return o.JobApplicant
	}
	return "Job Offer"
}

// Clone returns a copy sharing no row storage with o.
func (o *JobOffer) Clone() JobOffer {
	c := *o
	c.Document = o.Document.Clone()
	return c
}

// ApplyStructure populates the offer's tables from s. ModeOverwrite replaces
// both tables, ModeAppend adds the structure rows after the existing ones and
// ModeNone does nothing. Currency and payroll frequency are copied from the
// structure when it has them.
func ApplyStructure(o *JobOffer, s *structure.Structure, mode Mode) {
	if mode == ModeNone || s == nil {
		return
	}

	switch mode {
	case ModeOverwrite:
		o.Earnings = salary.CloneRows(s.Earnings)
		o.Deductions = salary.CloneRows(s.Deductions)
	case ModeAppend:
		o.Earnings = append(salary.CloneRows(o.Earnings), s.Earnings...)
		o.Deductions = append(salary.CloneRows(o.Deductions), s.Deductions...)
	}

	o.SalaryStructure = s.Name
	if s.Meta.Currency != "" {
		o.Currency = s.Meta.Currency
	}
	if s.Meta.PayrollFrequency != "" {
		o.PayrollFrequency = s.Meta.PayrollFrequency
	}
}

// ClearStructure empties both component tables and unlinks the structure.
func ClearStructure(o *JobOffer) {
	o.SalaryStructure = ""
	o.Earnings = nil
	o.Deductions = nil
}
