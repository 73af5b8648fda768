// Package salary holds salary component rows and the engine that fills blank
// component amounts from their formulas.
package salary

import "strings"

// Table names one of the two component lists of a document.
type Table string

// Component tables, in processing order.
const (
	Earnings   Table = "earnings"
	Deductions Table = "deductions"
)

// Row is one earnings or deductions line (a Frappe "Salary Detail").
type Row struct {
	SalaryComponent                    string  `json:"salary_component" yaml:"salaryComponent" mapstructure:"salaryComponent" validate:"required_without=Abbr"`
	Abbr                               string  `json:"abbr,omitempty" yaml:"abbr,omitempty" mapstructure:"abbr"`
	Amount                             Amount  `json:"amount" yaml:"amount,omitempty" mapstructure:"amount"`
	Formula                            string  `json:"formula,omitempty" yaml:"formula,omitempty" mapstructure:"formula"`
	Condition                          string  `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`
	DefaultAmount                      float64 `json:"default_amount,omitempty" yaml:"defaultAmount,omitempty" mapstructure:"defaultAmount"`
	AdditionalAmount                   float64 `json:"additional_amount,omitempty" yaml:"additionalAmount,omitempty" mapstructure:"additionalAmount"`
	YearToDate                         float64 `json:"year_to_date,omitempty" yaml:"yearToDate,omitempty" mapstructure:"yearToDate"`
	AmountBasedOnFormula               Flag    `json:"amount_based_on_formula" yaml:"amountBasedOnFormula,omitempty" mapstructure:"amountBasedOnFormula"`
	DependsOnPaymentDays               Flag    `json:"depends_on_payment_days" yaml:"dependsOnPaymentDays,omitempty" mapstructure:"dependsOnPaymentDays"`
	IsTaxApplicable                    Flag    `json:"is_tax_applicable" yaml:"isTaxApplicable,omitempty" mapstructure:"isTaxApplicable"`
	IsFlexibleBenefit                  Flag    `json:"is_flexible_benefit" yaml:"isFlexibleBenefit,omitempty" mapstructure:"isFlexibleBenefit"`
	VariableBasedOnTaxableSalary       Flag    `json:"variable_based_on_taxable_salary" yaml:"variableBasedOnTaxableSalary,omitempty" mapstructure:"variableBasedOnTaxableSalary"`
	DeductFullTaxOnSelectedPayrollDate Flag    `json:"deduct_full_tax_on_selected_payroll_date" yaml:"deductFullTaxOnSelectedPayrollDate,omitempty" mapstructure:"deductFullTaxOnSelectedPayrollDate"`
	TaxOnAdditionalSalary              Flag    `json:"tax_on_additional_salary" yaml:"taxOnAdditionalSalary,omitempty" mapstructure:"taxOnAdditionalSalary"`
	TaxOnFlexibleBenefit               Flag    `json:"tax_on_flexible_benefit" yaml:"taxOnFlexibleBenefit,omitempty" mapstructure:"taxOnFlexibleBenefit"`
	StatisticalComponent               Flag    `json:"statistical_component" yaml:"statisticalComponent,omitempty" mapstructure:"statisticalComponent"`
	DoNotIncludeInTotal                Flag    `json:"do_not_include_in_total" yaml:"doNotIncludeInTotal,omitempty" mapstructure:"doNotIncludeInTotal"`
	DoNotIncludeInAccts                Flag    `json:"do_not_include_in_accounts" yaml:"doNotIncludeInAccounts,omitempty" mapstructure:"doNotIncludeInAccounts"`
}

// HasFormula reports whether the row carries a non-empty formula.
func (r Row) HasFormula() bool {
	return strings.TrimSpace(r.Formula) != ""
}

// Label names the row for messages: its abbreviation, else its component,
// else "row".
func (r Row) Label() string {
	if r.Abbr != "" {
		return r.Abbr
	}
	if r.SalaryComponent != "" {
		return r.SalaryComponent
	}
	return "row"
}

// Document is the part of a Job Offer the engine works on.
type Document struct {
	Base       Amount `json:"base" yaml:"base" mapstructure:"base"`
	Earnings   []Row  `json:"earnings" yaml:"earnings" mapstructure:"earnings" validate:"dive"`
	Deductions []Row  `json:"deductions" yaml:"deductions" mapstructure:"deductions" validate:"dive"`
}

// Rows returns the document's rows of one table.
func (d *Document) Rows(table Table) []Row {
	if table == Deductions {
		return d.Deductions
	}
	return d.Earnings
}

// Clone returns a copy that shares no row storage with d.
func (d Document) Clone() Document {
	return Document{
		Base:       d.Base,
		Earnings:   CloneRows(d.Earnings),
		Deductions: CloneRows(d.Deductions),
	}
}

// CloneRows copies a row slice, preserving nil.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	return append(make([]Row, 0, len(rows)), rows...)
}

// RowRef points at a row by table and index.
type RowRef struct {
	Table Table  `json:"table"`
	Index int    `json:"index"`
	Label string `json:"label"`
}
