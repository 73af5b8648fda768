package offer

import (
	"testing"

	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/internal/structure"
)

func testStructure() *structure.Structure {
	return &structure.Structure{
		Name: "Standard",
		Meta: structure.Meta{Currency: "INR", PayrollFrequency: "Monthly"},
		Earnings: []salary.Row{
			{SalaryComponent: "Basic", Abbr: "B", Formula: "base*0.5"},
			{SalaryComponent: "House Rent Allowance", Abbr: "HRA", Formula: "B*0.4"},
		},
		Deductions: []salary.Row{
			{SalaryComponent: "Provident Fund", Abbr: "PF", Formula: "B*0.12"},
		},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModeNone, false},
		{"none", ModeNone, false},
		{" Overwrite ", ModeOverwrite, false},
		{"append", ModeAppend, false},
		{"replace", ModeNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseMode(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyStructure(t *testing.T) {
	existing := []salary.Row{{SalaryComponent: "Joining Bonus", Abbr: "JB", Amount: salary.NewAmount(5000)}}

	tests := []struct {
		name               string
		mode               Mode
		expectedEarnings   []string
		expectedDeductions int
		expectedStructure  string
	}{
		{"None leaves tables", ModeNone, []string{"JB"}, 0, ""},
		{"Overwrite replaces tables", ModeOverwrite, []string{"B", "HRA"}, 1, "Standard"},
		{"Append keeps existing rows first", ModeAppend, []string{"JB", "B", "HRA"}, 1, "Standard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := JobOffer{Currency: "USD", Document: salary.Document{Earnings: salary.CloneRows(existing)}}
			s := testStructure()
			ApplyStructure(&o, s, tt.mode)

			if len(o.Earnings) != len(tt.expectedEarnings) {
				t.Fatalf("earnings = %+v, expected %v", o.Earnings, tt.expectedEarnings)
			}
			for i, abbr := range tt.expectedEarnings {
				if o.Earnings[i].Abbr != abbr {
					t.Errorf("earnings[%d] = %s, expected %s", i, o.Earnings[i].Abbr, abbr)
				}
			}
			if len(o.Deductions) != tt.expectedDeductions {
				t.Errorf("deductions = %d, expected %d", len(o.Deductions), tt.expectedDeductions)
			}
			if o.SalaryStructure != tt.expectedStructure {
				t.Errorf("salary structure = %q, expected %q", o.SalaryStructure, tt.expectedStructure)
			}
			if tt.mode != ModeNone && (o.Currency != "INR" || o.PayrollFrequency != "Monthly") {
				t.Errorf("meta not copied: currency %q frequency %q", o.Currency, o.PayrollFrequency)
			}

			// rows are copies
			if len(o.Earnings) > 0 {
				o.Earnings[len(o.Earnings)-1].Formula = "changed"
			}
			if s.Earnings[1].Formula != "B*0.4" {
				t.Errorf("structure rows were aliased")
			}
		})
	}
}

func TestApplyStructureKeepsCurrencyWithoutMeta(t *testing.T) {
	o := JobOffer{Currency: "USD"}
	ApplyStructure(&o, &structure.Structure{Name: "Bare"}, ModeOverwrite)
	if o.Currency != "USD" {
		t.Errorf("currency = %q, expected USD", o.Currency)
	}
	ApplyStructure(&o, nil, ModeOverwrite)
	if o.SalaryStructure != "Bare" {
		t.Errorf("nil structure should be ignored")
	}
}

func TestClearStructure(t *testing.T) {
	o := JobOffer{SalaryStructure: "Standard", Document: salary.Document{
		Base:       salary.NewAmount(1000),
		Earnings:   []salary.Row{{Abbr: "B"}},
		Deductions: []salary.Row{{Abbr: "PF"}},
	}}
	ClearStructure(&o)
	if o.SalaryStructure != "" || o.Earnings != nil || o.Deductions != nil {
		t.Errorf("ClearStructure left %+v", o)
	}
	if o.Base != salary.NewAmount(1000) {
		t.Errorf("base should be kept")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		offer    JobOffer
		expected string
	}{
		{JobOffer{Name: "HR-OFF-0001", ApplicantName: "Asha"}, "HR-OFF-0001"},
		{JobOffer{ApplicantName: "Asha", JobApplicant: "HR-APP-1"}, "Asha"},
		{JobOffer{JobApplicant: "HR-APP-1"}, "HR-APP-1"},
		{JobOffer{}, "Job Offer"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.offer.Title(); got != tt.expected {
				t.Errorf("Title() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
