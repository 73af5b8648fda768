package config

import (
	"context"
	"strings"
	"testing"

	"github.com/fbts/job-offer/internal/offer"
	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/datetime"
	"go.uber.org/zap"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test configuration",
			configPath: "../../test/test_config.yaml",
		},
		{
			name:       "Example configuration",
			configPath: "../../" + constants.ExampleConfigFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "warn" || config.Logging.Format != "console" {
		t.Errorf("logging = %+v", config.Logging)
	}
	if config.Output.Format != "csv" {
		t.Errorf("output format = %q, expected csv", config.Output.Format)
	}

	if len(config.Structures) != 1 {
		t.Fatalf("Expected 1 structure, got %d", len(config.Structures))
	}
	s := config.Structures[0]
	if s.Name != "Standard" || s.Meta.Currency != "INR" || s.Meta.PayrollFrequency != "Monthly" || !bool(s.Meta.IsActive) {
		t.Errorf("structure = %+v", s)
	}
	if len(s.Earnings) != 4 || len(s.Deductions) != 3 {
		t.Fatalf("Expected 4 earnings and 3 deductions, got %d and %d", len(s.Earnings), len(s.Deductions))
	}
	if s.Earnings[0].SalaryComponent != "Basic" || s.Earnings[0].Abbr != "B" || s.Earnings[0].Formula != "base * 0.5" {
		t.Errorf("earnings[0] = %+v", s.Earnings[0])
	}
	if s.Earnings[0].Amount.IsSet() {
		t.Errorf("earnings[0] amount should be absent, got %v", s.Earnings[0].Amount)
	}
	if !bool(s.Earnings[0].AmountBasedOnFormula) {
		t.Errorf("earnings[0] should be based on formula")
	}
	if s.Earnings[2].Amount != salary.NewAmount(1600) {
		t.Errorf("earnings[2] amount = %v, expected 1600", s.Earnings[2].Amount)
	}
	if !bool(s.Deductions[2].DoNotIncludeInTotal) {
		t.Errorf("deductions[2] should not be included in total")
	}

	if len(config.Offers) != 2 {
		t.Fatalf("Expected 2 offers, got %d", len(config.Offers))
	}
	first := config.Offers[0]
	if first.Name != "HR-OFF-0001" || first.ApplicantName != "Asha Rao" || first.OfferDate != "2026-10-01" {
		t.Errorf("offers[0] = %+v", first)
	}
	if first.SalaryStructure != "Standard" || first.StructureMode != "overwrite" {
		t.Errorf("offers[0] structure = %q mode = %q", first.SalaryStructure, first.StructureMode)
	}
	if first.Base != salary.NewAmount(100000) {
		t.Errorf("offers[0] base = %v", first.Base)
	}
	second := config.Offers[1]
	if second.Base != salary.TextAmount("₹ 40,000.00") {
		t.Errorf("offers[1] base = %v", second.Base)
	}
	if len(second.Earnings) != 2 || second.Earnings[1].Amount != salary.TextAmount("5,000") {
		t.Errorf("offers[1] earnings = %+v", second.Earnings)
	}
}

func TestLoadConfigurationFromReaderErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{"Invalid YAML", "offers: [", "error reading config"},
		{"Invalid output format", "output:\n  format: html\n", "expected output format"},
		{"Invalid structure mode", "offers:\n  - name: X\n    structureMode: merge\n", "expected structure mode"},
		{"Structure without name", "structures:\n  - earnings: []\n", "invalid configuration"},
		{"Row without component or abbreviation", "offers:\n  - name: X\n    earnings:\n      - formula: base\n", "invalid configuration"},
		{"Amount list", "offers:\n  - name: X\n    base: [1, 2]\n", "unable to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatalf("LoadConfigurationFromReader() expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %v, expected it to contain %q", err, tt.contains)
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader("offers:\n  - name: X\n    structureMode: \" Append \"\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("default output format = %q", config.Output.Format)
	}
	if config.Offers[0].StructureMode != "append" {
		t.Errorf("structure mode = %q, expected append", config.Offers[0].StructureMode)
	}
}

func TestValidateConfiguration(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	today := datetime.MustParseDate("2026-10-18")
	if warnings := config.ValidateConfigurationAt(today); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	config.Offers = append(config.Offers,
		offer.JobOffer{Name: "Unknown", SalaryStructure: "Contractor", StructureMode: "overwrite"},
		offer.JobOffer{Name: "Cycle", Document: salary.Document{Earnings: []salary.Row{
			{SalaryComponent: "A", Abbr: "A", Formula: "B"},
			{SalaryComponent: "B", Abbr: "B", Formula: "A"},
			{SalaryComponent: "Tax", Abbr: "TX", Formula: "base = 1"},
		}}},
		offer.JobOffer{Name: "Ignored", SalaryStructure: "Contractor"},
		offer.JobOffer{Name: "Late", OfferDate: "2030-01-01", Currency: "Rupees", Document: salary.Document{
			Earnings: []salary.Row{{SalaryComponent: "Basic", Abbr: "B", Formula: "base*0.5"}},
		}},
	)

	warnings := config.ValidateConfigurationAt(today)
	expected := []string{
		"Job offer 'Unknown' references unknown salary structure 'Contractor'",
		"Job offer 'Cycle': formula for 'TX' is not supported",
		"Job offer 'Cycle': formulas form a cycle and will stay at zero (A -> B -> A)",
		"Job offer 'Late' is dated 2030-01-01",
		"Job offer 'Late' has currency 'Rupees'",
		"Job offer 'Late' has no base salary",
	}
	if len(warnings) != len(expected) {
		t.Fatalf("ValidateConfiguration() = %v, expected %d warnings", warnings, len(expected))
	}
	for i := range expected {
		if !strings.HasPrefix(warnings[i], expected[i]) {
			t.Errorf("warning %d = %q, expected prefix %q", i, warnings[i], expected[i])
		}
	}
}

func TestConfiguredOffersPrepare(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	svc := offer.NewService(zap.NewNop(), structure.NewCatalog(config.Structures))
	prepared, err := svc.PrepareAll(context.Background(), config.Offers, offer.Options{})
	if err != nil {
		t.Fatalf("PrepareAll() error = %v", err)
	}

	tests := []struct {
		name     string
		rows     []salary.Row
		index    int
		expected float64
	}{
		{"Basic", prepared[0].Offer.Earnings, 0, 50000},
		{"House rent", prepared[0].Offer.Earnings, 1, 20000},
		{"Conveyance kept", prepared[0].Offer.Earnings, 2, 1600},
		{"Special allowance", prepared[0].Offer.Earnings, 3, 28400},
		{"Provident fund capped", prepared[0].Offer.Deductions, 0, 1800},
		{"Professional tax", prepared[0].Offer.Deductions, 1, 200},
		{"Employer provident fund", prepared[0].Offer.Deductions, 2, 1800},
		{"Formatted base", prepared[1].Offer.Earnings, 0, 24000},
		{"Formatted amount kept", prepared[1].Offer.Earnings, 1, 5000},
		{"Second offer provident fund", prepared[1].Offer.Deductions, 0, 2880},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rows[tt.index].Amount.Float(); got != tt.expected {
				t.Errorf("amount = %v, expected %v", got, tt.expected)
			}
		})
	}

	totals := prepared[0].Summary.Totals
	if totals.Gross.Monthly != 100000 || totals.Deductions.Monthly != 2000 || totals.CTC.Annual != 1221600 {
		t.Errorf("totals = %+v", totals)
	}
	if prepared[0].CTCInWords != "INR Twelve Lakh Twenty One Thousand Six Hundred only." {
		t.Errorf("CTC in words = %q", prepared[0].CTCInWords)
	}
}
