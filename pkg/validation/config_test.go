package validation

import (
	"strings"
	"testing"

	"github.com/fbts/job-offer/pkg/datetime"
)

func TestValidateOfferDate(t *testing.T) {
	today := datetime.MustParseDate("2026-10-18")

	tests := []struct {
		name        string
		date        string
		expectWarn  bool
		expectError bool
	}{
		{
			name:       "Empty date",
			date:       "",
			expectWarn: false,
		},
		{
			name:       "Recent date",
			date:       "2026-10-01",
			expectWarn: false,
		},
		{
			name:       "Exactly a year ahead",
			date:       "2027-10-18",
			expectWarn: false,
		},
		{
			name:       "Far in the future",
			date:       "2028-01-01",
			expectWarn: true,
		},
		{
			name:       "Far in the past",
			date:       "2024-06-30",
			expectWarn: true,
		},
		{
			name:        "Invalid date",
			date:        "01/10/2026",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning, err := ValidateOfferDate("Job offer 'HR-OFF-0001'", tt.date, today)

			if tt.expectError {
				if err == nil {
					t.Errorf("ValidateOfferDate() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateOfferDate() unexpected error = %v", err)
				return
			}

			hasWarning := warning != ""
			if hasWarning != tt.expectWarn {
				t.Errorf("ValidateOfferDate() warning = %q, expected warning %t", warning, tt.expectWarn)
			}
		})
	}

	warning, err := ValidateOfferDate("Job offer 'X'", "1999-01-01", today)
	if err != nil || !strings.Contains(warning, "dated 1999-01-01, more than 12 months from 2026-10-18") {
		t.Errorf("ValidateOfferDate() = %q, %v", warning, err)
	}
}

func TestValidateCurrency(t *testing.T) {
	tests := []struct {
		currency   string
		expectWarn bool
	}{
		{"", false},
		{"INR", false},
		{"usd", false},
		{"RUPEE", true},
		{"₹", true},
		{"U5D", true},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			warning := ValidateCurrency("Job offer 'X'", tt.currency)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateCurrency(%q) = %q, expected warning %t", tt.currency, warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateBase(t *testing.T) {
	if w := ValidateBase("Job offer 'X'", 0, true); w != "Job offer 'X' has no base salary but its formulas reference base" {
		t.Errorf("ValidateBase() = %q", w)
	}
	if w := ValidateBase("Job offer 'X'", 0, false); w != "" {
		t.Errorf("ValidateBase() without base formulas = %q", w)
	}
	if w := ValidateBase("Job offer 'X'", 50000, true); w != "" {
		t.Errorf("ValidateBase() with base = %q", w)
	}
}

func TestConfigValidator_ValidateAll(t *testing.T) {
	validator := &ConfigValidator{
		Today: datetime.MustParseDate("2026-10-18"),
		Offers: []OfferConfig{
			{Name: "Good", OfferDate: "2026-10-01", Currency: "INR", Base: 100000, UsesBase: true},
			{Name: "Bad date", OfferDate: "tomorrow"},
			{Name: "Old", OfferDate: "2020-01-01"},
			{Name: "Bad currency", Currency: "Rupees"},
			{Name: "No base", UsesBase: true},
		},
	}

	warnings := validator.ValidateAll()
	expected := []string{
		"Job offer 'Bad date': invalid date \"tomorrow\": expected YYYY-MM-DD",
		"Job offer 'Old' is dated 2020-01-01, more than 12 months from 2026-10-18",
		"Job offer 'Bad currency' has currency 'Rupees' which is not a three letter code",
		"Job offer 'No base' has no base salary but its formulas reference base",
	}
	if len(warnings) != len(expected) {
		t.Fatalf("ValidateAll() returned %d warnings, expected %d: %v", len(warnings), len(expected), warnings)
	}
	for i := range expected {
		if warnings[i] != expected[i] {
			t.Errorf("warning %d = %q, expected %q", i, warnings[i], expected[i])
		}
	}
}

func TestConfigValidator_EmptyConfiguration(t *testing.T) {
	validator := &ConfigValidator{}
	if warnings := validator.ValidateAll(); len(warnings) != 0 {
		t.Errorf("expected no warnings for empty configuration, got %v", warnings)
	}
}

func TestValidateOfferDateWithoutReference(t *testing.T) {
	warning, err := ValidateOfferDate("Job offer 'X'", "1999-01-01", datetime.MustParseDate("0001-01-01"))
	if err != nil || warning != "" {
		t.Errorf("ValidateOfferDate() without reference = %q, %v", warning, err)
	}
}
