package datetime

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		expectErr bool
	}{
		{name: "Valid date", input: "2026-10-01", expected: "2026-10-01"},
		{name: "Surrounding whitespace", input: " 2026-02-28 ", expected: "2026-02-28"},
		{name: "Month only", input: "2026-10", expectErr: true},
		{name: "Day first", input: "01-10-2026", expectErr: true},
		{name: "Impossible day", input: "2026-02-30", expectErr: true},
		{name: "Empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if got.Format(DateLayout) != tt.expected {
				t.Errorf("ParseDate(%q) = %s, expected %s", tt.input, got.Format(DateLayout), tt.expected)
			}
		})
	}
}

func TestMustParseDatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("MustParseDate did not panic on invalid input")
		}
	}()
	MustParseDate("invalid")
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		second   string
		expected int
	}{
		{"Same day", "2026-10-01", "2026-10-01", 0},
		{"Whole months", "2026-01-15", "2026-04-15", 3},
		{"Partial month", "2026-01-15", "2026-04-14", 2},
		{"Across years", "2025-11-01", "2026-02-01", 3},
		{"Backwards", "2026-04-15", "2026-01-15", -3},
		{"Backwards partial", "2026-04-14", "2026-01-15", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthsBetween(MustParseDate(tt.first), MustParseDate(tt.second))
			if got != tt.expected {
				t.Errorf("MonthsBetween(%s, %s) = %d, expected %d", tt.first, tt.second, got, tt.expected)
			}
		})
	}

	if got := MonthsBetween(time.Time{}, time.Time{}); got != 0 {
		t.Errorf("MonthsBetween(zero, zero) = %d", got)
	}
}
