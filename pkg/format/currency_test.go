package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		symbol   string
		expected string
	}{
		{"Small", 12.5, "$", "$12.50"},
		{"Thousands", 1234.56, "$", "$1,234.56"},
		{"Millions", 1234567.891, "$", "$1,234,567.89"},
		{"Negative", -1234.5, "$", "-$1,234.50"},
		{"Zero", 0, "$", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, tt.symbol); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestIndianCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Hundreds", 999, "₹999.00"},
		{"Thousands", 1000, "₹1,000.00"},
		{"Lakh", 100000, "₹1,00,000.00"},
		{"Crore", 12345678.9, "₹1,23,45,678.90"},
		{"Negative", -250000, "-₹2,50,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndianCurrency(tt.amount, "₹"); got != tt.expected {
				t.Errorf("IndianCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestForCurrency(t *testing.T) {
	if got := ForCurrency(150000, "inr"); got != "₹1,50,000.00" {
		t.Errorf("ForCurrency(INR) = %q", got)
	}
	if got := ForCurrency(150000, "USD"); got != "$150,000.00" {
		t.Errorf("ForCurrency(USD) = %q", got)
	}
	if got := ForCurrency(10, "AED"); got != "AED 10.00" {
		t.Errorf("ForCurrency(AED) = %q", got)
	}
}
