package salary

import (
	"encoding/json"
	"testing"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Plain integer", "1500", 1500},
		{"Decimal", "1500.75", 1500.75},
		{"Western separators", "1,234,567.89", 1234567.89},
		{"Indian separators", "1,00,000.00", 100000},
		{"Rupee symbol", "₹ 25,000", 25000},
		{"Dollar symbol", "$12.50", 12.5},
		{"Negative", "-250", -250},
		{"Leading decimal point", ".5", 0.5},
		{"Trailing decimal point", "7.", 7},
		{"Second decimal point stops parsing", "1.2.3", 1.2},
		{"Inner minus stops parsing", "10-5", 10},
		{"Only minus", "-", 0},
		{"Double minus", "--5", 0},
		{"Letters only", "abc", 0},
		{"Empty", "", 0},
		{"Plus sign dropped", "+42", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Numeric(tt.input); got != tt.expected {
				t.Errorf("Numeric(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAmountIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		amount   Amount
		expected bool
	}{
		{"Absent", Amount{}, true},
		{"Zero", NewAmount(0), true},
		{"Positive", NewAmount(0.01), false},
		{"Negative", NewAmount(-5), false},
		{"Empty text", TextAmount(""), true},
		{"Whitespace text", TextAmount("  "), true},
		{"Formatted zero", TextAmount("₹ 0.00"), true},
		{"Formatted value", TextAmount("₹ 10.00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.IsBlank(); got != tt.expected {
				t.Errorf("IsBlank(%v) = %v, expected %v", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestAmountJSON(t *testing.T) {
	var rows []struct {
		Amount Amount `json:"amount"`
	}
	payload := `[{"amount": null}, {"amount": 1500.5}, {"amount": "₹ 2,000"}, {}]`
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if rows[0].Amount.IsSet() || rows[3].Amount.IsSet() {
		t.Errorf("null and missing amounts should be absent")
	}
	if rows[1].Amount != NewAmount(1500.5) {
		t.Errorf("numeric amount = %v", rows[1].Amount)
	}
	if rows[2].Amount != TextAmount("₹ 2,000") {
		t.Errorf("text amount = %v", rows[2].Amount)
	}

	out, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	expected := `[{"amount":null},{"amount":1500.5},{"amount":"₹ 2,000"},{"amount":null}]`
	if string(out) != expected {
		t.Errorf("Marshal() = %s, expected %s", out, expected)
	}

	var bad Amount
	if err := json.Unmarshal([]byte(`{"x": 1}`), &bad); err == nil {
		t.Errorf("expected error for object amount")
	}
}

func TestAmountYAML(t *testing.T) {
	var doc struct {
		A Amount `yaml:"a"`
		B Amount `yaml:"b"`
		C Amount `yaml:"c"`
		D Amount `yaml:"d"`
	}
	if err := yaml.Unmarshal([]byte("a: 100\nb: 12.5\nc: \"1,000\"\nd: null\n"), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.A != NewAmount(100) || doc.B != NewAmount(12.5) {
		t.Errorf("numeric amounts = %v, %v", doc.A, doc.B)
	}
	if doc.C != TextAmount("1,000") {
		t.Errorf("text amount = %v", doc.C)
	}
	if doc.D.IsSet() {
		t.Errorf("null amount should be absent")
	}

	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &doc); err == nil {
		t.Errorf("expected error for sequence amount")
	}
}

func TestAmountDecodeHook(t *testing.T) {
	input := map[string]interface{}{
		"base": 50000,
		"earnings": []interface{}{
			map[string]interface{}{"abbr": "B", "amount": "1,000", "formula": "base*0.5"},
			map[string]interface{}{"abbr": "CA", "amount": 12.5, "doNotIncludeInTotal": 1},
			map[string]interface{}{"abbr": "EA"},
		},
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       AmountDecodeHook(),
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	if err := decoder.Decode(input); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if doc.Base != NewAmount(50000) {
		t.Errorf("base = %v", doc.Base)
	}
	if doc.Earnings[0].Amount != TextAmount("1,000") || doc.Earnings[0].Formula != "base*0.5" {
		t.Errorf("row 0 = %+v", doc.Earnings[0])
	}
	if doc.Earnings[1].Amount != NewAmount(12.5) || !bool(doc.Earnings[1].DoNotIncludeInTotal) {
		t.Errorf("row 1 = %+v", doc.Earnings[1])
	}
	if doc.Earnings[2].Amount.IsSet() {
		t.Errorf("row 2 amount should be absent, got %v", doc.Earnings[2].Amount)
	}
}

func TestFlagJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected Flag
	}{
		{"1", true},
		{"0", false},
		{"true", true},
		{"false", false},
		{`"1"`, true},
		{`"yes"`, false},
		{"null", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.input == `"yes"` {
				if err == nil {
					t.Errorf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if f != tt.expected {
				t.Errorf("Unmarshal(%s) = %v, expected %v", tt.input, f, tt.expected)
			}
		})
	}

	out, err := json.Marshal(struct{ F, G Flag }{true, false})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"F":1,"G":0}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestFlagYAML(t *testing.T) {
	var doc struct {
		A Flag `yaml:"a"`
		B Flag `yaml:"b"`
		C Flag `yaml:"c"`
	}
	if err := yaml.Unmarshal([]byte("a: 1\nb: true\nc: 0\n"), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !doc.A || !doc.B || doc.C {
		t.Errorf("flags = %+v", doc)
	}
}
