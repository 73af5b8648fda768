package salary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type amountKind uint8

const (
	amountAbsent amountKind = iota
	amountNumber
	amountText
)

// Amount is a component amount as the form layer supplies it: absent, a
// number, or a numeric-like string such as "₹ 1,00,000.00". The zero value
// is absent.
type Amount struct {
	kind amountKind
	num  float64
	text string
}

// NewAmount returns a numeric amount.
func NewAmount(v float64) Amount {
	return Amount{kind: amountNumber, num: v}
}

// TextAmount returns an amount holding the raw text the user or an import
// supplied.
func TextAmount(s string) Amount {
	return Amount{kind: amountText, text: s}
}

// IsSet reports whether the amount is present at all.
func (a Amount) IsSet() bool {
	return a.kind != amountAbsent
}

// IsBlank reports whether the amount counts as not yet computed: absent,
// empty, or numerically zero. Zero is blank so that placeholder rows such as
// "₹ 0.00" are still filled from their formula.
func (a Amount) IsBlank() bool {
	switch a.kind {
	case amountNumber:
		return a.num == 0
	case amountText:
		return strings.TrimSpace(a.text) == "" || Numeric(a.text) == 0
	}
	return true
}

// Float returns the numeric value, coercing text with Numeric.
func (a Amount) Float() float64 {
	switch a.kind {
	case amountNumber:
		return a.num
	case amountText:
		return Numeric(a.text)
	}
	return 0
}

func (a Amount) String() string {
	switch a.kind {
	case amountNumber:
		return strconv.FormatFloat(a.num, 'f', -1, 64)
	case amountText:
		return a.text
	}
	return ""
}

// Numeric coerces a possibly currency-formatted string to a number. Every
// character other than digits, '.' and '-' is dropped, then the longest
// leading decimal number is parsed. Anything unparsable is 0.
func Numeric(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	end := 0
	if end < len(cleaned) && cleaned[end] == '-' {
		end++
	}
	digits := 0
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
		digits++
	}
	if end < len(cleaned) && cleaned[end] == '.' {
		end++
		for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned[:end], 64)
	if err != nil {
		return 0
	}
	return n
}

// MarshalJSON writes absent amounts as null, numbers as numbers and text
// verbatim as a string.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case amountNumber:
		return json.Marshal(a.num)
	case amountText:
		return json.Marshal(a.text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts null, a number or a string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = TextAmount(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("amount must be a number, string or null: %w", err)
	}
	*a = NewAmount(n)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (a Amount) MarshalYAML() (interface{}, error) {
	switch a.kind {
	case amountNumber:
		return a.num, nil
	case amountText:
		return a.text, nil
	}
	return nil, nil
}

// UnmarshalYAML accepts null, an int/float scalar or a string scalar.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!null":
		*a = Amount{}
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*a = NewAmount(n)
	default:
		*a = TextAmount(node.Value)
	}
	return nil
}

var amountType = reflect.TypeOf(Amount{})

// AmountDecodeHook lets mapstructure (and therefore viper) decode numbers
// and strings into Amount fields.
func AmountDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != amountType {
			return data, nil
		}
		switch v := data.(type) {
		case nil:
			return Amount{}, nil
		case Amount:
			return v, nil
		case string:
			return TextAmount(v), nil
		case float64:
			return NewAmount(v), nil
		case float32:
			return NewAmount(float64(v)), nil
		case int:
			return NewAmount(float64(v)), nil
		case int64:
			return NewAmount(float64(v)), nil
		case uint64:
			return NewAmount(float64(v)), nil
		}
		return nil, fmt.Errorf("cannot decode %T into an amount", data)
	}
}
