package salary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flag is a Frappe check field. Frappe sends checks as 0/1; configuration
// files tend to use true/false. Both decode.
type Flag bool

// MarshalJSON writes the flag the way Frappe does, as 0 or 1.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts booleans, numbers, numeric strings and null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = false
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	parsed, err := parseFlag(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalYAML accepts the same spellings as UnmarshalJSON.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*f = false
		return nil
	}
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseFlag(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*f = parsed
	return nil
}

func parseFlag(raw interface{}) (Flag, error) {
	switch v := raw.(type) {
	case bool:
		return Flag(v), nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, nil
		}
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return Flag(b), nil
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n != 0, nil
		}
		return false, fmt.Errorf("invalid check value %q", v)
	}
	return false, fmt.Errorf("invalid check value %v", raw)
}
