package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LooseNumber accepts a JSON number, a numeric string or null. Missing and
// null values read as zero; Present records whether the key was sent at all.
type LooseNumber struct {
	Present bool
	Value   decimal.Decimal
}

// NewLooseNumber builds a present value, mostly for tests and internal callers.
func NewLooseNumber(v decimal.Decimal) LooseNumber {
	return LooseNumber{Present: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	n.Present = true
	n.Value = decimal.Zero
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		raw = s
	}

	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid number %s", string(trimmed))
	}
	n.Value = parsed
	return nil
}

// MarshalJSON renders the value as a plain JSON number.
func (n LooseNumber) MarshalJSON() ([]byte, error) {
	return []byte(n.Value.String()), nil
}

// Decimal returns the parsed value (zero when absent).
func (n LooseNumber) Decimal() decimal.Decimal {
	return n.Value
}

// Int64 returns the value as an integer, failing on fractional input.
func (n LooseNumber) Int64() (int64, error) {
	if !n.Value.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number", n.Value.String())
	}
	return n.Value.IntPart(), nil
}

// Float64 returns the value as a float, the shape legacy payloads expect.
func (n LooseNumber) Float64() float64 {
	f, _ := n.Value.Float64()
	return f
}
