package entity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Source documents are loosely typed. The field types below never fail to
// decode: a value of the wrong shape reads as missing and the normalizer
// applies its default.

// Text is a string field that also accepts numbers and booleans verbatim.
// Objects, arrays and null read as "".
type Text string

func (t *Text) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	*t = ""
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			*t = Text(s)
		}
	case '{', '[', 'n':
	default:
		*t = Text(raw)
	}
	return nil
}

// Count is an integer field that accepts numbers and numeric strings.
// Fractions are truncated; anything else reads as 0.
type Count int

func (c *Count) UnmarshalJSON(raw []byte) error {
	*c = 0
	if d, ok := parseNumber(raw); ok {
		*c = Count(d.IntPart())
	}
	return nil
}

// Fields is a free-form object. Any other JSON shape reads as nil.
type Fields map[string]any

func (f *Fields) UnmarshalJSON(raw []byte) error {
	*f = nil
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		*f = m
	}
	return nil
}

// Amount is a money or percentage field. It is Valid only when the source
// carried a number or a numeric string.
type Amount struct {
	decimal.NullDecimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{decimal.NewNullDecimal(d)}
}

func (a *Amount) UnmarshalJSON(raw []byte) error {
	a.NullDecimal = decimal.NullDecimal{}
	if d, ok := parseNumber(raw); ok {
		a.NullDecimal = decimal.NewNullDecimal(d)
	}
	return nil
}

func parseNumber(raw []byte) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Decimal{}, false
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
