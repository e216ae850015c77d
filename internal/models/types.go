package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount that serializes as a string with exactly two
// fraction digits, e.g. "1299.90".
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{Decimal: d} }

// MustMoney parses s and panics when it is not a number.
func MustMoney(s string) Money { return Money{Decimal: decimal.RequireFromString(s)} }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// StringList is an ordered list stored as a JSON column.
type StringList []string

func (StringList) GormDataType() string { return "json" }

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	out := StringList{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = out
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// StringMap is a flat string to string object stored as a JSON column.
type StringMap map[string]string

func (StringMap) GormDataType() string { return "json" }

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *StringMap) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan string map: %w", err)
	}
	if len(raw) == 0 {
		*m = StringMap{}
		return nil
	}
	out := StringMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string map: %w", err)
	}
	*m = out
	return nil
}

func (m StringMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(m))
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}
