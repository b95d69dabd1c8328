package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BitBool is a boolean column that may be stored as BIT(1), TINYINT or a
// native boolean. Drivers hand BIT columns back as raw byte sequences; Scan
// folds every representation into a real bool so rows serialize as true/false.
type BitBool bool

func (b *BitBool) Scan(src any) error {
	v, ok := NormalizeBool(src)
	if !ok {
		return fmt.Errorf("cannot scan %T into BitBool", src)
	}
	*b = BitBool(v)
	return nil
}

func (b BitBool) Value() (driver.Value, error) { return bool(b), nil }

// UnmarshalJSON accepts true/false as well as the 0/1 integers older clients send.
func (b *BitBool) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*b = false
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if f, ok := v.(float64); ok {
		*b = f != 0
		return nil
	}
	norm, ok := NormalizeBool(v)
	if !ok {
		return fmt.Errorf("invalid boolean %s", string(raw))
	}
	*b = BitBool(norm)
	return nil
}

// NormalizeBool converts a driver value into a bool. ASCII digits and textual
// booleans are read as text-protocol results; any other byte sequence is a
// BIT column and is true only when its first byte is 1. ok is false for
// values that carry no boolean meaning.
func NormalizeBool(src any) (value bool, ok bool) {
	switch v := src.(type) {
	case nil:
		return false, true
	case bool:
		return v, true
	case BitBool:
		return bool(v), true
	case []byte:
		if len(v) == 0 {
			return false, true
		}
		if v[0] == 0 || v[0] == 1 {
			return v[0] == 1, true
		}
		if b, ok := parseBoolText(string(v)); ok {
			return b, true
		}
		return v[0] == 1, true
	case string:
		return parseBoolText(v)
	case int64:
		return v != 0, true
	case int:
		return v != 0, true
	case int32:
		return v != 0, true
	case uint8:
		return v != 0, true
	case float64:
		return v != 0, true
	}
	return false, false
}

func parseBoolText(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n != 0, true
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v, true
	}
	return false, false
}
