package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal arguments are bounded so a single value cannot force huge expansions
// when it is rounded, logged or formatted.
const (
	maxDecimalExponent = 15
	minDecimalExponent = -30
	maxDecimalDigits   = 40
)

// Args are the raw arguments of one tool call. Values arrive either decoded
// from JSON (float64, bool, string) or as strings from the command line.
type Args map[string]any

// Has reports whether key is present with a non-empty value.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String returns the value for key as a trimmed string, or def when absent.
func (a Args) String(key, def string) string {
	if !a.Has(key) {
		return def
	}
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

// Decimal returns the value for key as a decimal, or nil when absent.
func (a Args) Decimal(key string) (*decimal.Decimal, error) {
	if !a.Has(key) {
		return nil, nil
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch v := a[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalid(key, "must be a finite number")
		}
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case decimal.Decimal:
		d = v
	default:
		return nil, invalid(key, "must be a number")
	}
	if err != nil {
		return nil, invalid(key, "must be a number")
	}
	if !decimalInRange(d) {
		return nil, invalid(key, "is out of range")
	}
	return &d, nil
}

func decimalInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxDecimalExponent || exp < minDecimalExponent {
		return false
	}
	return len(d.Abs().Coefficient().String()) <= maxDecimalDigits
}

// Int returns the value for key as an integer, or def when absent.
func (a Args) Int(key string, def int) (int, error) {
	if !a.Has(key) {
		return def, nil
	}
	switch v := a[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, invalid(key, "must be a whole number")
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, invalid(key, "must be a whole number")
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalid(key, "must be a whole number")
		}
		return n, nil
	default:
		return 0, invalid(key, "must be a whole number")
	}
}

// Bool returns the value for key as a boolean, or def when absent.
func (a Args) Bool(key string, def bool) (bool, error) {
	if !a.Has(key) {
		return def, nil
	}
	switch v := a[key].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalid(key, "must be true or false")
		}
		return b, nil
	default:
		return false, invalid(key, "must be true or false")
	}
}

// Safe returns a copy of a without values whose keys look like credentials.
func (a Args) Safe() map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for k, v := range a {
		if sensitiveKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func sensitiveKey(k string) bool {
	k = strings.ToLower(k)
	switch {
	case k == "key", k == "password", k == "token":
		return true
	case strings.HasSuffix(k, "_key"), strings.Contains(k, "secret"), strings.Contains(k, "token"), strings.Contains(k, "password"):
		return true
	}
	return false
}
