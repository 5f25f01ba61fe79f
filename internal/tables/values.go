package tables

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errMissing    = errors.New("value is required")
	errNotInteger = errors.New("not an integer")
	errNotNumber  = errors.New("not a number")
)

// intCell decodes an integer cell. Empty strings and NULL are absent.
func intCell(v any) (int64, bool, error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return t, true, nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false, fmt.Errorf("%w: %v", errNotInteger, t)
		}
		return int64(t), true, nil
	case []byte:
		return intCell(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", errNotInteger, s)
		}
		return intCell(f)
	default:
		return 0, false, fmt.Errorf("%w: unsupported %T", errNotInteger, v)
	}
}

// floatCell decodes a numeric cell. Empty strings and NULL are absent.
func floatCell(v any) (float64, bool, error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return float64(t), true, nil
	case float64:
		return t, true, nil
	case []byte:
		return floatCell(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", errNotNumber, s)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("%w: unsupported %T", errNotNumber, v)
	}
}

// stringCell renders a cell as trimmed text; NULL becomes "".
func stringCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func requiredInt(v any) (int64, error) {
	n, ok, err := intCell(v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errMissing
	}
	return n, nil
}

func requiredFloat(v any) (float64, error) {
	f, ok, err := floatCell(v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errMissing
	}
	return f, nil
}

func optionalInt(v any) (*int, error) {
	n, ok, err := intCell(v)
	if err != nil || !ok {
		return nil, err
	}
	value := int(n)
	return &value, nil
}

func optionalFloat(v any) (*float64, error) {
	f, ok, err := floatCell(v)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

// optionalBool decodes booleans as SQLite stores them (0/1), plus the
// textual forms a CSV round-trip can produce.
func optionalBool(v any) (*bool, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return &t, nil
	case int64:
		b := t != 0
		return &b, nil
	case float64:
		b := t != 0
		return &b, nil
	case []byte:
		return optionalBool(string(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", s)
		}
		return &b, nil
	default:
		return nil, fmt.Errorf("not a boolean: unsupported %T", v)
	}
}
