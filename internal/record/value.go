package record

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Epoch is the origin of date and timestamp values.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultValue converts a decoded default into the value representation of s.
func DefaultValue(s *Schema, raw any) (any, error) {
	switch s.Type {
	case TypeNull:
		if raw != nil {
			return nil, fmt.Errorf("expected null, got %v", raw)
		}

		return nil, nil
	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %v", raw)
		}

		return b, nil
	case TypeInt:
		return intDefault(s, raw)
	case TypeLong:
		return longDefault(s, raw)
	case TypeFloat:
		f, err := toFloat64(raw)
		return float32(f), err
	case TypeDouble:
		return toFloat64(raw)
	case TypeString, TypeEnum:
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %v", raw)
		}

		if s.Type == TypeEnum && !slices.Contains(s.Symbols, str) {
			return nil, fmt.Errorf("%q is not a symbol of %s", str, s.FullName())
		}

		return str, nil
	case TypeBytes, TypeFixed:
		return bytesDefault(s, raw)
	case TypeArray:
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected list, got %v", raw)
		}

		out := make([]any, len(list))
		for i, item := range list {
			v, err := DefaultValue(s.Items, item)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	case TypeMap:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected object, got %v", raw)
		}

		out := make(map[string]any, len(m))
		for k, item := range m {
			v, err := DefaultValue(s.Values, item)
			if err != nil {
				return nil, err
			}

			out[k] = v
		}

		return out, nil
	case TypeRecord:
		return recordDefault(s, raw)
	case TypeUnion:
		var errs []error

		for _, b := range s.Branches {
			v, err := DefaultValue(b, raw)
			if err == nil {
				return v, nil
			}

			errs = append(errs, err)
		}

		return nil, fmt.Errorf("no union branch accepts default: %w", errors.Join(errs...))
	default:
		return nil, fmt.Errorf("unsupported schema %s", s)
	}
}

func intDefault(s *Schema, raw any) (any, error) {
	n, err := toInt64(raw)
	if err != nil {
		return nil, err
	}

	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("%d overflows int", n)
	}

	switch s.Logical {
	case LogicalDate:
		return Epoch.AddDate(0, 0, int(n)), nil
	case LogicalTimeMillis:
		return time.Duration(n) * time.Millisecond, nil
	default:
		return int32(n), nil
	}
}

func longDefault(s *Schema, raw any) (any, error) {
	n, err := toInt64(raw)
	if err != nil {
		return nil, err
	}

	switch s.Logical {
	case LogicalTimeMicros:
		return time.Duration(n) * time.Microsecond, nil
	case LogicalTimestampMillis:
		return time.UnixMilli(n).UTC(), nil
	case LogicalTimestampMicros:
		return time.UnixMicro(n).UTC(), nil
	default:
		return n, nil
	}
}

func bytesDefault(s *Schema, raw any) (any, error) {
	if s.Logical == LogicalDecimal {
		var text string

		switch v := raw.(type) {
		case string:
			text = v
		case json.Number:
			text = v.String()
		default:
			text = fmt.Sprint(v)
		}

		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal default %v: %w", raw, err)
		}

		return d.Round(int32(s.Scale)), nil
	}

	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %v", raw)
	}

	// Each code point of a bytes default stands for one byte.
	out := make([]byte, 0, len(str))
	for _, r := range str {
		if r > math.MaxUint8 {
			return nil, fmt.Errorf("code point %U is not a byte", r)
		}

		out = append(out, byte(r))
	}

	if s.Type == TypeFixed && len(out) != s.Size {
		return nil, fmt.Errorf("fixed %s needs %d bytes, got %d", s.FullName(), s.Size, len(out))
	}

	return out, nil
}

func recordDefault(s *Schema, raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %v", raw)
	}

	rec := NewRecord(s)

	for _, f := range s.Fields {
		item, present := m[f.Name]

		switch {
		case present:
			v, err := DefaultValue(f.Type, item)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}

			rec.Set(f.Pos, v)
		case f.HasDefault:
			rec.Set(f.Pos, f.Default)
		default:
			return nil, fmt.Errorf("field %s has no value", f.Name)
		}
	}

	return rec, nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Int64()
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows long", v)
		}

		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}

		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("expected integer, got %v", raw)
	}
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		// NaN and Infinity are spelled as strings.
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("expected number, got %v", raw)
	}
}
