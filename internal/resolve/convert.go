package resolve

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"schema-bridge/internal/record"
)

var errEncoding = errors.New("bytes schema needs an encoding of hex or base64")

// converterFor returns the converter from lexical XML Schema values to values
// of the scalar read schema s.
func converterFor(s *record.Schema) (Converter, error) {
	switch s.Type {
	case record.TypeNull:
		return func(string) (any, error) { return nil, nil }, nil
	case record.TypeBoolean:
		return parseBoolean, nil
	case record.TypeInt:
		switch s.Logical {
		case record.LogicalDate:
			return parseDate, nil
		case record.LogicalTimeMillis:
			return timeOfDay(time.Millisecond), nil
		default:
			return parseInt, nil
		}
	case record.TypeLong:
		switch s.Logical {
		case record.LogicalTimeMicros:
			return timeOfDay(time.Microsecond), nil
		case record.LogicalTimestampMillis:
			return timestamp(time.Millisecond), nil
		case record.LogicalTimestampMicros:
			return timestamp(time.Microsecond), nil
		default:
			return parseLong, nil
		}
	case record.TypeFloat:
		return func(text string) (any, error) {
			f, err := parseFloat(text, 32)
			return float32(f), err
		}, nil
	case record.TypeDouble:
		return func(text string) (any, error) {
			return parseFloat(text, 64)
		}, nil
	case record.TypeString:
		return func(text string) (any, error) { return text, nil }, nil
	case record.TypeEnum:
		return enumConverter(s), nil
	case record.TypeBytes, record.TypeFixed:
		return bytesConverter(s)
	default:
		return nil, fmt.Errorf("%s is not a scalar", s)
	}
}

func parseBoolean(text string) (any, error) {
	switch strings.TrimSpace(text) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return nil, errors.New("not a boolean")
	}
}

func parseInt(text string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
	return int32(n), err
}

func parseLong(text string) (any, error) {
	return strconv.ParseInt(strings.TrimSpace(text), 10, 64)
}

// parseFloat accepts the xs:float and xs:double lexical forms.
func parseFloat(text string, bits int) (float64, error) {
	switch t := strings.TrimSpace(text); t {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	default:
		return strconv.ParseFloat(t, bits)
	}
}

func decimalConverter(scale int) Converter {
	return func(text string) (any, error) {
		d, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}

		return d.Round(int32(scale)), nil
	}
}

func enumConverter(s *record.Schema) Converter {
	return func(text string) (any, error) {
		sym := strings.TrimSpace(text)

		for _, candidate := range s.Symbols {
			if candidate == sym {
				return sym, nil
			}
		}

		if s.Default != "" {
			return s.Default, nil
		}

		return nil, fmt.Errorf("%q is not a symbol of %s", sym, s.FullName())
	}
}

func bytesConverter(s *record.Schema) (Converter, error) {
	if s.Logical == record.LogicalDecimal {
		return decimalConverter(s.Scale), nil
	}

	var decode func(string) ([]byte, error)

	switch s.Encoding {
	case record.EncodingHex:
		decode = hex.DecodeString
	case record.EncodingBase64:
		decode = base64.StdEncoding.DecodeString
	default:
		return nil, errEncoding
	}

	return func(text string) (any, error) {
		b, err := decode(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, err
		}

		if s.Type == record.TypeFixed && len(b) != s.Size {
			return nil, fmt.Errorf("fixed %s needs %d bytes, got %d", s.FullName(), s.Size, len(b))
		}

		return b, nil
	}, nil
}

// Lexical layouts of dates and times, with and without a time zone.
var (
	dateLayouts     = []string{"2006-01-02Z07:00", "2006-01-02"}
	dateTimeLayouts = []string{"2006-01-02T15:04:05.999999999Z07:00", "2006-01-02T15:04:05.999999999"}
	timeLayouts     = []string{"15:04:05.999999999Z07:00", "15:04:05.999999999"}
)

func parseLayouts(text string, layouts []string) (time.Time, error) {
	text = strings.TrimSpace(text)

	var err error

	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, text); err == nil {
			return t, nil
		}
	}

	return time.Time{}, err
}

func parseDate(text string) (any, error) {
	t, err := parseLayouts(text, dateLayouts)
	if err != nil {
		return nil, err
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// timestamp parses an xs:dateTime, converts it to UTC and truncates it to
// unit. Values without a time zone are taken as UTC.
func timestamp(unit time.Duration) Converter {
	return func(text string) (any, error) {
		t, err := parseLayouts(text, dateTimeLayouts)
		if err != nil {
			return nil, err
		}

		return t.UTC().Truncate(unit), nil
	}
}

// timeOfDay parses an xs:time into the duration since midnight. A time zone
// offset is ignored.
func timeOfDay(unit time.Duration) Converter {
	return func(text string) (any, error) {
		t, err := parseLayouts(text, timeLayouts)
		if err != nil {
			return nil, err
		}

		d := time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second +
			time.Duration(t.Nanosecond())

		return d.Truncate(unit), nil
	}
}
