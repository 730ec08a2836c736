package infer

import (
	"fmt"

	"github.com/rs/zerolog"

	"schema-bridge/internal/model"
)

// TimePrecision selects the model kinds used for xs:dateTime and xs:time.
type TimePrecision int

const (
	Millis TimePrecision = iota
	Micros
)

// ParseTimePrecision parses "millis" or "micros". The empty string selects
// Millis.
func ParseTimePrecision(s string) (TimePrecision, error) {
	switch s {
	case "", "millis":
		return Millis, nil
	case "micros":
		return Micros, nil
	default:
		return Millis, fmt.Errorf("unknown time precision %q", s)
	}
}

// Config holds configuration for building a type model.
type Config struct {
	// MaxNameSuffix bounds the numeric suffixes tried on name collisions.
	MaxNameSuffix int
	// TimePrecision selects millisecond or microsecond temporal kinds.
	TimePrecision TimePrecision
	// Documentation copies schema annotations into the model.
	Documentation bool
	// Logger receives debug and warning events.
	Logger zerolog.Logger
}

// DefaultConfig returns the default build configuration.
func DefaultConfig() Config {
	return Config{
		MaxNameSuffix: model.DefaultMaxSuffix,
		TimePrecision: Millis,
		Documentation: true,
		Logger:        zerolog.Nop(),
	}
}

func (c Config) dateTime() model.FixedType {
	if c.TimePrecision == Micros {
		return model.DateTimeMicrosType
	}

	return model.DateTimeType
}

func (c Config) time() model.FixedType {
	if c.TimePrecision == Micros {
		return model.TimeMicrosType
	}

	return model.TimeType
}
