package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration used by every timeout of the
// Runtime Configuration. It accepts either a bare integer number of seconds
// ("3600") or a Go duration string ("1h", "90s") from environment
// variables, flags, JSON and YAML alike.
type Duration time.Duration

// ParseDuration parses s as seconds when it is an integer and as a Go
// duration string otherwise.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidDuration)
	}

	secs, err := strconv.ParseInt(s, 10, 64)
	switch {
	case err == nil && (secs > maxSeconds || secs < -maxSeconds), errors.Is(err, strconv.ErrRange):
		return 0, fmt.Errorf("%w: %s seconds is out of range", ErrInvalidDuration, s)
	case err == nil:
		return Duration(time.Duration(secs) * time.Second), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is neither seconds nor a duration like 90s or 1h", ErrInvalidDuration, s)
	}

	return Duration(d), nil
}

// maxSeconds is the largest number of seconds a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// fromSeconds converts a fractional number of seconds to a Duration,
// rejecting values that do not fit into a time.Duration.
func fromSeconds(secs float64) (Duration, error) {
	if math.IsNaN(secs) || secs > float64(maxSeconds) || secs < -float64(maxSeconds) {
		return 0, fmt.Errorf("%w: %v seconds is out of range", ErrInvalidDuration, secs)
	}
	return Duration(time.Duration(secs * float64(time.Second))), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalText is used by caarlos0/env for environment variables.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// UnmarshalJSON accepts a number of seconds or a duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		v, err := fromSeconds(value)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("%w: unsupported JSON value %s", ErrInvalidDuration, b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML accepts a scalar number of seconds or a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a scalar", ErrInvalidDuration, value.Line)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// Set implements pflag.Value.
func (d *Duration) Set(s string) error {
	return d.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (d *Duration) Type() string {
	return "duration"
}
