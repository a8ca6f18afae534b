package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ArgumentError reports an invalid or missing command-line argument.
// It is raised before any network action is taken.
type ArgumentError struct {
	Arg    string // argument name, e.g. "port"
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Arg, e.Reason)
	}
	return fmt.Sprintf("%q is an invalid %s: %s", e.Value, e.Arg, e.Reason)
}

// ParsePort validates a UDP port argument.
func ParsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > math.MaxUint16 {
		return 0, &ArgumentError{
			Arg:    "port",
			Value:  s,
			Reason: fmt.Sprintf("port must be a positive integer between 1 and %d", math.MaxUint16),
		}
	}
	return port, nil
}

// ParseCounter validates a sequence counter argument. Any signed 16-bit
// value is accepted, negatives included.
func ParseCounter(s string) (int16, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return 0, &ArgumentError{
			Arg:    "counter",
			Value:  s,
			Reason: fmt.Sprintf("counter must be an integer between %d and %d", math.MinInt16, math.MaxInt16),
		}
	}
	return int16(n), nil
}
