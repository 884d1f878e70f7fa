package diagnostic

import (
	"fmt"
	"strings"
)

// Status is the severity of a diagnostic, ordered OK < WARNING < ERROR < FAIL.
type Status int

const (
	// StatusOK means nothing to report.
	StatusOK Status = iota
	// StatusWarning marks a problem that does not affect the output.
	StatusWarning
	// StatusError marks a reported, recoverable model problem.
	StatusError
	// StatusFail marks an unrecoverable abort, e.g. an I/O failure during generation.
	StatusFail
)

// String returns the upper-case status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusError:
		return "ERROR"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OK":
		return StatusOK, nil
	case "WARNING", "WARN":
		return StatusWarning, nil
	case "ERROR":
		return StatusError, nil
	case "FAIL":
		return StatusFail, nil
	default:
		return StatusOK, fmt.Errorf("unknown diagnostic status %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Max returns the more severe of two statuses.
func Max(a, b Status) Status {
	if a > b {
		return a
	}
	return b
}
