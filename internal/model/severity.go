// Package model defines the request values handed to UI capabilities.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Urgency levels matching the freedesktop notification spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// Severity is the visual category of a notification.
type Severity int

const (
	// SeverityNone is a neutral notice.
	SeverityNone Severity = iota
	SeverityInfo
	SeveritySuccess
	SeverityError
)

// ErrInvalidSeverity is returned when a severity name is not recognised.
var ErrInvalidSeverity = errors.New("severity must be one of none, info, success, error")

var severityNames = map[Severity]string{
	SeverityNone:    "",
	SeverityInfo:    "info",
	SeveritySuccess: "success",
	SeverityError:   "error",
}

var severityTitles = map[Severity]string{
	SeverityNone:    "Notice",
	SeverityInfo:    "Info",
	SeveritySuccess: "Success",
	SeverityError:   "Error",
}

// Severities lists every severity in display order.
func Severities() []Severity {
	return []Severity{SeverityNone, SeverityInfo, SeveritySuccess, SeverityError}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

// Name returns the wire name of the severity. The neutral severity has
// no name, matching a toast request without a type.
func (s Severity) Name() string {
	return severityNames[s]
}

// String returns a printable name; the neutral severity prints as "none".
func (s Severity) String() string {
	if s == SeverityNone {
		return "none"
	}
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Title returns the fixed toast title for the severity.
func (s Severity) Title() string {
	return severityTitles[s]
}

// Urgency maps the severity to a freedesktop urgency level.
func (s Severity) Urgency() int {
	switch s {
	case SeverityInfo:
		return UrgencyLow
	case SeverityError:
		return UrgencyCritical
	default:
		return UrgencyNormal
	}
}

// IconName returns the freedesktop icon name used for the severity.
func (s Severity) IconName() string {
	switch s {
	case SeverityInfo:
		return "dialog-information"
	case SeveritySuccess:
		return "emblem-ok-symbolic"
	case SeverityError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}

// ParseSeverity parses a severity name. The empty string, "none" and
// "notice" all select the neutral severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "notice":
		return SeverityNone, nil
	case "info":
		return SeverityInfo, nil
	case "success":
		return SeveritySuccess, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityNone, fmt.Errorf("%w: %q", ErrInvalidSeverity, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeverity, int(s))
	}
	return []byte(s.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
