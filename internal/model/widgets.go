package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DialogState is the visibility of a named dialog.
type DialogState int

const (
	// DialogHidden is the initial state of every dialog.
	DialogHidden DialogState = iota
	DialogVisible
)

// DefaultDialogName identifies the confirmation dialog.
const DefaultDialogName = "confirmation"

// String returns "hidden" or "visible".
func (s DialogState) String() string {
	if s == DialogVisible {
		return "visible"
	}
	return "hidden"
}

// MarshalText implements encoding.TextMarshaler.
func (s DialogState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Countdown defaults.
const (
	DefaultTimeLimit        = 75
	DefaultWarningThreshold = 15
	DefaultCountdownUnit    = time.Second

	DefaultNormalStyle   = "progress-bar-success"
	DefaultWarningStyle  = "progress-bar-warning"
	DefaultCompleteStyle = "progress-bar-danger"
)

// CountdownPhase is the visual state of a countdown indicator.
type CountdownPhase int

const (
	PhaseNormal CountdownPhase = iota
	PhaseWarning
	PhaseComplete
)

// String returns the phase name.
func (p CountdownPhase) String() string {
	switch p {
	case PhaseWarning:
		return "warning"
	case PhaseComplete:
		return "complete"
	default:
		return "normal"
	}
}

// CountdownRequest initialises a progress indicator. The capability that
// receives it owns all timing.
type CountdownRequest struct {
	TimeLimit        int           `json:"time_limit" yaml:"time_limit"`
	WarningThreshold int           `json:"warning_threshold" yaml:"warning_threshold"`
	Unit             time.Duration `json:"unit" yaml:"unit"`
	NormalStyle      string        `json:"normal_style" yaml:"normal_style"`
	WarningStyle     string        `json:"warning_style" yaml:"warning_style"`
	CompleteStyle    string        `json:"complete_style" yaml:"complete_style"`
}

// DefaultCountdown returns the 75 unit countdown with a warning at 15.
func DefaultCountdown() CountdownRequest {
	return CountdownRequest{
		TimeLimit:        DefaultTimeLimit,
		WarningThreshold: DefaultWarningThreshold,
		Unit:             DefaultCountdownUnit,
		NormalStyle:      DefaultNormalStyle,
		WarningStyle:     DefaultWarningStyle,
		CompleteStyle:    DefaultCompleteStyle,
	}
}

// ErrInvalidCountdown is returned for a countdown that cannot be rendered.
var ErrInvalidCountdown = errors.New("invalid countdown")

// Validate checks the limit and threshold.
func (c CountdownRequest) Validate() error {
	if c.TimeLimit <= 0 {
		return fmt.Errorf("%w: time limit must be positive, got %d", ErrInvalidCountdown, c.TimeLimit)
	}
	if c.WarningThreshold < 0 || c.WarningThreshold > c.TimeLimit {
		return fmt.Errorf("%w: warning threshold %d outside 0..%d", ErrInvalidCountdown, c.WarningThreshold, c.TimeLimit)
	}
	return nil
}

// Phase returns the phase for the given number of remaining units.
func (c CountdownRequest) Phase(remaining int) CountdownPhase {
	if remaining <= 0 {
		return PhaseComplete
	}
	if remaining <= c.WarningThreshold {
		return PhaseWarning
	}
	return PhaseNormal
}

// Style returns the style identifier for a phase.
func (c CountdownRequest) Style(phase CountdownPhase) string {
	switch phase {
	case PhaseWarning:
		return c.WarningStyle
	case PhaseComplete:
		return c.CompleteStyle
	default:
		return c.NormalStyle
	}
}

// Fraction returns the remaining share of the time limit in [0, 1].
func (c CountdownRequest) Fraction(remaining int) float64 {
	if c.TimeLimit <= 0 || remaining <= 0 {
		return 0
	}
	if remaining >= c.TimeLimit {
		return 1
	}
	return float64(remaining) / float64(c.TimeLimit)
}

// Tick returns the wall-clock length of one unit, defaulting to a second.
func (c CountdownRequest) Tick() time.Duration {
	if c.Unit <= 0 {
		return DefaultCountdownUnit
	}
	return c.Unit
}

// TriggerMode selects the user interaction that opens a popover.
type TriggerMode int

const (
	TriggerFocus TriggerMode = iota
	TriggerClick
)

// ErrInvalidTriggerMode is returned for unknown trigger mode names.
var ErrInvalidTriggerMode = errors.New("trigger mode must be focus or click")

// String returns "focus" or "click".
func (m TriggerMode) String() string {
	if m == TriggerClick {
		return "click"
	}
	return "focus"
}

// ParseTriggerMode accepts focus, on-focus, click and on-click.
func ParseTriggerMode(name string) (TriggerMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "focus", "on-focus":
		return TriggerFocus, nil
	case "click", "on-click":
		return TriggerClick, nil
	default:
		return TriggerFocus, fmt.Errorf("%w: %q", ErrInvalidTriggerMode, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m TriggerMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TriggerMode) UnmarshalText(text []byte) error {
	parsed, err := ParseTriggerMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Popover defaults.
const (
	DefaultPopoverSelector = `[data-toggle="popover"]`
	DefaultImageAttribute  = "img"
)

// Element is a popover anchor. Data returns a per-element data attribute.
type Element interface {
	Data(name string) string
}

// DataAttrs is an Element backed by a plain map.
type DataAttrs map[string]string

// Data returns the named attribute or "".
func (d DataAttrs) Data(name string) string {
	return d[name]
}

// ContentFunc renders popover content for an element.
type ContentFunc func(el Element) string

// ImageContent renders an <img> whose source is read from attr.
func ImageContent(attr string) ContentFunc {
	return func(el Element) string {
		return `<img src="` + el.Data(attr) + `" />`
	}
}

// PopoverRequest binds popover behavior to every element matching Selector.
type PopoverRequest struct {
	Selector  string      `json:"selector" yaml:"selector"`
	Trigger   TriggerMode `json:"trigger" yaml:"trigger"`
	HTML      bool        `json:"html" yaml:"html"`
	Attribute string      `json:"attribute" yaml:"attribute"`
	Content   ContentFunc `json:"-" yaml:"-"`
}

// Render returns the popover content for el, or "" without a content func.
func (p PopoverRequest) Render(el Element) string {
	if p.Content == nil {
		return ""
	}
	return p.Content(el)
}
