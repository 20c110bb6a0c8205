// Package output renders capability requests as text for the stdout backend.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/cardui/internal/model"
)

// Formatter formats capability events for output.
type Formatter interface {
	// Format writes one formatted event to the writer.
	Format(w io.Writer, e Event) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// Event kinds.
const (
	KindToast     = "toast"
	KindImage     = "image"
	KindDialog    = "dialog"
	KindCountdown = "countdown"
	KindPopover   = "popover"
)

// Event is one capability request as seen by the stdout backend.
// Exactly one of the payload fields is set, matching Kind.
type Event struct {
	Kind      string                     `json:"kind" yaml:"kind"`
	At        time.Time                  `json:"at" yaml:"at"`
	Toast     *model.NotificationRequest `json:"toast,omitempty" yaml:"toast,omitempty"`
	Image     *ImagePayload              `json:"image,omitempty" yaml:"image,omitempty"`
	Dialog    *DialogChange              `json:"dialog,omitempty" yaml:"dialog,omitempty"`
	Countdown *model.CountdownRequest    `json:"countdown,omitempty" yaml:"countdown,omitempty"`
	Popover   *model.PopoverRequest      `json:"popover,omitempty" yaml:"popover,omitempty"`
}

// ImagePayload is an image notification with its rendered body.
type ImagePayload struct {
	model.ImageNotificationRequest `yaml:",inline"`
	Body                           string `json:"body" yaml:"body"`
}

// DialogChange records a dialog transition.
type DialogChange struct {
	Name  string            `json:"name" yaml:"name"`
	State model.DialogState `json:"state" yaml:"state"`
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatPlain, "":
		return NewPlainFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for plain format
	ShowTime   bool   // Show relative time
	BodyMaxLen int    // Maximum message length (0 = unlimited)
	Compact    bool   // Single-line JSON
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowTime:   true,
		BodyMaxLen: 120,
	}
}
