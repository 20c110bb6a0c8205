// Package input reads scripted UI commands so a sequence of notifications,
// dialogs, countdowns and popovers can be replayed through the facades.
package input

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/ui"
)

// Command kinds.
const (
	KindNotify    = "notify"
	KindImage     = "image"
	KindDialog    = "dialog"
	KindCountdown = "countdown"
	KindPopover   = "popover"
)

// Dialog actions.
const (
	DialogShow = "show"
	DialogHide = "hide"
)

// Command is one scripted facade call.
type Command struct {
	Kind     string         `json:"kind"`
	Severity model.Severity `json:"severity,omitempty"`
	Message  string         `json:"message,omitempty"`  // notify text, image URL, dialog action or popover trigger
	Selector string         `json:"selector,omitempty"` // popover only; empty = configured selector
	Line     int            `json:"-"`                  // source line, 0 for JSON input
}

// Validate checks the arguments a command kind needs.
func (c Command) Validate() error {
	switch c.Kind {
	case KindNotify, "":
		if !c.Severity.Valid() {
			return model.ErrInvalidSeverity
		}
	case KindImage:
		if strings.TrimSpace(c.Message) == "" {
			return model.ErrEmptyImageURL
		}
	case KindDialog:
		switch strings.ToLower(strings.TrimSpace(c.Message)) {
		case DialogShow, DialogHide, "":
		default:
			return fmt.Errorf("dialog action must be show or hide, got %q", c.Message)
		}
	case KindPopover:
		if c.Message != "" {
			if _, err := model.ParseTriggerMode(c.Message); err != nil {
				return err
			}
		}
	case KindCountdown:
	default:
		return fmt.Errorf("unknown command kind %q", c.Kind)
	}
	return nil
}

// InputAdapter fetches commands from a source.
type InputAdapter interface {
	// Name returns the adapter identifier.
	Name() string

	// Import reads every command from the source. Commands that parsed
	// are returned even when some lines did not; those are reported as
	// *LineError values joined into err.
	Import(ctx context.Context) ([]Command, error)
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// LineError reports a command that could not be parsed or run.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// OnlyLineErrors reports whether err consists solely of *LineError values,
// meaning the rest of the input is still usable.
func OnlyLineErrors(err error) bool {
	if err == nil {
		return true
	}
	var lineErr *LineError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !errors.As(e, &lineErr) {
				return false
			}
		}
		return true
	}
	return errors.As(err, &lineErr)
}

// Run dispatches commands through kit in order. A failing command is
// recorded and the replay continues; all failures are returned joined.
// Cancelling ctx stops the replay.
func Run(ctx context.Context, kit *ui.Kit, commands []Command) error {
	var errs []error
	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		line := cmd.Line
		if line == 0 {
			line = i + 1
		}
		if err := dispatch(ctx, kit, cmd); err != nil {
			errs = append(errs, &LineError{Line: line, Err: fmt.Errorf("%s: %w", kindName(cmd.Kind), err)})
		}
	}
	return errors.Join(errs...)
}

func kindName(kind string) string {
	if kind == "" {
		return KindNotify
	}
	return kind
}

func dispatch(ctx context.Context, kit *ui.Kit, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	switch cmd.Kind {
	case KindImage:
		return kit.Notifications.NotifyImage(ctx, cmd.Message)
	case KindDialog:
		if strings.EqualFold(strings.TrimSpace(cmd.Message), DialogHide) {
			return kit.Widgets.HideConfirmationDialog(ctx)
		}
		return kit.Widgets.ShowConfirmationDialog(ctx)
	case KindCountdown:
		return kit.Widgets.StartCountdown(ctx)
	case KindPopover:
		if cmd.Message == "" && cmd.Selector == "" {
			return kit.Popovers.BindDefault(ctx)
		}
		mode := kit.Popovers.DefaultTrigger()
		if cmd.Message != "" {
			mode, _ = model.ParseTriggerMode(cmd.Message)
		}
		selector := cmd.Selector
		if selector == "" {
			selector = kit.Popovers.DefaultSelector()
		}
		return kit.Popovers.BindPopovers(ctx, selector, mode)
	default:
		return kit.Notifications.NotifySeverity(ctx, cmd.Severity, cmd.Message)
	}
}
