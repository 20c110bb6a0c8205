package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/cardui/internal/model"
)

// Writer implements every UI capability by formatting each request to an
// io.Writer. Dialog state is kept in memory so show and hide are
// observable; countdowns are reported once and not timed.
type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	format  Formatter
	logger  *slog.Logger
	dialogs map[string]model.DialogState
	now     func() time.Time
}

// NewWriter creates a writer emitting through formatter.
func NewWriter(out io.Writer, formatter Formatter, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		out:     out,
		format:  formatter,
		logger:  logger,
		dialogs: make(map[string]model.DialogState),
		now:     time.Now,
	}
}

// Toast implements ui.Toaster.
func (w *Writer) Toast(_ context.Context, req model.NotificationRequest) error {
	return w.emit(Event{Kind: KindToast, Toast: &req})
}

// ToastImage implements ui.Toaster.
func (w *Writer) ToastImage(_ context.Context, req model.ImageNotificationRequest) error {
	return w.emit(Event{Kind: KindImage, Image: &ImagePayload{
		ImageNotificationRequest: req,
		Body:                     req.Body(),
	}})
}

// SetDialogState implements ui.DialogController. Every call is reported,
// including hiding an already hidden dialog.
func (w *Writer) SetDialogState(_ context.Context, name string, state model.DialogState) error {
	if err := w.emit(Event{Kind: KindDialog, Dialog: &DialogChange{Name: name, State: state}}); err != nil {
		return err
	}
	w.mu.Lock()
	w.dialogs[name] = state
	w.mu.Unlock()
	return nil
}

// DialogState returns the last state set for the named dialog.
func (w *Writer) DialogState(name string) model.DialogState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dialogs[name]
}

// StartProgress implements ui.ProgressBar.
func (w *Writer) StartProgress(_ context.Context, req model.CountdownRequest) error {
	return w.emit(Event{Kind: KindCountdown, Countdown: &req})
}

// BindPopover implements ui.PopoverHost.
func (w *Writer) BindPopover(_ context.Context, req model.PopoverRequest) error {
	return w.emit(Event{Kind: KindPopover, Popover: &req})
}

func (w *Writer) emit(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e.At = w.now()
	if err := w.format.Format(w.out, e); err != nil {
		return fmt.Errorf("failed to write %s: %w", e.Kind, err)
	}
	w.logger.Debug("wrote event", "kind", e.Kind)
	return nil
}
