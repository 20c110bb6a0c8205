package audio

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/ui"
)

// Chimer plays the sound for a severity.
type Chimer interface {
	PlayFor(sev model.Severity) error
}

// ChimeToaster wraps a Toaster and plays a sound after each toast is
// shown. Playback failures are logged and never fail the toast.
type ChimeToaster struct {
	next   ui.Toaster
	chimer Chimer
	logger *slog.Logger
}

var _ ui.Toaster = (*ChimeToaster)(nil)

// NewChimeToaster wraps next.
func NewChimeToaster(next ui.Toaster, chimer Chimer, logger *slog.Logger) *ChimeToaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChimeToaster{next: next, chimer: chimer, logger: logger}
}

// Toast implements ui.Toaster.
func (c *ChimeToaster) Toast(ctx context.Context, req model.NotificationRequest) error {
	if err := c.next.Toast(ctx, req); err != nil {
		return err
	}
	c.chime(req.Severity)
	return nil
}

// ToastImage implements ui.Toaster. Image panels use the neutral sound.
func (c *ChimeToaster) ToastImage(ctx context.Context, req model.ImageNotificationRequest) error {
	if err := c.next.ToastImage(ctx, req); err != nil {
		return err
	}
	c.chime(model.SeverityNone)
	return nil
}

func (c *ChimeToaster) chime(sev model.Severity) {
	if err := c.chimer.PlayFor(sev); err != nil {
		c.logger.Warn("failed to play notification sound", "severity", sev.Name(), "error", err)
	}
}
