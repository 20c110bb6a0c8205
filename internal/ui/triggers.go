package ui

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/cardui/internal/model"
)

// TriggerOptions configures the widget triggers.
type TriggerOptions struct {
	DialogName string
	Countdown  model.CountdownRequest
}

// DefaultTriggerOptions returns the confirmation dialog and the 75/15 countdown.
func DefaultTriggerOptions() TriggerOptions {
	return TriggerOptions{
		DialogName: model.DefaultDialogName,
		Countdown:  model.DefaultCountdown(),
	}
}

// WidgetTriggers forwards dialog and countdown requests. The dialog state
// machine lives in the DialogController.
type WidgetTriggers struct {
	dialogs  DialogController
	progress ProgressBar
	opts     TriggerOptions
	logger   *slog.Logger
}

// NewWidgetTriggers creates the widget triggers.
func NewWidgetTriggers(dialogs DialogController, progress ProgressBar, opts TriggerOptions, logger *slog.Logger) *WidgetTriggers {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DialogName == "" {
		opts.DialogName = model.DefaultDialogName
	}
	return &WidgetTriggers{
		dialogs:  dialogs,
		progress: progress,
		opts:     opts,
		logger:   logger,
	}
}

// DialogName returns the name of the confirmation dialog.
func (w *WidgetTriggers) DialogName() string {
	return w.opts.DialogName
}

// ShowConfirmationDialog makes the confirmation dialog visible.
func (w *WidgetTriggers) ShowConfirmationDialog(ctx context.Context) error {
	w.logger.Debug("show dialog", "name", w.opts.DialogName)
	return w.dialogs.SetDialogState(ctx, w.opts.DialogName, model.DialogVisible)
}

// HideConfirmationDialog hides the confirmation dialog.
func (w *WidgetTriggers) HideConfirmationDialog(ctx context.Context) error {
	w.logger.Debug("hide dialog", "name", w.opts.DialogName)
	return w.dialogs.SetDialogState(ctx, w.opts.DialogName, model.DialogHidden)
}

// StartCountdown issues a single progress initialisation. It neither polls
// nor cancels the countdown afterwards.
func (w *WidgetTriggers) StartCountdown(ctx context.Context) error {
	req := w.opts.Countdown
	w.logger.Debug("start countdown",
		"time_limit", req.TimeLimit,
		"warning_threshold", req.WarningThreshold,
	)
	return w.progress.StartProgress(ctx, req)
}
