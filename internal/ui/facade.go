package ui

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/cardui/internal/model"
)

// NotifyOptions configures the notification facade.
type NotifyOptions struct {
	DurationMs int // Auto-dismiss delay for severity toasts
}

// DefaultNotifyOptions returns the 1000 ms toast duration.
func DefaultNotifyOptions() NotifyOptions {
	return NotifyOptions{DurationMs: model.DefaultDisplayDurationMs}
}

// NotificationFacade turns messages into toast requests.
// Inputs are not validated and capability errors are returned unchanged.
type NotificationFacade struct {
	toaster Toaster
	opts    NotifyOptions
	logger  *slog.Logger
}

// NewNotificationFacade creates a facade rendering through toaster.
func NewNotificationFacade(toaster Toaster, opts NotifyOptions, logger *slog.Logger) *NotificationFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationFacade{
		toaster: toaster,
		opts:    opts,
		logger:  logger,
	}
}

// Notify shows a neutral notice.
func (f *NotificationFacade) Notify(ctx context.Context, msg string) error {
	return f.toast(ctx, model.SeverityNone, msg)
}

// NotifyInfo shows an info toast.
func (f *NotificationFacade) NotifyInfo(ctx context.Context, msg string) error {
	return f.toast(ctx, model.SeverityInfo, msg)
}

// NotifySuccess shows a success toast.
func (f *NotificationFacade) NotifySuccess(ctx context.Context, msg string) error {
	return f.toast(ctx, model.SeveritySuccess, msg)
}

// NotifyError shows an error toast.
func (f *NotificationFacade) NotifyError(ctx context.Context, msg string) error {
	return f.toast(ctx, model.SeverityError, msg)
}

// NotifySeverity shows a toast of the given severity.
func (f *NotificationFacade) NotifySeverity(ctx context.Context, severity model.Severity, msg string) error {
	return f.toast(ctx, severity, msg)
}

// NotifyImage shows a persistent card image panel. The URL is not sanitized.
func (f *NotificationFacade) NotifyImage(ctx context.Context, url string) error {
	req := model.NewImageNotificationRequest(url)
	f.logger.Debug("image notification", "id", req.ID, "url", url)
	return f.toaster.ToastImage(ctx, req)
}

func (f *NotificationFacade) toast(ctx context.Context, severity model.Severity, msg string) error {
	req := model.NewNotificationRequest(severity, msg, f.opts.DurationMs)
	f.logger.Debug("notification",
		"id", req.ID,
		"title", req.Title,
		"severity", severity,
		"duration_ms", req.DisplayDurationMs,
	)
	return f.toaster.Toast(ctx, req)
}
