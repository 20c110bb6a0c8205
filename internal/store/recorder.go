package store

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/ui"
)

// HistoryToaster wraps a Toaster and records every toast it shows.
// Recording failures are logged and never fail the toast.
type HistoryToaster struct {
	next    ui.Toaster
	store   *Store
	backend string
	logger  *slog.Logger
}

var _ ui.Toaster = (*HistoryToaster)(nil)

// NewHistoryToaster wraps next, tagging entries with the backend name.
func NewHistoryToaster(next ui.Toaster, store *Store, backend string, logger *slog.Logger) *HistoryToaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryToaster{next: next, store: store, backend: backend, logger: logger}
}

// Toast implements ui.Toaster.
func (h *HistoryToaster) Toast(ctx context.Context, req model.NotificationRequest) error {
	if err := h.next.Toast(ctx, req); err != nil {
		return err
	}
	h.record(ToastEntry(req, h.backend))
	return nil
}

// ToastImage implements ui.Toaster.
func (h *HistoryToaster) ToastImage(ctx context.Context, req model.ImageNotificationRequest) error {
	if err := h.next.ToastImage(ctx, req); err != nil {
		return err
	}
	h.record(ImageEntry(req, h.backend))
	return nil
}

func (h *HistoryToaster) record(e Entry) {
	if err := h.store.Add(e); err != nil {
		h.logger.Warn("failed to record history", "id", e.ID, "error", err)
	}
}
