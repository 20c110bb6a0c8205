// Package store keeps a history of the toasts and image previews that
// were shown, persisted as JSONL.
package store

import (
	"time"

	"github.com/jmylchreest/cardui/internal/model"
)

// Entry kinds.
const (
	KindToast = "toast"
	KindImage = "image"
)

// Entry is one shown notification.
type Entry struct {
	ID         string         `json:"id" yaml:"id"`
	Kind       string         `json:"kind" yaml:"kind"`
	Title      string         `json:"title" yaml:"title"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
	Severity   model.Severity `json:"severity" yaml:"severity"`
	ImageURL   string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	DurationMs int            `json:"duration_ms" yaml:"duration_ms"`
	Backend    string         `json:"backend,omitempty" yaml:"backend,omitempty"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
}

// ToastEntry records a severity toast.
func ToastEntry(req model.NotificationRequest, backend string) Entry {
	return Entry{
		ID:         req.ID,
		Kind:       KindToast,
		Title:      req.Title,
		Message:    req.Message,
		Severity:   req.Severity,
		DurationMs: req.DisplayDurationMs,
		Backend:    backend,
		CreatedAt:  req.CreatedAt,
	}
}

// ImageEntry records an image preview.
func ImageEntry(req model.ImageNotificationRequest, backend string) Entry {
	return Entry{
		ID:        req.ID,
		Kind:      KindImage,
		Title:     req.Title,
		Severity:  model.SeverityNone,
		ImageURL:  req.ImageURL,
		Backend:   backend,
		CreatedAt: req.CreatedAt,
	}
}

// Text returns the message, or the image URL for previews.
func (e Entry) Text() string {
	if e.Kind == KindImage {
		return e.ImageURL
	}
	return e.Message
}
