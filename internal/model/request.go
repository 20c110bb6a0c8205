package model

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultDisplayDurationMs is how long a severity toast stays on screen.
const DefaultDisplayDurationMs = 1000

// ImageTitle is the fixed title of an image preview notification.
const ImageTitle = "Card Img"

// Validation errors. Requests are never validated by the facade; the web
// push toaster uses these to reject input a browser cannot display.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrEmptyImageURL    = errors.New("image url cannot be empty")
	ErrNegativeDuration = errors.New("display duration cannot be negative")
)

// NotificationRequest is a single toast to render. It is created at call
// time, consumed by the rendering capability and then discarded.
type NotificationRequest struct {
	ID                string    `json:"id" yaml:"id"`
	Title             string    `json:"title" yaml:"title"`
	Message           string    `json:"message" yaml:"message"`
	Severity          Severity  `json:"severity" yaml:"severity"`
	DisplayDurationMs int       `json:"duration_ms" yaml:"duration_ms"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
}

// NewNotificationRequest builds a toast request titled after the severity.
func NewNotificationRequest(severity Severity, message string, durationMs int) NotificationRequest {
	return NotificationRequest{
		ID:                newID(),
		Title:             severity.Title(),
		Message:           message,
		Severity:          severity,
		DisplayDurationMs: durationMs,
		CreatedAt:         time.Now(),
	}
}

// Validate checks that the request can be rendered.
func (r NotificationRequest) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Message == "" {
		return ErrEmptyMessage
	}
	if !r.Severity.Valid() {
		return ErrInvalidSeverity
	}
	if r.DisplayDurationMs < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// Duration returns the display duration. Zero means the toast persists.
func (r NotificationRequest) Duration() time.Duration {
	return time.Duration(r.DisplayDurationMs) * time.Millisecond
}

// Expires reports whether the toast dismisses itself.
func (r NotificationRequest) Expires() bool {
	return r.DisplayDurationMs > 0
}

// ImageNotificationRequest is a persistent panel showing a card image.
type ImageNotificationRequest struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	ImageURL  string    `json:"image_url" yaml:"image_url"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewImageNotificationRequest builds an image preview request. The URL is
// kept exactly as given.
func NewImageNotificationRequest(url string) ImageNotificationRequest {
	return ImageNotificationRequest{
		ID:        newID(),
		Title:     ImageTitle,
		ImageURL:  url,
		CreatedAt: time.Now(),
	}
}

// Body returns the HTML body embedding the image. The URL is inserted
// verbatim; callers are trusted.
func (r ImageNotificationRequest) Body() string {
	return `<img class="center-block" src="` + r.ImageURL + `" />`
}

// Persistent is always true: image panels are dismissed by the user only.
func (r ImageNotificationRequest) Persistent() bool {
	return true
}

// Validate checks that the request can be rendered.
func (r ImageNotificationRequest) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.ImageURL == "" {
		return ErrEmptyImageURL
	}
	return nil
}

func newID() string {
	return ulid.Make().String()
}
