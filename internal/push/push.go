// Package push delivers notifications to browsers through the Web Push
// protocol with VAPID authentication.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/ui"
)

// Push errors.
var (
	ErrNoSubscriptions = errors.New("no push subscriptions")
	ErrMissingVAPID    = errors.New("VAPID keys are not configured")
	ErrDeliveryFailed  = errors.New("push delivery failed")
	ErrInvalidRequest  = errors.New("invalid push request")
)

// Default time-to-live values. Toasts are stale quickly; image panels are
// persistent and may be delivered later.
const (
	DefaultToastTTL = 30 * time.Second
	ImageTTL        = 24 * time.Hour
)

// Payload kinds.
const (
	KindToast = "toast"
	KindImage = "image"
)

// Payload is the JSON document the service worker receives.
type Payload struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Severity   string    `json:"severity,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	DurationMs int       `json:"duration_ms"`
	Persistent bool      `json:"persistent"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubscriptionSource yields the current subscriptions.
type SubscriptionSource interface {
	Subscriptions() ([]webpush.Subscription, error)
}

// FileSource reads a JSON array of subscriptions on every call so that new
// browsers are picked up without a restart.
type FileSource struct {
	Path string
}

// Subscriptions implements SubscriptionSource.
func (f FileSource) Subscriptions() ([]webpush.Subscription, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoSubscriptions, f.Path)
		}
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}
	var subs []webpush.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse subscriptions: %w", err)
	}
	return subs, nil
}

// Options configures the toaster.
type Options struct {
	Subscriber      string // mailto: or https: contact for the push service
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	TTL             time.Duration // For toasts; zero uses DefaultToastTTL
	HTTPClient      webpush.HTTPClient
}

type sendFunc func(ctx context.Context, message []byte, s *webpush.Subscription, opts *webpush.Options) (*http.Response, error)

// Toaster implements ui.Toaster by pushing to every subscription.
type Toaster struct {
	source SubscriptionSource
	opts   Options
	send   sendFunc
	logger *slog.Logger
}

var _ ui.Toaster = (*Toaster)(nil)

// NewToaster creates a push toaster.
func NewToaster(source SubscriptionSource, opts Options, logger *slog.Logger) (*Toaster, error) {
	if opts.VAPIDPublicKey == "" || opts.VAPIDPrivateKey == "" {
		return nil, ErrMissingVAPID
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultToastTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Toaster{
		source: source,
		opts:   opts,
		send:   webpush.SendNotificationWithContext,
		logger: logger,
	}, nil
}

// Toast implements ui.Toaster.
// Requests a browser could not display, such as an empty body, are
// rejected before any subscription is contacted.
func (t *Toaster) Toast(ctx context.Context, req model.NotificationRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return t.broadcast(ctx, Payload{
		Kind:       KindToast,
		ID:         req.ID,
		Title:      req.Title,
		Body:       req.Message,
		Severity:   req.Severity.Name(),
		DurationMs: req.DisplayDurationMs,
		CreatedAt:  req.CreatedAt,
	}, t.opts.TTL, UrgencyFor(req.Severity))
}

// ToastImage implements ui.Toaster.
func (t *Toaster) ToastImage(ctx context.Context, req model.ImageNotificationRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return t.broadcast(ctx, Payload{
		Kind:       KindImage,
		ID:         req.ID,
		Title:      req.Title,
		Body:       req.Body(),
		ImageURL:   req.ImageURL,
		Persistent: req.Persistent(),
		CreatedAt:  req.CreatedAt,
	}, ImageTTL, webpush.UrgencyNormal)
}

// UrgencyFor maps a severity to a Web Push urgency.
func UrgencyFor(sev model.Severity) webpush.Urgency {
	switch sev {
	case model.SeverityError:
		return webpush.UrgencyHigh
	case model.SeverityNone:
		return webpush.UrgencyLow
	default:
		return webpush.UrgencyNormal
	}
}

// broadcast sends payload to every subscription. Expired subscriptions
// are logged and skipped; it fails only when no subscription accepted the
// message.
func (t *Toaster) broadcast(ctx context.Context, p Payload, ttl time.Duration, urgency webpush.Urgency) error {
	subs, err := t.source.Subscriptions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return ErrNoSubscriptions
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	opts := &webpush.Options{
		HTTPClient:      t.opts.HTTPClient,
		Subscriber:      t.opts.Subscriber,
		VAPIDPublicKey:  t.opts.VAPIDPublicKey,
		VAPIDPrivateKey: t.opts.VAPIDPrivateKey,
		TTL:             int(ttl / time.Second),
		Urgency:         urgency,
		Topic:           p.Kind,
	}

	var errs []error
	delivered := 0
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		sub := &subs[i]
		res, err := t.send(ctx, data, sub, opts)
		if err != nil {
			errs = append(errs, err)
			t.logger.Warn("push send failed", "endpoint", sub.Endpoint, "error", err)
			continue
		}
		_ = res.Body.Close()

		switch {
		case res.StatusCode == http.StatusGone || res.StatusCode == http.StatusNotFound:
			t.logger.Info("push subscription expired", "endpoint", sub.Endpoint, "status", res.StatusCode)
		case res.StatusCode >= 300:
			errs = append(errs, fmt.Errorf("%s: %s", sub.Endpoint, res.Status))
			t.logger.Warn("push rejected", "endpoint", sub.Endpoint, "status", res.StatusCode)
		default:
			delivered++
		}
	}

	t.logger.Debug("push broadcast", "kind", p.Kind, "id", p.ID, "delivered", delivered, "subscriptions", len(subs))
	if delivered == 0 {
		if len(errs) == 0 {
			return ErrNoSubscriptions
		}
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, errors.Join(errs...))
	}
	return nil
}

// GenerateKeys returns a fresh VAPID key pair.
func GenerateKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	return publicKey, privateKey, err
}
