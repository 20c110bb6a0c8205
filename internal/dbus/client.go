package dbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/cardui/internal/model"
)

// ErrNotConnected is returned by calls made after Close.
var ErrNotConnected = errors.New("not connected to D-Bus")

// Dialog text.
const (
	DialogSummary = "Confirm"
	DialogBody    = "Are you sure?"
)

// Caller is the subset of dbus.BusObject the client needs.
type Caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Options configures the notifications sent by the client.
type Options struct {
	AppName      string
	AppIcon      string // Empty = icon per severity
	DesktopEntry string
	Transient    bool
}

// DialogEvent reports a user action on a dialog notification.
type DialogEvent struct {
	Dialog string
	Action string // confirm, cancel, or "" when the notification was closed
	Reason CloseReason
}

// Client sends notifications to the session notification daemon.
type Client struct {
	mu      sync.Mutex
	startMu sync.Mutex // serialises StartProgress so only one run survives
	logger *slog.Logger
	opts   Options

	conn *dbus.Conn
	obj  Caller

	dialogs   map[string]uint32 // Dialog name -> notification ID
	countdown *countdownRun
	onDialog  func(DialogEvent)

	signals chan *dbus.Signal
	closed  bool
}

type countdownRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient creates a client calling through obj.
func NewClient(obj Caller, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		logger:  logger,
		opts:    opts,
		obj:     obj,
		dialogs: make(map[string]uint32),
	}
}

// Connect opens a private session bus connection and subscribes to the
// daemon's ActionInvoked and NotificationClosed signals.
func Connect(opts Options, logger *slog.Logger) (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	c := NewClient(conn.Object(DBusBusName, DBusPath), opts, logger)
	c.conn = conn

	if err := c.subscribe(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// SetDialogCallback sets the callback invoked when the user answers or
// dismisses a dialog.
func (c *Client) SetDialogCallback(callback func(DialogEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDialog = callback
}

// Toast implements ui.Toaster.
func (c *Client) Toast(ctx context.Context, req model.NotificationRequest) error {
	n := c.base()
	n.Summary = req.Title
	n.Body = req.Message
	n.ExpireTimeout = int32(req.DisplayDurationMs)
	if n.AppIcon == "" {
		n.AppIcon = req.Severity.IconName()
	}
	n.Hints["urgency"] = dbus.MakeVariant(byte(req.Severity.Urgency()))
	n.Hints["category"] = dbus.MakeVariant(SeverityCategory(req.Severity))

	id, err := c.notify(ctx, n)
	if err != nil {
		return err
	}
	c.logger.Debug("sent toast", "id", id, "request_id", req.ID, "severity", req.Severity)
	return nil
}

// ToastImage implements ui.Toaster. The body carries the <img> markup for
// daemons with body-images; the image-path hint covers the rest.
func (c *Client) ToastImage(ctx context.Context, req model.ImageNotificationRequest) error {
	n := c.base()
	n.Summary = req.Title
	n.Body = req.Body()
	n.ExpireTimeout = ExpireNever
	n.Hints["category"] = dbus.MakeVariant(CategoryImage)
	n.Hints["image-path"] = dbus.MakeVariant(req.ImageURL)
	// A persistent panel must stay in the daemon's history.
	delete(n.Hints, "transient")

	id, err := c.notify(ctx, n)
	if err != nil {
		return err
	}
	c.logger.Debug("sent image toast", "id", id, "request_id", req.ID, "url", req.ImageURL)
	return nil
}

// SetDialogState implements ui.DialogController. Showing a visible dialog
// replaces it in place; hiding a hidden dialog does nothing.
func (c *Client) SetDialogState(ctx context.Context, name string, state model.DialogState) error {
	c.mu.Lock()
	id, visible := c.dialogs[name]
	c.mu.Unlock()

	if state == model.DialogHidden {
		if !visible {
			return nil
		}
		if err := c.closeNotification(ctx, id); err != nil {
			return err
		}
		c.mu.Lock()
		delete(c.dialogs, name)
		c.mu.Unlock()
		c.logger.Debug("hid dialog", "name", name, "id", id)
		return nil
	}

	n := c.base()
	n.ReplacesID = id
	n.AppIcon = "dialog-question"
	n.Summary = DialogSummary
	n.Body = DialogBody
	n.Actions = []string{ActionConfirm, "Confirm", ActionCancel, "Cancel"}
	n.ExpireTimeout = ExpireNever
	n.Hints["urgency"] = dbus.MakeVariant(byte(model.UrgencyCritical))
	n.Hints["category"] = dbus.MakeVariant(CategoryDialog)
	n.Hints["resident"] = dbus.MakeVariant(true)

	newID, err := c.notify(ctx, n)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.dialogs[name] = newID
	c.mu.Unlock()
	c.logger.Debug("showed dialog", "name", name, "id", newID)
	return nil
}

// DialogVisible reports whether the named dialog is currently shown.
func (c *Client) DialogVisible(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.dialogs[name]
	return ok
}

// StartProgress implements ui.ProgressBar. The first update is sent before
// returning; the rest run on the client's own clock until the time limit
// is reached, a new countdown starts or the client is closed.
func (c *Client) StartProgress(ctx context.Context, req model.CountdownRequest) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	c.stopCountdown()

	id, err := c.notify(ctx, c.countdownNotification(req, req.TimeLimit, 0))
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	run := &countdownRun{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return ErrNotConnected
	}
	if prev := c.countdown; prev != nil {
		prev.cancel()
	}
	c.countdown = run
	c.mu.Unlock()

	go c.runCountdown(runCtx, run, req, id)

	c.logger.Debug("started countdown", "id", id, "time_limit", req.TimeLimit, "unit", req.Tick())
	return nil
}

func (c *Client) runCountdown(ctx context.Context, run *countdownRun, req model.CountdownRequest, id uint32) {
	defer close(run.done)

	ticker := time.NewTicker(req.Tick())
	defer ticker.Stop()

	for remaining := req.TimeLimit - 1; remaining >= 0; remaining-- {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		newID, err := c.notify(ctx, c.countdownNotification(req, remaining, id))
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("countdown update failed", "remaining", remaining, "error", err)
			}
			return
		}
		id = newID
	}
	c.logger.Debug("countdown complete", "id", id)
}

func (c *Client) countdownNotification(req model.CountdownRequest, remaining int, replaces uint32) *Notification {
	phase := req.Phase(remaining)

	n := c.base()
	n.ReplacesID = replaces
	n.AppIcon = "alarm-symbolic"
	n.Summary = "Countdown"
	n.ExpireTimeout = ExpireNever
	n.Hints["category"] = dbus.MakeVariant(CategoryCountdown)
	n.Hints["value"] = dbus.MakeVariant(int32(req.Fraction(remaining) * 100))
	n.Hints["x-cardui-style"] = dbus.MakeVariant(req.Style(phase))

	switch phase {
	case model.PhaseComplete:
		n.Body = "Time's up"
		n.Hints["urgency"] = dbus.MakeVariant(byte(model.UrgencyCritical))
	case model.PhaseWarning:
		n.Body = fmt.Sprintf("%d remaining", remaining)
		n.Hints["urgency"] = dbus.MakeVariant(byte(model.UrgencyCritical))
	default:
		n.Body = fmt.Sprintf("%d remaining", remaining)
		n.Hints["urgency"] = dbus.MakeVariant(byte(model.UrgencyNormal))
	}
	return n
}

// WaitCountdown blocks until the running countdown has sent its final
// update or ctx is done. It returns immediately when none is running.
func (c *Client) WaitCountdown(ctx context.Context) error {
	c.mu.Lock()
	run := c.countdown
	c.mu.Unlock()
	if run == nil {
		return nil
	}
	select {
	case <-run.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stopCountdown cancels a running countdown and waits for it to exit.
func (c *Client) stopCountdown() {
	c.mu.Lock()
	run := c.countdown
	c.countdown = nil
	c.mu.Unlock()

	if run != nil {
		run.cancel()
		<-run.done
	}
}

// Capabilities returns the capabilities advertised by the daemon.
func (c *Client) Capabilities(ctx context.Context) ([]string, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	var caps []string
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetCapabilities", 0)
	if err := call.Store(&caps); err != nil {
		return nil, fmt.Errorf("failed to get capabilities: %w", err)
	}
	return caps, nil
}

// ServerInformation returns the daemon's identity.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	if err := c.checkOpen(); err != nil {
		return ServerInfo{}, err
	}
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to get server information: %w", err)
	}
	return info, nil
}

// Close stops any running countdown and closes the connection.
func (c *Client) Close() error {
	c.stopCountdown()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if c.conn != nil {
		if c.signals != nil {
			c.conn.RemoveSignal(c.signals)
		}
		return c.conn.Close()
	}
	return nil
}

func (c *Client) base() *Notification {
	n := &Notification{
		AppName:       c.opts.AppName,
		AppIcon:       c.opts.AppIcon,
		ExpireTimeout: ExpireDefault,
		Hints:         make(map[string]dbus.Variant),
	}
	if c.opts.DesktopEntry != "" {
		n.Hints["desktop-entry"] = dbus.MakeVariant(c.opts.DesktopEntry)
	}
	if c.opts.Transient {
		n.Hints["transient"] = dbus.MakeVariant(true)
	}
	return n
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrNotConnected
	}
	return nil
}

func (c *Client) notify(ctx context.Context, n *Notification) (uint32, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	var id uint32
	call := c.obj.CallWithContext(ctx, DBusInterface+".Notify", 0, n.Args()...)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}

func (c *Client) closeNotification(ctx context.Context, id uint32) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	call := c.obj.CallWithContext(ctx, DBusInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		return fmt.Errorf("failed to close notification %d: %w", id, call.Err)
	}
	return nil
}
