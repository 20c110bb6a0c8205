package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// subscribe registers for the daemon's ActionInvoked and
// NotificationClosed signals so dialog answers reach the client.
func (c *Client) subscribe() error {
	for _, member := range []string{"ActionInvoked", "NotificationClosed"} {
		if err := c.conn.AddMatchSignal(
			dbus.WithMatchObjectPath(DBusPath),
			dbus.WithMatchInterface(DBusInterface),
			dbus.WithMatchMember(member),
		); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", member, err)
		}
	}

	c.signals = make(chan *dbus.Signal, 16)
	c.conn.Signal(c.signals)
	go c.processSignals(c.signals)
	return nil
}

// processSignals runs until the connection closes the channel.
func (c *Client) processSignals(ch <-chan *dbus.Signal) {
	for sig := range ch {
		c.handleSignal(sig)
	}
}

// handleSignal maps a daemon signal to a dialog event. Signals for
// notifications other than visible dialogs are ignored.
func (c *Client) handleSignal(sig *dbus.Signal) {
	if sig == nil || len(sig.Body) < 2 {
		return
	}
	id, ok := sig.Body[0].(uint32)
	if !ok {
		return
	}

	event := DialogEvent{}
	switch sig.Name {
	case DBusInterface + ".ActionInvoked":
		key, ok := sig.Body[1].(string)
		if !ok {
			return
		}
		event.Action = key
	case DBusInterface + ".NotificationClosed":
		reason, ok := sig.Body[1].(uint32)
		if !ok {
			return
		}
		event.Reason = CloseReason(reason)
	default:
		return
	}

	c.mu.Lock()
	for name, dialogID := range c.dialogs {
		if dialogID == id {
			event.Dialog = name
			break
		}
	}
	if event.Dialog == "" {
		c.mu.Unlock()
		return
	}
	// An answered dialog is hidden; the resident hint keeps it on screen
	// until CloseNotification, so close it on the daemon side too.
	delete(c.dialogs, event.Dialog)
	callback := c.onDialog
	c.mu.Unlock()

	c.logger.Debug("dialog event",
		"dialog", event.Dialog,
		"action", event.Action,
		"reason", event.Reason.String(),
	)

	if event.Action != "" {
		if err := c.closeNotification(context.Background(), id); err != nil {
			c.logger.Debug("failed to close answered dialog", "id", id, "error", err)
		}
	}

	if callback != nil {
		callback(event)
	}
}
