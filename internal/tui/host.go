package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/cardui/internal/model"
)

// ErrNotAttached is returned when a capability is used before the program
// is running.
var ErrNotAttached = errors.New("terminal UI is not running")

// Host implements every UI capability by posting messages to the running
// bubbletea program. Capability calls must not be made from inside
// Update; the model issues them from commands.
type Host struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	dialogs map[string]model.DialogState
}

// NewHost creates a host with no program attached.
func NewHost() *Host {
	return &Host{dialogs: make(map[string]model.DialogState)}
}

// Attach routes capability calls to p.
func (h *Host) Attach(p *tea.Program) {
	h.SetSender(p.Send)
}

// SetSender routes capability calls to send.
func (h *Host) SetSender(send func(tea.Msg)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.send = send
}

// Toast implements ui.Toaster.
func (h *Host) Toast(ctx context.Context, req model.NotificationRequest) error {
	return h.post(ctx, toastMsg{req: req})
}

// ToastImage implements ui.Toaster.
func (h *Host) ToastImage(ctx context.Context, req model.ImageNotificationRequest) error {
	return h.post(ctx, imageMsg{req: req})
}

// SetDialogState implements ui.DialogController.
func (h *Host) SetDialogState(ctx context.Context, name string, state model.DialogState) error {
	if err := h.post(ctx, dialogMsg{name: name, state: state}); err != nil {
		return err
	}
	h.mu.Lock()
	h.dialogs[name] = state
	h.mu.Unlock()
	return nil
}

// DialogState returns the last state set for the named dialog.
func (h *Host) DialogState(name string) model.DialogState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dialogs[name]
}

// StartProgress implements ui.ProgressBar.
func (h *Host) StartProgress(ctx context.Context, req model.CountdownRequest) error {
	return h.post(ctx, countdownMsg{req: req})
}

// BindPopover implements ui.PopoverHost.
func (h *Host) BindPopover(ctx context.Context, req model.PopoverRequest) error {
	return h.post(ctx, popoverMsg{req: req})
}

func (h *Host) post(ctx context.Context, msg tea.Msg) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	send := h.send
	h.mu.Unlock()
	if send == nil {
		return ErrNotAttached
	}
	send(msg)
	return nil
}
