// Package testutil provides fake capability environments for tests.
package testutil

import (
	"context"
	"sync"

	"github.com/jmylchreest/cardui/internal/model"
)

// Recorder is a thread-safe fake implementing every UI capability. It
// records each request and keeps dialog state like a real environment.
type Recorder struct {
	mu       sync.Mutex
	toasts   []model.NotificationRequest
	images   []model.ImageNotificationRequest
	dialogs  map[string]model.DialogState
	changes  int
	progress []model.CountdownRequest
	popovers []model.PopoverRequest
	err      error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		dialogs: make(map[string]model.DialogState),
	}
}

// SetError makes every capability call fail with err after recording it.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Toast implements ui.Toaster.
func (r *Recorder) Toast(_ context.Context, req model.NotificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, req)
	return r.err
}

// ToastImage implements ui.Toaster.
func (r *Recorder) ToastImage(_ context.Context, req model.ImageNotificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = append(r.images, req)
	return r.err
}

// SetDialogState implements ui.DialogController.
func (r *Recorder) SetDialogState(_ context.Context, name string, state model.DialogState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes++
	if r.err != nil {
		return r.err
	}
	r.dialogs[name] = state
	return nil
}

// StartProgress implements ui.ProgressBar.
func (r *Recorder) StartProgress(_ context.Context, req model.CountdownRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, req)
	return r.err
}

// BindPopover implements ui.PopoverHost.
func (r *Recorder) BindPopover(_ context.Context, req model.PopoverRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.popovers = append(r.popovers, req)
	return r.err
}

// Toasts returns a copy of recorded toast requests.
func (r *Recorder) Toasts() []model.NotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.NotificationRequest, len(r.toasts))
	copy(result, r.toasts)
	return result
}

// Images returns a copy of recorded image requests.
func (r *Recorder) Images() []model.ImageNotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.ImageNotificationRequest, len(r.images))
	copy(result, r.images)
	return result
}

// DialogState returns the current state of a dialog; unknown dialogs are hidden.
func (r *Recorder) DialogState(name string) model.DialogState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dialogs[name]
}

// DialogChanges returns how many dialog transitions were requested.
func (r *Recorder) DialogChanges() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes
}

// Progress returns a copy of recorded countdown requests.
func (r *Recorder) Progress() []model.CountdownRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.CountdownRequest, len(r.progress))
	copy(result, r.progress)
	return result
}

// Popovers returns a copy of recorded popover bindings.
func (r *Recorder) Popovers() []model.PopoverRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.PopoverRequest, len(r.popovers))
	copy(result, r.popovers)
	return result
}
