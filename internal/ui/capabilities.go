// Package ui provides the notification facade, the widget triggers and the
// popover binder. Each one builds request values and forwards them to a
// capability supplied by the environment; none of them keeps state.
package ui

import (
	"context"

	"github.com/jmylchreest/cardui/internal/model"
)

// Toaster renders toast notifications.
type Toaster interface {
	Toast(ctx context.Context, req model.NotificationRequest) error
	ToastImage(ctx context.Context, req model.ImageNotificationRequest) error
}

// DialogController moves a named dialog between hidden and visible.
type DialogController interface {
	SetDialogState(ctx context.Context, name string, state model.DialogState) error
}

// ProgressBar starts a countdown indicator. Timing belongs to the
// implementation.
type ProgressBar interface {
	StartProgress(ctx context.Context, req model.CountdownRequest) error
}

// PopoverHost attaches popovers to the elements matching a selector.
type PopoverHost interface {
	BindPopover(ctx context.Context, req model.PopoverRequest) error
}

// Capabilities is the full set of environment capabilities.
type Capabilities struct {
	Toaster  Toaster
	Dialogs  DialogController
	Progress ProgressBar
	Popovers PopoverHost
}
