package tui

import (
	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/theme"
)

type toastMsg struct {
	req model.NotificationRequest
}

type imageMsg struct {
	req model.ImageNotificationRequest
}

type dialogMsg struct {
	name  string
	state model.DialogState
}

type countdownMsg struct {
	req model.CountdownRequest
}

type popoverMsg struct {
	req model.PopoverRequest
}

// expireMsg removes a toast once its display duration has passed.
type expireMsg struct {
	id string
}

// countdownTickMsg advances the countdown started as generation gen.
type countdownTickMsg struct {
	gen int
}

type themeMsg struct {
	theme *theme.Theme
}

type configMsg struct {
	cfg *config.Config
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}
