// Package di assembles the facades from configuration and a set of
// capabilities. The injector is generated by wire from wire.go.
package di

import (
	"fmt"

	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/ui"
)

// ProvideNotifyOptions reads the toast duration.
func ProvideNotifyOptions(cfg *config.Config) ui.NotifyOptions {
	return ui.NotifyOptions{DurationMs: cfg.Notify.Duration.Milliseconds()}
}

// ProvideTriggerOptions reads the dialog name and countdown. The countdown
// is validated here since it is the only part of the config the facades
// cannot render with arbitrary values.
func ProvideTriggerOptions(cfg *config.Config) (ui.TriggerOptions, error) {
	req := cfg.CountdownRequest()
	if err := req.Validate(); err != nil {
		return ui.TriggerOptions{}, fmt.Errorf("countdown: %w", err)
	}
	return ui.TriggerOptions{
		DialogName: cfg.Dialog.Name,
		Countdown:  req,
	}, nil
}

// ProvidePopoverOptions reads the popover defaults.
func ProvidePopoverOptions(cfg *config.Config) ui.PopoverOptions {
	return ui.PopoverOptions{
		Selector:  cfg.Popover.Selector,
		Trigger:   cfg.Popover.Trigger,
		Attribute: cfg.Popover.Attribute,
	}
}
