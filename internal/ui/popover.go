package ui

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/cardui/internal/model"
)

// PopoverOptions holds the popover defaults. The trigger mode has no
// single right answer, so it is configuration rather than a constant.
type PopoverOptions struct {
	Selector  string
	Trigger   model.TriggerMode
	Attribute string
}

// DefaultPopoverOptions returns the data-toggle selector, focus trigger and
// the img attribute.
func DefaultPopoverOptions() PopoverOptions {
	return PopoverOptions{
		Selector:  model.DefaultPopoverSelector,
		Trigger:   model.TriggerFocus,
		Attribute: model.DefaultImageAttribute,
	}
}

// PopoverBinder attaches card image popovers.
type PopoverBinder struct {
	host   PopoverHost
	opts   PopoverOptions
	logger *slog.Logger
}

// NewPopoverBinder creates a binder over host.
func NewPopoverBinder(host PopoverHost, opts PopoverOptions, logger *slog.Logger) *PopoverBinder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Attribute == "" {
		opts.Attribute = model.DefaultImageAttribute
	}
	return &PopoverBinder{
		host:   host,
		opts:   opts,
		logger: logger,
	}
}

// BindPopovers binds popovers to all elements matching selector. Content is
// an <img> sourced from each element's image attribute.
func (b *PopoverBinder) BindPopovers(ctx context.Context, selector string, mode model.TriggerMode) error {
	req := model.PopoverRequest{
		Selector:  selector,
		Trigger:   mode,
		HTML:      true,
		Attribute: b.opts.Attribute,
		Content:   model.ImageContent(b.opts.Attribute),
	}
	b.logger.Debug("bind popovers", "selector", selector, "trigger", mode)
	return b.host.BindPopover(ctx, req)
}

// BindDefault binds the configured selector with the configured trigger.
func (b *PopoverBinder) BindDefault(ctx context.Context) error {
	return b.BindPopovers(ctx, b.opts.Selector, b.opts.Trigger)
}

// DefaultSelector returns the configured selector.
func (b *PopoverBinder) DefaultSelector() string {
	return b.opts.Selector
}

// DefaultTrigger returns the configured trigger mode.
func (b *PopoverBinder) DefaultTrigger() model.TriggerMode {
	return b.opts.Trigger
}
