//go:build wireinject

package di

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/ui"
)

// InitializeKit builds the facades over caps.
func InitializeKit(cfg *config.Config, caps ui.Capabilities, logger *slog.Logger) (*ui.Kit, error) {
	wire.Build(
		wire.FieldsOf(new(ui.Capabilities), "Toaster", "Dialogs", "Progress", "Popovers"),
		ProvideNotifyOptions,
		ProvideTriggerOptions,
		ProvidePopoverOptions,
		ui.NewNotificationFacade,
		ui.NewWidgetTriggers,
		ui.NewPopoverBinder,
		ui.NewKit,
	)
	return nil, nil
}
