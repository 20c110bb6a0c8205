package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/audio"
	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/di"
	"github.com/jmylchreest/cardui/internal/store"
	"github.com/jmylchreest/cardui/internal/theme"
	"github.com/jmylchreest/cardui/internal/tui"
	"github.com/jmylchreest/cardui/internal/ui"
)

var tuiOpts struct {
	theme string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive card board",
	Long: `Launch the terminal board. Every toast, dialog, countdown and popover
is rendered in the terminal regardless of the configured backend.

Key bindings:
  n i s e      Notice, info, success and error toasts
  m            Image preview of the focused card
  x            Dismiss the last image preview
  c            Confirmation dialog (y/enter confirms, n/esc cancels)
  t            Start the countdown
  tab/←/→      Move focus between cards
  enter        Toggle the focused card's popover (click mode)
  p            Switch popovers between focus and click
  ?            Show help
  q            Quit

The config file and the active theme are watched; edits apply live.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&tuiOpts.theme, "theme", "",
		"Theme name (default from config)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	host := tui.NewHost()

	var toaster ui.Toaster = host
	history, err := openHistory()
	if err != nil {
		return err
	}
	if history != nil {
		defer func() { _ = history.Close() }()
		toaster = store.NewHistoryToaster(host, history, config.BackendTUI, logger)
	}

	var onConfig func(*config.Config)
	if cfg.Audio.Enabled {
		sounds := audio.NewManager(cfg, nil, logger)
		if err := sounds.Start(ctx); err != nil {
			logger.Warn("failed to start audio", "error", err)
		}
		defer sounds.Stop()
		toaster = audio.NewChimeToaster(toaster, sounds, logger)
		onConfig = sounds.UpdateConfig
	}

	kit, err := di.InitializeKit(cfg, ui.Capabilities{
		Toaster:  toaster,
		Dialogs:  host,
		Progress: host,
		Popovers: host,
	}, logger)
	if err != nil {
		return err
	}

	themeName := cfg.Theme.Name
	if tuiOpts.theme != "" {
		themeName = tuiOpts.theme
	}

	return tui.Run(ctx, tui.RunOptions{
		Host:       host,
		Kit:        kit,
		Themes:     theme.NewLoader("", logger),
		ThemeName:  themeName,
		ConfigPath: configPath(),
		OnConfig:   onConfig,
		Logger:     logger,
	})
}
