package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/theme"
	"github.com/jmylchreest/cardui/internal/ui"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Host        *Host
	Kit         *ui.Kit
	Themes      *theme.Loader
	ThemeName   string
	ConfigPath  string // Config file to watch for changes (empty = no watching)
	OnConfig    func(cfg *config.Config)
	Cards       []Card
	Logger      *slog.Logger
	ProgramOpts []tea.ProgramOption
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// The host is attached before the program starts so capability calls made
// by the kit reach the model.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loader := opts.Themes
	if loader == nil {
		loader = theme.NewLoader("", logger)
	}
	current := loader.LoadOrDefault(opts.ThemeName)

	m := New(Options{
		Kit:    opts.Kit,
		Theme:  current,
		Cards:  opts.Cards,
		Logger: logger,
	})

	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOpts...)
	p := tea.NewProgram(m, programOpts...)
	opts.Host.Attach(p)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	themeWatcher := theme.NewWatcher(current, logger)
	themeWatcher.SetChangeCallback(func(t *theme.Theme) {
		p.Send(themeMsg{theme: t})
	})
	if err := themeWatcher.Start(watchCtx); err != nil {
		logger.Warn("failed to start theme watcher", "error", err)
	}
	defer themeWatcher.Stop()

	if opts.ConfigPath != "" {
		cfgWatcher, err := config.NewWatcher(opts.ConfigPath, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			themeName := current.Name
			cfgWatcher.SetReloadCallback(func(cfg *config.Config) {
				if opts.OnConfig != nil {
					opts.OnConfig(cfg)
				}
				p.Send(configMsg{cfg: cfg})
				if cfg.Theme.Name != themeName {
					themeName = cfg.Theme.Name
					p.Send(themeMsg{theme: loader.LoadOrDefault(themeName)})
				}
			})
			if err := cfgWatcher.Start(watchCtx); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
			defer func() { _ = cfgWatcher.Stop() }()
		}
	}

	_, err := p.Run()
	return err
}
