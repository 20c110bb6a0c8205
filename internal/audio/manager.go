package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/cardui/internal/config"
	"github.com/jmylchreest/cardui/internal/model"
)

// SoundPlayer is the playback surface the manager drives.
type SoundPlayer interface {
	Play(path string) error
	Preload(path string) error
	InvalidateCache(path string)
	SetVolume(volume float64)
	Close()
}

// Manager maps severities to sounds and plays them when enabled.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  SoundPlayer
	watcher *Watcher

	enabled bool
	sounds  map[model.Severity]string
}

// NewManager creates a manager from the audio section of cfg.
// A nil player uses the speaker.
func NewManager(cfg *config.Config, player SoundPlayer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if player == nil {
		player = NewPlayer(logger)
	}

	m := &Manager{
		logger: logger,
		player: player,
		sounds: make(map[model.Severity]string),
	}
	m.watcher = NewWatcher(player, logger)
	m.apply(cfg)
	return m
}

// apply loads volume and per-severity sounds, skipping missing files.
func (m *Manager) apply(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sounds := make(map[model.Severity]string)
	for _, sev := range model.Severities() {
		path := cfg.SoundForSeverity(sev)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "severity", sev.Name(), "path", path)
			continue
		}
		sounds[sev] = path
	}

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100)

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.sounds = sounds
	m.mu.Unlock()
}

// Enabled reports whether sounds are played.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SoundFor returns the sound configured for sev, or "".
func (m *Manager) SoundFor(sev model.Severity) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sounds[sev]
}

// Start preloads the configured sounds and watches them for changes.
func (m *Manager) Start(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	m.preload()
	if err := m.watcher.Start(ctx); err != nil {
		return err
	}
	m.logger.Info("audio manager started", "sounds", len(m.paths()))
	return nil
}

// Stop stops the watcher and releases the speaker.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
}

// PlayFor plays the sound for sev. Disabled audio and unconfigured
// severities are no-ops.
func (m *Manager) PlayFor(sev model.Severity) error {
	m.mu.RLock()
	enabled := m.enabled
	path := m.sounds[sev]
	m.mu.RUnlock()

	if !enabled || path == "" {
		return nil
	}
	return m.player.Play(path)
}

// Wait blocks until queued sounds have finished, for short-lived
// processes that would otherwise exit mid-chime.
func (m *Manager) Wait(ctx context.Context) error {
	if w, ok := m.player.(interface{ Wait(context.Context) error }); ok {
		return w.Wait(ctx)
	}
	return nil
}

// UpdateConfig applies a reloaded config.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	for _, path := range m.paths() {
		m.player.InvalidateCache(path)
		m.watcher.Unwatch(path)
	}
	m.apply(cfg)
	if m.Enabled() {
		m.preload()
	}
	m.logger.Debug("audio config updated", "enabled", m.Enabled())
}

func (m *Manager) preload() {
	for _, path := range m.paths() {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}
}

func (m *Manager) paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.sounds))
	for _, p := range m.sounds {
		paths = append(paths, p)
	}
	return paths
}
