package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/cardui/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "dbus", cfg.Backend.Kind)
	assert.Equal(t, 1000, cfg.Notify.Duration.Milliseconds())
	assert.Equal(t, "cardui", cfg.Notify.AppName)
	assert.Equal(t, "confirmation", cfg.Dialog.Name)
	assert.Equal(t, 75, cfg.Countdown.TimeLimit)
	assert.Equal(t, 15, cfg.Countdown.WarningThreshold)
	assert.Equal(t, time.Second, cfg.Countdown.Unit.Duration())
	assert.Equal(t, `[data-toggle="popover"]`, cfg.Popover.Selector)
	assert.Equal(t, model.TriggerFocus, cfg.Popover.Trigger)
	assert.Equal(t, "img", cfg.Popover.Attribute)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, "plain", cfg.Output.Format)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "30d", cfg.History.MaxAge)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Backend.Kind, cfg.Backend.Kind)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[backend]
kind = "tui"

[notify]
duration = "2s"

[dialog]
name = "concede"

[countdown]
time_limit = 90
warning_threshold = 20
unit = "500ms"

[popover]
trigger = "click"
selector = "button[rel=popover]"

[audio]
enabled = true
volume = 40

[audio.sounds]
error = "/tmp/error.wav"

[output]
format = "json"

[history]
enabled = false
max_age = "2w"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "tui", cfg.Backend.Kind)
	assert.Equal(t, 2000, cfg.Notify.Duration.Milliseconds())
	assert.Equal(t, "concede", cfg.Dialog.Name)
	assert.Equal(t, model.TriggerClick, cfg.Popover.Trigger)
	assert.Equal(t, "button[rel=popover]", cfg.Popover.Selector)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, "/tmp/error.wav", cfg.SoundForSeverity(model.SeverityError))
	assert.Equal(t, "", cfg.SoundForSeverity(model.SeverityInfo))
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "2w", cfg.History.MaxAge)

	req := cfg.CountdownRequest()
	assert.Equal(t, 90, req.TimeLimit)
	assert.Equal(t, 20, req.WarningThreshold)
	assert.Equal(t, 500*time.Millisecond, req.Unit)
	assert.Equal(t, "progress-bar-warning", req.WarningStyle)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[popover]\ntrigger = \"on-click\"\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, model.TriggerClick, cfg.Popover.Trigger)
	assert.Equal(t, "dbus", cfg.Backend.Kind)
	assert.Equal(t, 75, cfg.Countdown.TimeLimit)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidTrigger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[popover]\ntrigger = \"hover\"\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trigger mode")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"unknown backend", func(c *Config) { c.Backend.Kind = "carrier-pigeon" }, ErrUnknownBackend},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, ErrUnknownFormat},
		{"zero time limit", func(c *Config) { c.Countdown.TimeLimit = 0 }, ErrInvalidCountdown},
		{"threshold above limit", func(c *Config) { c.Countdown.WarningThreshold = 100 }, ErrInvalidCountdown},
		{"negative threshold", func(c *Config) { c.Countdown.WarningThreshold = -1 }, ErrInvalidCountdown},
		{"volume too high", func(c *Config) { c.Audio.Volume = 101 }, ErrInvalidVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateSharesCountdownError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Countdown.WarningThreshold = cfg.Countdown.TimeLimit + 1

	err := cfg.Validate()
	assert.ErrorIs(t, err, model.ErrInvalidCountdown)
	assert.ErrorIs(t, cfg.CountdownRequest().Validate(), model.ErrInvalidCountdown)
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Popover.Trigger = model.TriggerClick
	cfg.Notify.Duration = Duration(3 * time.Second)

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.TriggerClick, loaded.Popover.Trigger)
	assert.Equal(t, 3000, loaded.Notify.Duration.Milliseconds())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"1s", time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{"1000", time.Second, false},
		{" 2s ", 2 * time.Second, false},
		{"soon", 0, true},
		{"-1s", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/cardui/config.toml", ConfigPath())
	assert.Equal(t, "/custom/config/cardui", ConfigDir())
}

func TestSoundForSeverity_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/player")
	cfg := DefaultConfig()
	cfg.Audio.Sounds.Success = "~/sounds/win.ogg"

	assert.Equal(t, "/home/player/sounds/win.ogg", cfg.SoundForSeverity(model.SeveritySuccess))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[popover]\ntrigger = \"focus\"\n"), 0644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var reloaded *Config
	w.SetReloadCallback(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = cfg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("[popover]\ntrigger = \"click\"\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloaded != nil && reloaded.Popover.Trigger == model.TriggerClick
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	errCh := make(chan error, 4)
	w.SetErrorCallback(func(err error) { errCh <- err })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("[backend]\nkind = \"fax\"\n"), 0644))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrUnknownBackend)
	case <-time.After(2 * time.Second):
		t.Fatal("expected reload error")
	}
}

func TestHistoryPath(t *testing.T) {
	t.Setenv("HOME", "/home/player")
	cfg := DefaultConfig()
	assert.Equal(t, "", cfg.HistoryPath())

	cfg.History.Path = "~/games/history.jsonl"
	assert.Equal(t, "/home/player/games/history.jsonl", cfg.HistoryPath())
}

func TestSubscriptionsPath(t *testing.T) {
	t.Setenv("HOME", "/home/player")
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	cfg := DefaultConfig()
	assert.Equal(t, "/custom/config/cardui/subscriptions.json", cfg.SubscriptionsPath())

	cfg.WebPush.Subscriptions = "~/push/subs.json"
	assert.Equal(t, "/home/player/push/subs.json", cfg.SubscriptionsPath())

	cfg.WebPush.Subscriptions = "/etc/cardui/subs.json"
	assert.Equal(t, "/etc/cardui/subs.json", cfg.SubscriptionsPath())
}
