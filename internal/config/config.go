// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/cardui/internal/model"
)

// Backend kinds.
const (
	BackendDBus    = "dbus"
	BackendTUI     = "tui"
	BackendStdout  = "stdout"
	BackendWebPush = "webpush"
)

// Default configuration values.
const (
	DefaultBackend       = BackendDBus
	DefaultAppName       = "cardui"
	DefaultDesktopEntry  = "cardui"
	DefaultThemeName     = "default"
	DefaultFormat        = "plain"
	DefaultVolume        = 80
	DefaultPushTTL       = 30 * time.Second
	DefaultHistoryMaxAge = "30d"
)

// Configuration errors.
var (
	ErrUnknownBackend   = errors.New("unknown backend")
	ErrInvalidCountdown = model.ErrInvalidCountdown
	ErrInvalidVolume    = errors.New("volume must be between 0 and 100")
	ErrUnknownFormat    = errors.New("unknown output format")
)

// Config represents the cardui configuration.
type Config struct {
	Backend   BackendConfig   `toml:"backend"`
	Notify    NotifyConfig    `toml:"notify"`
	Dialog    DialogConfig    `toml:"dialog"`
	Countdown CountdownConfig `toml:"countdown"`
	Popover   PopoverConfig   `toml:"popover"`
	DBus      DBusConfig      `toml:"dbus"`
	Audio     AudioConfig     `toml:"audio"`
	Theme     ThemeConfig     `toml:"theme"`
	Output    OutputConfig    `toml:"output"`
	WebPush   WebPushConfig   `toml:"webpush"`
	History   HistoryConfig   `toml:"history"`
}

// BackendConfig selects the capability environment.
type BackendConfig struct {
	Kind string `toml:"kind"` // dbus, tui, stdout, webpush
}

// NotifyConfig holds toast settings.
type NotifyConfig struct {
	Duration Duration `toml:"duration"` // Auto-dismiss delay, e.g. "1s" or "1000"
	AppName  string   `toml:"app_name"`
}

// DialogConfig holds the confirmation dialog settings.
type DialogConfig struct {
	Name string `toml:"name"`
}

// CountdownConfig holds the countdown indicator settings.
type CountdownConfig struct {
	TimeLimit        int      `toml:"time_limit"`
	WarningThreshold int      `toml:"warning_threshold"`
	Unit             Duration `toml:"unit"`
	NormalStyle      string   `toml:"normal_style"`
	WarningStyle     string   `toml:"warning_style"`
	CompleteStyle    string   `toml:"complete_style"`
}

// PopoverConfig holds the popover defaults.
type PopoverConfig struct {
	Selector  string            `toml:"selector"`
	Trigger   model.TriggerMode `toml:"trigger"` // focus or click
	Attribute string            `toml:"attribute"`
}

// DBusConfig holds freedesktop notification settings.
type DBusConfig struct {
	AppIcon      string `toml:"app_icon"` // Empty = icon per severity
	DesktopEntry string `toml:"desktop_entry"`
	Transient    bool   `toml:"transient"` // Ask the daemon not to keep history
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-severity sound file paths.
type SoundConfig struct {
	Notice  string `toml:"notice"`
	Info    string `toml:"info"`
	Success string `toml:"success"`
	Error   string `toml:"error"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name string `toml:"name"` // Theme name without .toml extension
}

// OutputConfig controls the stdout backend.
type OutputConfig struct {
	Format string `toml:"format"` // plain, json, yaml
}

// WebPushConfig holds browser push settings.
type WebPushConfig struct {
	Subscriptions   string   `toml:"subscriptions"` // Path to a JSON array of subscriptions
	Subscriber      string   `toml:"subscriber"`    // mailto: or https: contact
	VAPIDPublicKey  string   `toml:"vapid_public_key"`
	VAPIDPrivateKey string   `toml:"vapid_private_key"`
	TTL             Duration `toml:"ttl"`
}

// HistoryConfig controls the record of shown toasts.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`    // Empty = $XDG_DATA_HOME/cardui/history.jsonl
	MaxAge  string `toml:"max_age"` // Prune entries older than this on startup, e.g. "30d" (empty/"0" = keep all)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	countdown := model.DefaultCountdown()
	return &Config{
		Backend: BackendConfig{
			Kind: DefaultBackend,
		},
		Notify: NotifyConfig{
			Duration: Duration(model.DefaultDisplayDurationMs * time.Millisecond),
			AppName:  DefaultAppName,
		},
		Dialog: DialogConfig{
			Name: model.DefaultDialogName,
		},
		Countdown: CountdownConfig{
			TimeLimit:        countdown.TimeLimit,
			WarningThreshold: countdown.WarningThreshold,
			Unit:             Duration(countdown.Unit),
			NormalStyle:      countdown.NormalStyle,
			WarningStyle:     countdown.WarningStyle,
			CompleteStyle:    countdown.CompleteStyle,
		},
		Popover: PopoverConfig{
			Selector:  model.DefaultPopoverSelector,
			Trigger:   model.TriggerFocus,
			Attribute: model.DefaultImageAttribute,
		},
		DBus: DBusConfig{
			DesktopEntry: DefaultDesktopEntry,
			Transient:    true,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
		Theme: ThemeConfig{
			Name: DefaultThemeName,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
		},
		WebPush: WebPushConfig{
			TTL: Duration(DefaultPushTTL),
		},
		History: HistoryConfig{
			Enabled: true,
			MaxAge:  DefaultHistoryMaxAge,
		},
	}
}

// ConfigDir returns the cardui config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cardui")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// ValidBackends returns all backend kinds.
func ValidBackends() []string {
	return []string{BackendDBus, BackendTUI, BackendStdout, BackendWebPush}
}

// ValidFormats returns all stdout output formats.
func ValidFormats() []string {
	return []string{"plain", "json", "yaml"}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !contains(ValidBackends(), c.Backend.Kind) {
		return fmt.Errorf("%w %q, must be one of: %s", ErrUnknownBackend, c.Backend.Kind,
			strings.Join(ValidBackends(), ", "))
	}
	if !contains(ValidFormats(), c.Output.Format) {
		return fmt.Errorf("%w %q", ErrUnknownFormat, c.Output.Format)
	}
	if c.Countdown.TimeLimit <= 0 {
		return fmt.Errorf("%w: time_limit must be positive, got %d", ErrInvalidCountdown, c.Countdown.TimeLimit)
	}
	if c.Countdown.WarningThreshold < 0 || c.Countdown.WarningThreshold > c.Countdown.TimeLimit {
		return fmt.Errorf("%w: warning_threshold must be between 0 and %d, got %d",
			ErrInvalidCountdown, c.Countdown.TimeLimit, c.Countdown.WarningThreshold)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("%w, got %d", ErrInvalidVolume, c.Audio.Volume)
	}
	return nil
}

// CountdownRequest builds the countdown request from config.
func (c *Config) CountdownRequest() model.CountdownRequest {
	return model.CountdownRequest{
		TimeLimit:        c.Countdown.TimeLimit,
		WarningThreshold: c.Countdown.WarningThreshold,
		Unit:             c.Countdown.Unit.Duration(),
		NormalStyle:      c.Countdown.NormalStyle,
		WarningStyle:     c.Countdown.WarningStyle,
		CompleteStyle:    c.Countdown.CompleteStyle,
	}
}

// HistoryPath returns the configured history path with ~ expanded.
// Empty means the store's default location.
func (c *Config) HistoryPath() string {
	return expandPath(c.History.Path)
}

// SubscriptionsPath returns the web push subscriptions file with ~
// expanded, defaulting to subscriptions.json in the config directory.
func (c *Config) SubscriptionsPath() string {
	if c.WebPush.Subscriptions == "" {
		return filepath.Join(ConfigDir(), "subscriptions.json")
	}
	return expandPath(c.WebPush.Subscriptions)
}

// SoundForSeverity returns the sound file for the severity with ~ expanded.
func (c *Config) SoundForSeverity(s model.Severity) string {
	var path string
	switch s {
	case model.SeverityInfo:
		path = c.Audio.Sounds.Info
	case model.SeveritySuccess:
		path = c.Audio.Sounds.Success
	case model.SeverityError:
		path = c.Audio.Sounds.Error
	default:
		path = c.Audio.Sounds.Notice
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
