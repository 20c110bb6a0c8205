package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrThemeNotFound is returned when neither the user directory nor the
// bundled set has a theme of the requested name.
var ErrThemeNotFound = errors.New("theme not found")

// ThemesDir returns the path to the user's themes directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ThemesDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cardui", "themes")
}

// Loader resolves theme names and keeps the current theme.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	themesDir string
	theme     *Theme
}

// NewLoader creates a new theme loader. An empty themesDir uses ThemesDir().
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if themesDir == "" {
		themesDir = ThemesDir()
	}
	return &Loader{
		logger:    logger,
		themesDir: themesDir,
		theme:     NewDefaultTheme(),
	}
}

// LoadTheme loads a theme by name.
// Theme resolution order:
//  1. User themes directory (~/.config/cardui/themes/)
//  2. Embedded/bundled themes
//
// A user file with a bundled name overrides the bundled palette. A broken
// user file falls through to the bundled theme of the same name.
func (l *Loader) LoadTheme(name string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		themePath := filepath.Join(l.themesDir, name+".toml")
		if _, err := os.Stat(themePath); err == nil {
			theme, err := NewTheme(name, themePath)
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.set(theme)
				l.logger.Info("loaded user theme", "name", name, "path", themePath)
				return theme, nil
			}
		}
	}

	theme, err := newEmbeddedTheme(name)
	if err != nil {
		return nil, err
	}
	l.set(theme)
	l.logger.Debug("loaded bundled theme", "name", name)
	return theme, nil
}

// LoadOrDefault loads the named theme, falling back to the embedded
// default when it cannot be found.
func (l *Loader) LoadOrDefault(name string) *Theme {
	theme, err := l.LoadTheme(name)
	if err != nil {
		l.logger.Warn("theme not found, using default", "theme", name, "error", err)
		theme = NewDefaultTheme()
		l.set(theme)
	}
	return theme
}

// Theme returns the currently loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

func (l *Loader) set(theme *Theme) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.theme = theme
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	IsDefault bool   `json:"default" yaml:"default"`
	IsBundled bool   `json:"bundled" yaml:"bundled"`
}

// ListThemes lists all available themes, user themes first so they shadow
// bundled ones of the same name.
func (l *Loader) ListThemes() ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	if l.themesDir != "" {
		entries, err := os.ReadDir(l.themesDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read themes directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".toml")
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name: name,
				Path: filepath.Join(l.themesDir, entry.Name()),
			})
		}
	}

	for _, name := range ListEmbeddedThemes() {
		if seen[name] {
			continue
		}
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}
