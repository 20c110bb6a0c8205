package theme

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/cardui/internal/model"
)

// Palette is the decoded form of a theme file.
type Palette struct {
	Name     string            `toml:"name"`
	Colors   Colors            `toml:"colors"`
	Progress map[string]string `toml:"progress"` // Countdown style id -> colour
}

// Colors holds the named colours of a palette. Values are anything
// lipgloss.Color accepts: ANSI numbers or #rrggbb.
type Colors struct {
	Notice  string `toml:"notice"`
	Info    string `toml:"info"`
	Success string `toml:"success"`
	Error   string `toml:"error"`
	Text    string `toml:"text"`
	Muted   string `toml:"muted"`
	Border  string `toml:"border"`
	Focus   string `toml:"focus"`
}

// Theme represents a palette with metadata.
type Theme struct {
	Name      string    // Theme name (without .toml extension)
	Path      string    // Full path to the TOML file (empty for embedded)
	Palette   Palette   // Decoded palette
	ModTime   time.Time // Last modification time
	IsDefault bool      // True if this is the embedded default theme
	IsBundled bool      // True if loaded from the embedded set

	raw []byte
}

// Parse decodes palette data. Missing colours fall back to the embedded
// default palette so partial user themes are valid.
func Parse(name string, data []byte) (Palette, error) {
	p := basePalette()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Palette{}, fmt.Errorf("failed to parse theme %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// NewTheme creates a new Theme by loading a TOML file.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	palette, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		Palette: palette,
		ModTime: info.ModTime(),
		raw:     data,
	}, nil
}

// newEmbeddedTheme creates a theme from the bundled set.
func newEmbeddedTheme(name string) (*Theme, error) {
	data, found := GetEmbeddedTheme(name)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	palette, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	return &Theme{
		Name:      name,
		Palette:   palette,
		IsDefault: name == DefaultThemeName,
		IsBundled: true,
		raw:       data,
	}, nil
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:      DefaultThemeName,
		Palette:   basePalette(),
		IsDefault: true,
		IsBundled: true,
	}
}

// basePalette decodes the embedded default palette. The bundled file is
// covered by tests, so a decode failure leaves the zero palette.
func basePalette() Palette {
	var p Palette
	if data, found := GetEmbeddedTheme(DefaultThemeName); found {
		_ = toml.Unmarshal(data, &p)
	}
	return p
}

// Reload reloads the theme from disk.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsBundled || t.Path == "" {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	if info.ModTime().Equal(t.ModTime) && info.Size() == int64(len(t.raw)) {
		return false, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	palette, err := Parse(t.Name, data)
	if err != nil {
		return false, err
	}

	changed := !bytes.Equal(data, t.raw)
	t.Palette = palette
	t.ModTime = info.ModTime()
	t.raw = data

	return changed, nil
}

// SeverityColor returns the colour for a toast severity.
func (t *Theme) SeverityColor(s model.Severity) lipgloss.Color {
	c := t.Palette.Colors
	switch s {
	case model.SeverityInfo:
		return lipgloss.Color(c.Info)
	case model.SeveritySuccess:
		return lipgloss.Color(c.Success)
	case model.SeverityError:
		return lipgloss.Color(c.Error)
	default:
		return lipgloss.Color(c.Notice)
	}
}

// ProgressColor returns the colour bound to a countdown style id. Unknown
// ids use the muted colour.
func (t *Theme) ProgressColor(style string) lipgloss.Color {
	if c, ok := t.Palette.Progress[style]; ok && c != "" {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(t.Palette.Colors.Muted)
}
