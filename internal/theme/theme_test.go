package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/cardui/internal/model"
)

const userTheme = `
name = "neon"

[colors]
error = "#ff00ff"

[progress]
progress-bar-danger = "#ff0000"
`

func writeTheme(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_PartialFallsBackToDefault(t *testing.T) {
	palette, err := Parse("neon", []byte(userTheme))
	require.NoError(t, err)

	def := NewDefaultTheme().Palette
	assert.Equal(t, "neon", palette.Name)
	assert.Equal(t, "#ff00ff", palette.Colors.Error)
	assert.Equal(t, def.Colors.Info, palette.Colors.Info)
	assert.Equal(t, "#ff0000", palette.Progress["progress-bar-danger"])
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("broken", []byte("colors = [unterminated"))
	assert.Error(t, err)
}

func TestNewTheme(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "neon", userTheme)

	theme, err := NewTheme("neon", path)
	require.NoError(t, err)
	assert.Equal(t, path, theme.Path)
	assert.False(t, theme.IsDefault)
	assert.False(t, theme.IsBundled)
	assert.False(t, theme.ModTime.IsZero())
}

func TestNewTheme_NotFound(t *testing.T) {
	_, err := NewTheme("missing", "/nonexistent/missing.toml")
	assert.Error(t, err)
}

func TestTheme_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "neon", userTheme)

	theme, err := NewTheme("neon", path)
	require.NoError(t, err)

	changed, err := theme.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file should not report a change")

	require.NoError(t, os.WriteFile(path, []byte("[colors]\nerror = \"#00ff00\"\n"), 0644))

	changed, err = theme.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "#00ff00", theme.Palette.Colors.Error)
}

func TestTheme_ReloadBundled(t *testing.T) {
	changed, err := NewDefaultTheme().Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestTheme_Colors(t *testing.T) {
	theme := NewDefaultTheme()
	c := theme.Palette.Colors

	assert.Equal(t, lipgloss.Color(c.Notice), theme.SeverityColor(model.SeverityNone))
	assert.Equal(t, lipgloss.Color(c.Info), theme.SeverityColor(model.SeverityInfo))
	assert.Equal(t, lipgloss.Color(c.Success), theme.SeverityColor(model.SeveritySuccess))
	assert.Equal(t, lipgloss.Color(c.Error), theme.SeverityColor(model.SeverityError))

	assert.Equal(t, lipgloss.Color(theme.Palette.Progress["progress-bar-warning"]),
		theme.ProgressColor("progress-bar-warning"))
	assert.Equal(t, lipgloss.Color(c.Muted), theme.ProgressColor("progress-bar-striped"))
}

func TestTheme_Styles(t *testing.T) {
	styles := NewDefaultTheme().Styles()
	for _, sev := range model.Severities() {
		_, ok := styles.Toast[sev]
		assert.True(t, ok, "missing toast style for %s", sev)
	}
	assert.NotEmpty(t, styles.Dialog.Render("Are you sure?"))
}

func TestLoader_ResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "catppuccin", userTheme)

	l := NewLoader(dir, nil)

	theme, err := l.LoadTheme("catppuccin")
	require.NoError(t, err)
	assert.False(t, theme.IsBundled, "user theme should shadow bundled theme")
	assert.Equal(t, "#ff00ff", theme.Palette.Colors.Error)
	assert.Same(t, theme, l.Theme())

	theme, err = l.LoadTheme("mono")
	require.NoError(t, err)
	assert.True(t, theme.IsBundled)

	theme, err = l.LoadTheme("")
	require.NoError(t, err)
	assert.True(t, theme.IsDefault)
}

func TestLoader_BrokenUserThemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "mono", "not = [valid")

	theme, err := NewLoader(dir, nil).LoadTheme("mono")
	require.NoError(t, err)
	assert.True(t, theme.IsBundled)
}

func TestLoader_NotFound(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)

	_, err := l.LoadTheme("solarized")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	theme := l.LoadOrDefault("solarized")
	assert.True(t, theme.IsDefault)
	assert.Same(t, theme, l.Theme())
}

func TestLoader_ListThemes(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "neon", userTheme)
	writeTheme(t, dir, "mono", userTheme)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	themes, err := NewLoader(dir, nil).ListThemes()
	require.NoError(t, err)

	names := make([]string, len(themes))
	for i, th := range themes {
		names[i] = th.Name
	}
	assert.Equal(t, []string{"catppuccin", "default", "mono", "neon"}, names)

	for _, th := range themes {
		switch th.Name {
		case "mono", "neon":
			assert.False(t, th.IsBundled, th.Name)
		case "default":
			assert.True(t, th.IsDefault)
			assert.True(t, th.IsBundled)
		}
	}
}

func TestThemesDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/cardui/themes", ThemesDir())
}

func TestWatcher_BundledThemeNotWatched(t *testing.T) {
	w := NewWatcher(NewDefaultTheme(), nil)
	require.NoError(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
	w.Stop()
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "neon", userTheme)

	theme, err := NewTheme("neon", path)
	require.NoError(t, err)

	changes := make(chan *Theme, 16)
	w := NewWatcher(theme, nil)
	w.SetChangeCallback(func(th *Theme) {
		select {
		case changes <- th:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte("[colors]\nerror = \"#123456\"\n"), 0644))

	// A truncate and a write may arrive as separate events.
	timeout := time.After(2 * time.Second)
	for {
		select {
		case th := <-changes:
			if th.Palette.Colors.Error == "#123456" {
				return
			}
		case <-timeout:
			t.Fatal("expected theme change")
		}
	}
}
