package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/cardui/internal/model"
)

// Styles are the lipgloss styles the terminal backend renders with.
type Styles struct {
	Toast       map[model.Severity]lipgloss.Style
	ToastTitle  map[model.Severity]lipgloss.Style
	ImagePanel  lipgloss.Style
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	Card        lipgloss.Style
	FocusedCard lipgloss.Style
	Popover     lipgloss.Style
	Muted       lipgloss.Style
	Help        lipgloss.Style
}

// Styles builds the style set for the theme.
func (t *Theme) Styles() Styles {
	c := t.Palette.Colors
	border := lipgloss.Color(c.Border)
	text := lipgloss.Color(c.Text)
	muted := lipgloss.Color(c.Muted)
	focus := lipgloss.Color(c.Focus)

	s := Styles{
		Toast:      make(map[model.Severity]lipgloss.Style),
		ToastTitle: make(map[model.Severity]lipgloss.Style),
		ImagePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Foreground(text).
			Padding(0, 1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(focus).
			Foreground(text).
			Padding(1, 3),
		DialogTitle: lipgloss.NewStyle().Bold(true).Foreground(focus),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Foreground(text).
			Padding(0, 1),
		FocusedCard: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(focus).
			Foreground(text).
			Padding(0, 1),
		Popover: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(focus).
			Foreground(text).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().Foreground(muted),
		Help:  lipgloss.NewStyle().Foreground(muted).Italic(true),
	}

	for _, sev := range model.Severities() {
		color := t.SeverityColor(sev)
		s.Toast[sev] = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Foreground(text).
			Padding(0, 1).
			Width(36)
		s.ToastTitle[sev] = lipgloss.NewStyle().Bold(true).Foreground(color)
	}

	return s
}
