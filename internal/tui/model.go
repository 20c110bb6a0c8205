// Package tui provides the BubbleTea-based terminal environment: a toast
// stack, a modal confirmation dialog, a countdown bar and a board of cards
// with popovers.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/theme"
	"github.com/jmylchreest/cardui/internal/ui"
)

// Demo messages sent by the notification keys.
var demoMessages = map[model.Severity]string{
	model.SeverityNone:    "Your turn",
	model.SeverityInfo:    "Opponent is thinking",
	model.SeveritySuccess: "Minion summoned",
	model.SeverityError:   "Not enough mana",
}

// maxToasts caps the visible toast stack; older toasts drop off.
const maxToasts = 5

type toast struct {
	req     model.NotificationRequest
	shownAt time.Time
}

type countdownState struct {
	req       model.CountdownRequest
	remaining int
	gen       int
	running   bool
}

// Options configures the model.
type Options struct {
	Kit    *ui.Kit // Facades driven by the keys; nil disables them
	Theme  *theme.Theme
	Cards  []Card
	Logger *slog.Logger
}

// Model is the main TUI model.
type Model struct {
	kit    *ui.Kit
	logger *slog.Logger

	theme  *theme.Theme
	styles theme.Styles

	// Notifications
	toasts []toast
	images []model.ImageNotificationRequest

	// Widgets
	dialogs   map[string]model.DialogState
	countdown countdownState
	progress  progress.Model

	// Board
	cards   []Card
	focus   int
	binding *model.PopoverRequest
	open    map[int]bool

	// Chrome
	keys      KeyMap
	help      help.Model
	showHelp  bool
	width     int
	height    int
	statusMsg string
	statusErr bool
	now       func() time.Time
}

// New creates a new TUI model.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Theme == nil {
		opts.Theme = theme.NewDefaultTheme()
	}
	if opts.Cards == nil {
		opts.Cards = DefaultCards()
	}

	return Model{
		kit:      opts.Kit,
		logger:   opts.Logger,
		theme:    opts.Theme,
		styles:   opts.Theme.Styles(),
		dialogs:  make(map[string]model.DialogState),
		progress: progress.New(progress.WithWidth(40), progress.WithoutPercentage()),
		cards:    opts.Cards,
		open:     make(map[int]bool),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		now:      time.Now,
	}
}

// Init binds the board's popovers through the facade.
func (m Model) Init() tea.Cmd {
	if m.kit == nil {
		return nil
	}
	return m.call("bind popovers", m.kit.Popovers.BindDefault)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case toastMsg:
		m.toasts = append(m.toasts, toast{req: msg.req, shownAt: m.now()})
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		if !msg.req.Expires() {
			return m, nil
		}
		id := msg.req.ID
		return m, tea.Tick(msg.req.Duration(), func(time.Time) tea.Msg {
			return expireMsg{id: id}
		})

	case expireMsg:
		for i, t := range m.toasts {
			if t.req.ID == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case imageMsg:
		m.images = append(m.images, msg.req)
		return m, nil

	case dialogMsg:
		m.dialogs[msg.name] = msg.state
		return m, nil

	case countdownMsg:
		m.countdown = countdownState{
			req:       msg.req,
			remaining: msg.req.TimeLimit,
			gen:       m.countdown.gen + 1,
			running:   msg.req.TimeLimit > 0,
		}
		return m, m.countdownTick()

	case countdownTickMsg:
		if msg.gen != m.countdown.gen || !m.countdown.running {
			return m, nil
		}
		m.countdown.remaining--
		if m.countdown.remaining <= 0 {
			m.countdown.remaining = 0
			m.countdown.running = false
			return m, nil
		}
		return m, m.countdownTick()

	case popoverMsg:
		req := msg.req
		m.binding = &req
		m.open = make(map[int]bool)
		return m, nil

	case themeMsg:
		m.theme = msg.theme
		m.styles = msg.theme.Styles()
		return m, nil

	case configMsg:
		if m.kit == nil || m.binding == nil || msg.cfg.Popover.Trigger == m.binding.Trigger {
			return m, nil
		}
		trigger := msg.cfg.Popover.Trigger
		selector := m.binding.Selector
		return m, m.call("rebind popovers", func(ctx context.Context) error {
			return m.kit.Popovers.BindPopovers(ctx, selector, trigger)
		})

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) countdownTick() tea.Cmd {
	if !m.countdown.running {
		return nil
	}
	gen := m.countdown.gen
	return tea.Tick(m.countdown.req.Tick(), func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The modal owns the keyboard while it is open.
	if m.dialogOpen() {
		return m.handleDialogKey(msg)
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextCard):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCard):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if m.binding != nil && m.binding.Trigger == model.TriggerClick && m.matches(m.focus) {
			m.open[m.focus] = !m.open[m.focus]
		}
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		if len(m.images) > 0 {
			m.images = m.images[:len(m.images)-1]
		}
		return m, nil
	}

	if m.kit == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Notify):
		return m, m.notify(model.SeverityNone)
	case key.Matches(msg, m.keys.Info):
		return m, m.notify(model.SeverityInfo)
	case key.Matches(msg, m.keys.Success):
		return m, m.notify(model.SeveritySuccess)
	case key.Matches(msg, m.keys.Error):
		return m, m.notify(model.SeverityError)
	case key.Matches(msg, m.keys.Image):
		url := m.cards[m.focus].Data(m.imageAttribute())
		return m, m.call("image", func(ctx context.Context) error {
			return m.kit.Notifications.NotifyImage(ctx, url)
		})
	case key.Matches(msg, m.keys.Dialog):
		return m, m.call("dialog", m.kit.Widgets.ShowConfirmationDialog)
	case key.Matches(msg, m.keys.Countdown):
		return m, m.call("countdown", m.kit.Widgets.StartCountdown)
	case key.Matches(msg, m.keys.ToggleTrigger):
		next := model.TriggerClick
		selector := model.DefaultPopoverSelector
		if m.binding != nil {
			selector = m.binding.Selector
			if m.binding.Trigger == model.TriggerClick {
				next = model.TriggerFocus
			}
		}
		return m, m.call("rebind popovers", func(ctx context.Context) error {
			return m.kit.Popovers.BindPopovers(ctx, selector, next)
		})
	}

	return m, nil
}

// handleDialogKey answers the open dialog.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer string
	switch {
	case key.Matches(msg, m.keys.Confirm):
		answer = "Confirmed"
	case key.Matches(msg, m.keys.Cancel):
		answer = "Cancelled"
	default:
		return m, nil
	}

	if m.kit == nil {
		for name := range m.dialogs {
			m.dialogs[name] = model.DialogHidden
		}
		return m, nil
	}
	hide := m.call("hide dialog", m.kit.Widgets.HideConfirmationDialog)
	return m, func() tea.Msg {
		if msg := hide(); msg != nil {
			return msg
		}
		return statusMsg{text: answer}
	}
}

func (m Model) notify(severity model.Severity) tea.Cmd {
	text := demoMessages[severity]
	return m.call("notify", func(ctx context.Context) error {
		return m.kit.Notifications.NotifySeverity(ctx, severity, text)
	})
}

// call runs a facade operation off the event loop and reports failures in
// the status line.
func (m Model) call(what string, fn func(ctx context.Context) error) tea.Cmd {
	logger := m.logger
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			logger.Warn("facade call failed", "op", what, "error", err)
			return statusMsg{text: fmt.Sprintf("%s failed: %v", what, err), isErr: true}
		}
		return nil
	}
}

func (m *Model) moveFocus(delta int) {
	if len(m.cards) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(m.cards)) % len(m.cards)
}

func (m Model) imageAttribute() string {
	if m.binding != nil && m.binding.Attribute != "" {
		return m.binding.Attribute
	}
	return model.DefaultImageAttribute
}

// matches reports whether card i is covered by the bound popovers.
func (m Model) matches(i int) bool {
	return m.binding != nil && i >= 0 && i < len(m.cards) && matchSelector(m.binding.Selector, m.cards[i])
}

// popoverVisible reports whether card i currently shows its popover.
func (m Model) popoverVisible(i int) bool {
	if !m.matches(i) {
		return false
	}
	if m.binding.Trigger == model.TriggerFocus {
		return i == m.focus
	}
	return m.open[i]
}

// dialogOpen reports whether any dialog is visible.
func (m Model) dialogOpen() bool {
	for _, state := range m.dialogs {
		if state == model.DialogVisible {
			return true
		}
	}
	return false
}

// View renders the TUI.
func (m Model) View() string {
	if m.dialogOpen() {
		return m.viewDialog()
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		"",
		m.viewBoard(),
		m.viewPopover(),
		"",
		m.viewCountdown(),
		m.viewImages(),
		m.viewFooter(),
	)

	if len(m.toasts) == 0 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", m.viewToasts())
}

func (m Model) viewHeader() string {
	trigger := "unbound"
	if m.binding != nil {
		trigger = m.binding.Trigger.String()
	}
	return m.styles.DialogTitle.Render("cardui") +
		m.styles.Muted.Render(fmt.Sprintf("  theme %s  popovers on %s", m.theme.Name, trigger))
}

func (m Model) viewBoard() string {
	rendered := make([]string, len(m.cards))
	for i, c := range m.cards {
		style := m.styles.Card
		if i == m.focus {
			style = m.styles.FocusedCard
		}
		rendered[i] = style.Render(c.Name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewPopover() string {
	var out []string
	for i, c := range m.cards {
		if !m.popoverVisible(i) {
			continue
		}
		out = append(out, m.styles.Popover.Render(c.Name+"\n"+m.binding.Render(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewCountdown() string {
	if m.countdown.gen == 0 {
		return ""
	}
	req := m.countdown.req
	remaining := m.countdown.remaining
	phase := req.Phase(remaining)

	bar := m.progress
	bar.FullColor = string(m.theme.ProgressColor(req.Style(phase)))

	label := fmt.Sprintf(" %d", remaining)
	if phase == model.PhaseComplete {
		label = " Time's up"
	}
	return bar.ViewAs(req.Fraction(remaining)) + m.styles.Muted.Render(label)
}

func (m Model) viewImages() string {
	if len(m.images) == 0 {
		return ""
	}
	var out []string
	for _, img := range m.images {
		out = append(out, m.styles.ImagePanel.Render(
			m.styles.DialogTitle.Render(img.Title)+"\n"+img.Body()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m Model) viewToasts() string {
	now := m.now()
	out := make([]string, 0, len(m.toasts))
	for i := len(m.toasts) - 1; i >= 0; i-- {
		t := m.toasts[i]
		sev := t.req.Severity
		age := humanize.RelTime(t.shownAt, now, "ago", "from now")
		body := m.styles.ToastTitle[sev].Render(t.req.Title) + " " + m.styles.Muted.Render(age) +
			"\n" + t.req.Message
		out = append(out, m.styles.Toast[sev].Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Right, out...)
}

func (m Model) viewFooter() string {
	if m.statusMsg != "" {
		style := m.styles.Muted
		if m.statusErr {
			style = m.styles.ToastTitle[model.SeverityError]
		}
		return "\n" + style.Render(m.statusMsg)
	}
	return "\n" + m.help.View(m.keys)
}

func (m Model) viewDialog() string {
	body := m.styles.DialogTitle.Render("Confirm") + "\n\n" +
		"Are you sure?" + "\n\n" +
		m.styles.Help.Render(m.help.ShortHelpView(m.keys.DialogHelp()))
	box := m.styles.Dialog.Render(body)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
