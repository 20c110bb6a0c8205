package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// PlainFormatter formats events as plain text, one line per event.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
	now      func() time.Time
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts, now: time.Now}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes the event as a single line.
func (f *PlainFormatter) Format(w io.Writer, e Event) error {
	if f.template != nil {
		if err := f.template.Execute(w, e); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	_, err := io.WriteString(w, f.line(e)+"\n")
	return err
}

func (f *PlainFormatter) line(e Event) string {
	var sb strings.Builder
	sb.WriteString("[" + f.label(e) + "] ")

	switch {
	case e.Toast != nil:
		sb.WriteString(e.Toast.Title + ": " + sanitizeBody(e.Toast.Message, f.opts.BodyMaxLen))
		if e.Toast.Expires() {
			sb.WriteString(fmt.Sprintf(" (%s)", e.Toast.Duration()))
		}
	case e.Image != nil:
		sb.WriteString(e.Image.Title + ": " + e.Image.Body)
	case e.Dialog != nil:
		sb.WriteString(e.Dialog.Name + " " + e.Dialog.State.String())
	case e.Countdown != nil:
		c := e.Countdown
		sb.WriteString(fmt.Sprintf("%d x %s, warning at %d (%s/%s/%s)",
			c.TimeLimit, c.Tick(), c.WarningThreshold,
			c.NormalStyle, c.WarningStyle, c.CompleteStyle))
	case e.Popover != nil:
		p := e.Popover
		sb.WriteString(fmt.Sprintf("%s trigger=%s html=%t attribute=%s",
			p.Selector, p.Trigger, p.HTML, p.Attribute))
	}

	if f.opts.ShowTime && !e.At.IsZero() {
		sb.WriteString(" " + humanize.RelTime(e.At, f.now(), "ago", "from now"))
	}
	return sb.String()
}

// label is the bracketed prefix: the severity for toasts, the kind otherwise.
func (f *PlainFormatter) label(e Event) string {
	if e.Toast != nil {
		return e.Toast.Severity.String()
	}
	return e.Kind
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return sanitizeBody(s, maxLen)
		},
		"reltime": func(t time.Time) string {
			return humanize.Time(t)
		},
		"upper": strings.ToUpper,
	}
}

// sanitizeBody cleans up message text for single-line display.
func sanitizeBody(body string, maxLen int) string {
	body = strings.ReplaceAll(body, "\n", " ")
	body = strings.ReplaceAll(body, "\r", "")

	// Collapse multiple spaces
	for strings.Contains(body, "  ") {
		body = strings.ReplaceAll(body, "  ", " ")
	}

	body = strings.TrimSpace(body)

	// maxLen counts terminal columns, so wide runes take two.
	if maxLen > 0 && runewidth.StringWidth(body) > maxLen {
		if maxLen <= 3 {
			return runewidth.Truncate(body, maxLen, "")
		}
		return runewidth.Truncate(body, maxLen, "...")
	}

	return body
}
