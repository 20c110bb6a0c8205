package input

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/cardui/internal/model"
)

// StdinAdapter reads commands from standard input or any reader.
type StdinAdapter struct {
	reader io.Reader
}

var _ InputAdapter = (*StdinAdapter)(nil)

// NewStdinAdapterWithReader creates a new StdinAdapter with a custom reader.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Import reads commands.
// Supports two formats:
//  1. JSON array of commands
//  2. One command per line. "<severity>: text" and "image: url" take a
//     colon; dialog, countdown and popover accept either a colon or a
//     space: "dialog show", "dialog: hide", "countdown",
//     "popover click [selector]". Other lines become neutral notices;
//     blank lines and lines starting with # are skipped.
//
// Lines that name a command with bad arguments are reported as
// *LineError values; the remaining lines are still returned.
func (a *StdinAdapter) Import(ctx context.Context) ([]Command, error) {
	scanner := bufio.NewScanner(a.reader)
	const maxSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxSize)

	var lines []string
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &AdapterError{
			Source:  "stdin",
			Message: "failed to read stdin",
			Err:     err,
		}
	}

	data := strings.TrimSpace(strings.Join(lines, "\n"))
	if data == "" {
		return nil, nil
	}

	if strings.HasPrefix(data, "[") {
		return parseJSONArray([]byte(data))
	}

	var commands []Command
	var errs []error
	for i, line := range lines {
		cmd, ok, err := parseLine(line)
		if err != nil {
			errs = append(errs, &LineError{Line: i + 1, Err: err})
			continue
		}
		if ok {
			cmd.Line = i + 1
			commands = append(commands, cmd)
		}
	}
	return commands, errors.Join(errs...)
}

// parseJSONArray parses a JSON array of commands.
func parseJSONArray(data []byte) ([]Command, error) {
	var commands []Command
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, &AdapterError{
			Source:  "stdin",
			Message: "failed to parse JSON input",
			Err:     err,
		}
	}
	return commands, nil
}

// parseLine parses the line format. ok is false for lines to skip.
func parseLine(line string) (Command, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, false, nil
	}

	if prefix, rest, found := strings.Cut(line, ":"); found && !strings.ContainsAny(strings.TrimSpace(prefix), " \t") {
		key := strings.ToLower(strings.TrimSpace(prefix))
		rest = strings.TrimSpace(rest)
		switch key {
		case "none", "notice", "info", "success", "error":
			severity, err := model.ParseSeverity(key)
			if err != nil {
				return Command{}, false, err
			}
			return Command{Kind: KindNotify, Severity: severity, Message: rest}, true, nil
		case KindImage:
			cmd := Command{Kind: KindImage, Message: rest}
			return cmd, true, cmd.Validate()
		case KindDialog, KindCountdown, KindPopover:
			return parseWidget(key, rest)
		}
		// A colon inside an ordinary message, e.g. "Turn 3: draw".
		return Command{Kind: KindNotify, Message: line}, true, nil
	}

	word, rest, _ := strings.Cut(line, " ")
	switch key := strings.ToLower(word); key {
	case KindDialog, KindCountdown, KindPopover:
		return parseWidget(key, strings.TrimSpace(rest))
	}
	return Command{Kind: KindNotify, Message: line}, true, nil
}

// parseWidget parses the arguments of dialog, countdown and popover lines.
func parseWidget(kind, args string) (Command, bool, error) {
	fields := strings.Fields(args)
	switch kind {
	case KindDialog:
		if len(fields) != 1 {
			return Command{}, false, fmt.Errorf("dialog needs show or hide, got %q", args)
		}
		cmd := Command{Kind: KindDialog, Message: strings.ToLower(fields[0])}
		if err := cmd.Validate(); err != nil {
			return Command{}, false, err
		}
		return cmd, true, nil
	case KindCountdown:
		if len(fields) != 0 {
			return Command{}, false, fmt.Errorf("countdown takes no arguments, got %q", args)
		}
		return Command{Kind: KindCountdown}, true, nil
	default:
		cmd := Command{Kind: KindPopover}
		if len(fields) > 0 {
			cmd.Message = strings.ToLower(fields[0])
		}
		if len(fields) > 1 {
			cmd.Selector = strings.Join(fields[1:], " ")
		}
		if err := cmd.Validate(); err != nil {
			return Command{}, false, err
		}
		return cmd, true, nil
	}
}
