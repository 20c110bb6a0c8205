package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/adapter/input"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Replay a script of notifications",
	Long: `Replay notifications, dialogs, countdowns and popovers from a file or
stdin.

The input is either a JSON array of commands or one command per line:

  info: Opponent is thinking
  error: Not enough mana
  image: /img/cards/chillwind-yeti.png
  dialog show
  dialog: hide
  countdown
  popover click
  popover focus .card[data-img]

Lines starting with # are comments. Lines that do not start with a command
are shown as neutral notices. A malformed or failing line is reported with
its line number and the rest of the script still runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	return replay(cmd, input.NewStdinAdapterWithReader(r))
}

// replay runs every command the adapter yields, then reports parse and
// dispatch failures together.
func replay(cmd *cobra.Command, adapter input.InputAdapter) error {
	commands, parseErr := adapter.Import(cmd.Context())
	if !input.OnlyLineErrors(parseErr) {
		return parseErr
	}
	logger.Debug("replaying script", "source", adapter.Name(), "commands", len(commands))

	runErr := withBackend(cmd, func(ctx context.Context, b *backend) error {
		err := input.Run(ctx, b.kit, commands)
		if b.dbus != nil {
			err = errors.Join(err, b.dbus.WaitCountdown(ctx))
		}
		return err
	})
	return errors.Join(parseErr, runErr)
}
