package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/config"
)

var countdownOpts struct {
	timeLimit int
	warning   int
	unit      time.Duration
	detach    bool
}

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Start the turn countdown",
	Long: `Start the countdown indicator: 75 units, warning from 15 remaining.

With the dbus backend the notification is updated once per unit and the
command waits until time is up, unless --detach is given (the countdown
then stops when cardui exits).`,
	Args: cobra.NoArgs,
	RunE: runCountdown,
}

func init() {
	rootCmd.AddCommand(countdownCmd)

	countdownCmd.Flags().IntVar(&countdownOpts.timeLimit, "time-limit", 0,
		"Number of units (default from config)")
	countdownCmd.Flags().IntVar(&countdownOpts.warning, "warning", -1,
		"Remaining units at which the warning style starts, at most --time-limit\n(default from config, lowered to the time limit if larger)")
	countdownCmd.Flags().DurationVar(&countdownOpts.unit, "unit", 0,
		"Length of one unit (default from config)")
	countdownCmd.Flags().BoolVar(&countdownOpts.detach, "detach", false,
		"Return as soon as the countdown has started")
}

func runCountdown(cmd *cobra.Command, args []string) error {
	if countdownOpts.timeLimit > 0 {
		cfg.Countdown.TimeLimit = countdownOpts.timeLimit
	}
	if countdownOpts.warning >= 0 {
		cfg.Countdown.WarningThreshold = countdownOpts.warning
	} else if cfg.Countdown.WarningThreshold > cfg.Countdown.TimeLimit {
		// A shorter limit pulls the configured warning down with it.
		cfg.Countdown.WarningThreshold = cfg.Countdown.TimeLimit
	}
	if countdownOpts.unit > 0 {
		cfg.Countdown.Unit = config.Duration(countdownOpts.unit)
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		if err := b.kit.Widgets.StartCountdown(ctx); err != nil {
			return err
		}
		if b.dbus == nil || countdownOpts.detach {
			return nil
		}
		return b.dbus.WaitCountdown(ctx)
	})
}
