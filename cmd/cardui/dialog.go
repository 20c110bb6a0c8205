package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/dbus"
)

var dialogOpts struct {
	wait time.Duration
}

var dialogCmd = &cobra.Command{
	Use:   "dialog",
	Short: "Show or hide the confirmation dialog",
	Long: `Show or hide the confirmation dialog.

Dialog state lives in the backend, so a dialog shown by one cardui process
cannot be hidden by another. With the dbus backend, 'dialog show --wait'
keeps the dialog open until it is answered and prints the answer:
confirm, cancel or dismissed.`,
}

var dialogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the confirmation dialog",
	Args:  cobra.NoArgs,
	RunE:  runDialogShow,
}

var dialogHideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the confirmation dialog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			return b.kit.Widgets.HideConfirmationDialog(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(dialogCmd)
	dialogCmd.AddCommand(dialogShowCmd, dialogHideCmd)

	dialogShowCmd.Flags().DurationVar(&dialogOpts.wait, "wait", 0,
		"Wait up to this long for an answer (dbus backend only)")
}

func runDialogShow(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		if dialogOpts.wait <= 0 || b.dbus == nil {
			if dialogOpts.wait > 0 {
				logger.Warn("--wait needs the dbus backend", "backend", cfg.Backend.Kind)
			}
			return b.kit.Widgets.ShowConfirmationDialog(ctx)
		}

		events := make(chan dbus.DialogEvent, 1)
		b.dbus.SetDialogCallback(func(e dbus.DialogEvent) {
			select {
			case events <- e:
			default:
			}
		})

		if err := b.kit.Widgets.ShowConfirmationDialog(ctx); err != nil {
			return err
		}

		waitCtx, cancel := context.WithTimeout(ctx, dialogOpts.wait)
		defer cancel()

		select {
		case e := <-events:
			answer := e.Action
			if answer == "" {
				answer = "dismissed"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		case <-waitCtx.Done():
			if err := b.kit.Widgets.HideConfirmationDialog(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to hide unanswered dialog", "error", err)
			}
			return fmt.Errorf("no answer: %w", waitCtx.Err())
		}
	})
}
