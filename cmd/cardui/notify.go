package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/model"
)

var notifyOpts struct {
	severity string
}

var notifyCmd = &cobra.Command{
	Use:   "notify <message...>",
	Short: "Show a toast",
	Long: `Show a toast with the given message for one second.

Without --severity the toast is a neutral notice titled "Notice". The
info, success and error subcommands are shortcuts for --severity.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sev, err := model.ParseSeverity(notifyOpts.severity)
		if err != nil {
			return err
		}
		return notify(cmd, sev, args)
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <url>",
	Short: "Show a card image preview",
	Long: `Show a persistent "Card Img" notification embedding the image at url.

The url is used exactly as given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			return b.kit.Notifications.NotifyImage(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd, imageCmd)
	for _, sev := range []model.Severity{model.SeverityInfo, model.SeveritySuccess, model.SeverityError} {
		rootCmd.AddCommand(severityCmd(sev))
	}

	notifyCmd.Flags().StringVarP(&notifyOpts.severity, "severity", "s", "",
		"Severity (info, success, error; empty for a neutral notice)")
}

// severityCmd builds the shortcut command for sev.
func severityCmd(sev model.Severity) *cobra.Command {
	return &cobra.Command{
		Use:   sev.Name() + " <message...>",
		Short: fmt.Sprintf("Show a %q toast", sev.Title()),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return notify(cmd, sev, args)
		},
	}
}

func notify(cmd *cobra.Command, sev model.Severity, args []string) error {
	msg := strings.Join(args, " ")
	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		return b.kit.Notifications.NotifySeverity(ctx, sev, msg)
	})
}
