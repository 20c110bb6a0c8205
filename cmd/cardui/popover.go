package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/model"
)

var popoverOpts struct {
	trigger string
}

var popoverCmd = &cobra.Command{
	Use:   "popover [selector]",
	Short: "Bind card image popovers",
	Long: `Bind image popovers to every element matching selector.

The selector defaults to the configured one ([data-toggle="popover"]) and
the trigger to the configured mode (focus). Each popover shows the image
named by the element's data-img attribute.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPopover,
}

func init() {
	rootCmd.AddCommand(popoverCmd)

	popoverCmd.Flags().StringVarP(&popoverOpts.trigger, "trigger", "t", "",
		"Trigger mode (focus, click; default from config)")
}

func runPopover(cmd *cobra.Command, args []string) error {
	selector := cfg.Popover.Selector
	if len(args) == 1 {
		selector = args[0]
	}
	mode := cfg.Popover.Trigger
	if popoverOpts.trigger != "" {
		var err error
		mode, err = model.ParseTriggerMode(popoverOpts.trigger)
		if err != nil {
			return err
		}
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		return b.kit.Popovers.BindPopovers(ctx, selector, mode)
	})
}
