package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/dbus"
)

var serverInfoCmd = &cobra.Command{
	Use:   "server-info",
	Short: "Show the desktop notification daemon",
	Long: `Query the session notification daemon for its name, version and
capabilities. Useful to check whether it supports actions (for the dialog)
and body-markup (for image previews).`,
	Args: cobra.NoArgs,
	RunE: runServerInfo,
}

func init() {
	rootCmd.AddCommand(serverInfoCmd)
}

func runServerInfo(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	client, err := dbus.Connect(dbus.Options{AppName: cfg.Notify.AppName}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	info, err := client.ServerInformation(ctx)
	if err != nil {
		return err
	}
	caps, err := client.Capabilities(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %s (%s), spec %s\n", info.Name, info.Version, info.Vendor, info.SpecVersion)
	_, err = fmt.Fprintf(out, "capabilities: %s\n", strings.Join(caps, ", "))
	return err
}
