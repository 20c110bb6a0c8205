package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cardui/internal/push"
)

var webpushKeysCmd = &cobra.Command{
	Use:   "webpush-keys",
	Short: "Generate a VAPID key pair",
	Long: `Generate a VAPID key pair for the webpush backend and print it as a
config snippet. The public key is also the applicationServerKey browsers
subscribe with.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := push.GenerateKeys()
		if err != nil {
			return fmt.Errorf("failed to generate VAPID keys: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "[webpush]\nvapid_public_key = %q\nvapid_private_key = %q\n", pub, priv)
		return err
	},
}

func init() {
	rootCmd.AddCommand(webpushKeysCmd)
}
