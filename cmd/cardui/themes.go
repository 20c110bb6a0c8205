package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/cardui/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List bundled and user themes. User themes live in
~/.config/cardui/themes/<name>.toml and shadow bundled themes of the same
name. The list honours --format (plain, json, yaml).`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

var themesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a theme's palette as TOML",
	Long: `Print a theme's palette as TOML. Redirect it into the themes
directory to start a custom theme.`,
	Args: cobra.ExactArgs(1),
	RunE: runThemesShow,
}

func init() {
	rootCmd.AddCommand(themesCmd)
	themesCmd.AddCommand(themesShowCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := theme.NewLoader("", logger).ListThemes()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(themes)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(themes)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSOURCE\tPATH")
	for _, t := range themes {
		source := "user"
		if t.IsBundled {
			source = "bundled"
		}
		name := t.Name
		if t.Name == cfg.Theme.Name {
			name += " *"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, source, t.Path)
	}
	return w.Flush()
}

func runThemesShow(cmd *cobra.Command, args []string) error {
	t, err := theme.NewLoader("", logger).LoadTheme(args[0])
	if err != nil {
		return err
	}
	data, err := toml.Marshal(t.Palette)
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
