package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/store"
	"github.com/jmylchreest/cardui/internal/ui"
)

var errHistoryDisabled = errors.New("history is disabled, set [history] enabled = true")

var historyOpts struct {
	since    string
	severity string
	kind     string
	contains string
	limit    int
	prune    string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List notifications that were shown",
	Long: `List toasts and image previews shown by cardui, newest first.

History lives in $XDG_DATA_HOME/cardui/history.jsonl unless [history] path
is set, and entries older than [history] max_age are dropped on startup.

Examples:
  cardui history --since 1h
  cardui history --severity error --limit 5
  cardui history --format json
  cardui history --prune 7d`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Only entries newer than this (e.g. 1h, 7d, 2w)")
	historyCmd.Flags().StringVarP(&historyOpts.severity, "severity", "s", "",
		"Only this severity (none, info, success, error)")
	historyCmd.Flags().StringVar(&historyOpts.kind, "kind", "",
		"Only this kind (toast, image)")
	historyCmd.Flags().StringVar(&historyOpts.contains, "contains", "",
		"Only entries whose title or text contains this")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum entries to show (0 = all)")
	historyCmd.Flags().StringVar(&historyOpts.prune, "prune", "",
		"Delete entries older than this instead of listing")
}

// openHistory opens the configured history store and applies max_age.
// It returns nil when history is disabled.
func openHistory() (*store.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}

	path := cfg.HistoryPath()
	if path == "" {
		path = store.HistoryPath()
	}
	p, err := store.NewJSONLPersistence(path)
	if err != nil {
		return nil, err
	}
	s := store.NewStore(p)
	if err := s.Hydrate(); err != nil {
		_ = s.Close()
		return nil, err
	}

	maxAge, err := store.ParseDuration(cfg.History.MaxAge)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("history max_age: %w", err)
	}
	if maxAge > 0 {
		if removed, err := s.Prune(maxAge); err != nil {
			logger.Warn("failed to prune history", "error", err)
		} else if removed > 0 {
			logger.Debug("pruned history", "removed", removed)
		}
	}
	return s, nil
}

// withHistory wraps toaster so shown notifications are recorded.
func (b *backend) withHistory(toaster ui.Toaster) (ui.Toaster, error) {
	s, err := openHistory()
	if err != nil || s == nil {
		return toaster, err
	}
	b.closers = append(b.closers, s.Close)
	return store.NewHistoryToaster(toaster, s, cfg.Backend.Kind, logger), nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.History.Enabled {
		return errHistoryDisabled
	}
	s, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	out := cmd.OutOrStdout()

	if historyOpts.prune != "" {
		age, err := store.ParseDuration(historyOpts.prune)
		if err != nil {
			return err
		}
		if age <= 0 {
			return fmt.Errorf("prune age must be positive, got %q", historyOpts.prune)
		}
		removed, err := s.Prune(age)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Pruned %d entries, %d left\n", removed, s.Len())
		return nil
	}

	opts := store.QueryOptions{
		Kind:     historyOpts.kind,
		Contains: historyOpts.contains,
		Limit:    historyOpts.limit,
	}
	if opts.Since, err = store.ParseDuration(historyOpts.since); err != nil {
		return err
	}
	if historyOpts.severity != "" {
		sev, err := model.ParseSeverity(historyOpts.severity)
		if err != nil {
			return err
		}
		opts.Severity = &sev
	}

	entries := s.Query(opts)

	switch cfg.Output.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTITLE\tTEXT\tBACKEND")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", humanize.Time(e.CreatedAt), e.Title, e.Text(), e.Backend)
	}
	return w.Flush()
}
