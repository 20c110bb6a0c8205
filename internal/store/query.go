package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/cardui/internal/model"
)

// QueryOptions specifies criteria for filtering history.
type QueryOptions struct {
	Since    time.Duration   // Only entries newer than now-since (0 = all)
	Severity *model.Severity // nil = any
	Kind     string          // toast, image or "" for both
	Contains string          // Case-insensitive match on title or text
	Limit    int             // Maximum results (0 = unlimited)
}

// Filter returns the entries matching opts, newest first.
func Filter(entries []Entry, opts QueryOptions, now time.Time) []Entry {
	needle := strings.ToLower(opts.Contains)
	result := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if opts.Since > 0 && e.CreatedAt.Before(now.Add(-opts.Since)) {
			continue
		}
		if opts.Severity != nil && e.Severity != *opts.Severity {
			continue
		}
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Text()), needle) {
			continue
		}
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// ParseDuration parses a duration with day and week suffixes:
// 48h, 7d, 1w. "0" and "" mean no limit.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" {
		return 0, nil
	}

	if days, found := strings.CutSuffix(s, "d"); found {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if weeks, found := strings.CutSuffix(s, "w"); found {
		n, err := strconv.Atoi(weeks)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
