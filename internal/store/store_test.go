package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/cardui/internal/model"
	"github.com/jmylchreest/cardui/internal/testutil"
)

func TestStore_AddDeduplicates(t *testing.T) {
	s := NewStore(nil)

	require.NoError(t, s.Add(testEntry("a", model.SeverityInfo, 0)))
	require.NoError(t, s.Add(testEntry("a", model.SeverityError, 0)))
	require.NoError(t, s.Add(testEntry("b", model.SeverityError, 0)))

	assert.Equal(t, 2, s.Len())
	e, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.SeverityInfo, e.Severity)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_PersistsAndHydrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	s := NewStore(p)
	require.NoError(t, s.Add(testEntry("a", model.SeverityInfo, 0)))
	require.NoError(t, s.Add(testEntry("b", model.SeveritySuccess, 0)))
	require.NoError(t, s.Close())

	p, err = NewJSONLPersistence(path)
	require.NoError(t, err)
	s = NewStore(p)
	defer s.Close()
	require.NoError(t, s.Hydrate())

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestStore_Prune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	s := NewStore(p)
	defer s.Close()

	require.NoError(t, s.Add(testEntry("old", model.SeverityInfo, 48*time.Hour)))
	require.NoError(t, s.Add(testEntry("new", model.SeverityInfo, time.Minute)))

	removed, err := s.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("old")
	assert.False(t, ok)

	// Nothing left to prune.
	removed, err = s.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	entries, err := p.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].ID)
}

func TestStore_Closed(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Add(testEntry("a", model.SeverityInfo, 0)), ErrStoreClosed)
	_, err := s.Prune(time.Hour)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestFilter(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		testEntry("old-info", model.SeverityInfo, 3*time.Hour),
		testEntry("error", model.SeverityError, 2*time.Hour),
		testEntry("new-info", model.SeverityInfo, time.Minute),
		ImageEntry(model.ImageNotificationRequest{
			ID: "img", Title: model.ImageTitle, ImageURL: "/img/cards/yeti.png", CreatedAt: now.Add(-30 * time.Second),
		}, "tui"),
	}
	info := model.SeverityInfo

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all newest first", QueryOptions{}, []string{"img", "new-info", "error", "old-info"}},
		{"since", QueryOptions{Since: 150 * time.Minute}, []string{"img", "new-info", "error"}},
		{"severity", QueryOptions{Severity: &info}, []string{"new-info", "old-info"}},
		{"kind", QueryOptions{Kind: KindImage}, []string{"img"}},
		{"contains message", QueryOptions{Contains: "DRAWN ERR"}, []string{"error"}},
		{"contains url", QueryOptions{Contains: "yeti"}, []string{"img"}},
		{"limit", QueryOptions{Limit: 2}, []string{"img", "new-info"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(entries, tt.opts, now)
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"48h", 48 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryToaster(t *testing.T) {
	ctx := context.Background()
	rec := testutil.NewRecorder()
	s := NewStore(nil)
	h := NewHistoryToaster(rec, s, "tui", nil)

	req := model.NewNotificationRequest(model.SeveritySuccess, "Card drawn", 1000)
	require.NoError(t, h.Toast(ctx, req))
	require.NoError(t, h.ToastImage(ctx, model.NewImageNotificationRequest("/img/cards/yeti.png")))

	assert.Len(t, rec.Toasts(), 1)
	assert.Len(t, rec.Images(), 1)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, req.ID, all[0].ID)
	assert.Equal(t, KindToast, all[0].Kind)
	assert.Equal(t, "Card drawn", all[0].Text())
	assert.Equal(t, "tui", all[0].Backend)
	assert.Equal(t, KindImage, all[1].Kind)
	assert.Equal(t, "/img/cards/yeti.png", all[1].Text())
}

func TestHistoryToaster_SkipsFailedToasts(t *testing.T) {
	boom := errors.New("no daemon")
	rec := testutil.NewRecorder()
	rec.SetError(boom)
	s := NewStore(nil)
	h := NewHistoryToaster(rec, s, "dbus", nil)

	err := h.Toast(context.Background(), model.NewNotificationRequest(model.SeverityError, "x", 0))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.Len())
}

func TestHistoryToaster_StoreFailureIsLogged(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Close())
	h := NewHistoryToaster(testutil.NewRecorder(), s, "stdout", nil)

	assert.NoError(t, h.Toast(context.Background(), model.NewNotificationRequest(model.SeverityInfo, "x", 0)))
}
