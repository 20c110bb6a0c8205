package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/cardui/internal/model"
)

func testEntry(id string, sev model.Severity, age time.Duration) Entry {
	return Entry{
		ID:         id,
		Kind:       KindToast,
		Title:      sev.Title(),
		Message:    "Card drawn " + id,
		Severity:   sev,
		DurationMs: 1000,
		Backend:    "stdout",
		CreatedAt:  time.Now().Add(-age).Truncate(time.Second),
	}
}

func TestNewJSONLPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "cardui_schema_version")
}

func TestJSONLPersistence_AppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	require.NoError(t, p.Append(testEntry("a", model.SeverityInfo, 0)))
	require.NoError(t, p.Append(testEntry("b", model.SeverityNone, 0)))
	require.NoError(t, p.Close())

	// Reopening must not write a second header.
	p, err = NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	entries, err := p.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, model.SeverityInfo, entries[0].Severity)
	assert.Equal(t, model.SeverityNone, entries[1].Severity)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "cardui_schema_version"))
}

func TestJSONLPersistence_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"cardui_schema_version":1,"created_at":0}
{"id":"good","kind":"toast","title":"Info","message":"ok","severity":"info"}
not json
{"kind":"toast","title":"no id"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	entries, err := p.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].ID)
}

func TestJSONLPersistence_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"cardui_schema_version":99,"created_at":0}`+"\n"), 0600))

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestJSONLPersistence_Rewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, p.Append(testEntry(id, model.SeverityInfo, 0)))
	}

	require.NoError(t, p.Rewrite([]Entry{testEntry("c", model.SeverityInfo, 0)}))

	entries, err := p.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].ID)

	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))

	// Appends after a rewrite land in the new file.
	require.NoError(t, p.Append(testEntry("d", model.SeverityError, 0)))
	entries, err = p.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestJSONLPersistence_Closed(t *testing.T) {
	p, err := NewJSONLPersistence(filepath.Join(t.TempDir(), "history.jsonl"))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Load()
	assert.ErrorIs(t, err, ErrPersistenceClosed)
	assert.ErrorIs(t, p.Append(testEntry("a", model.SeverityInfo, 0)), ErrPersistenceClosed)
	assert.ErrorIs(t, p.Rewrite(nil), ErrPersistenceClosed)
}

func TestHistoryPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, "/custom/data/cardui/history.jsonl", HistoryPath())
}
