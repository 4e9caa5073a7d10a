package notes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-notes/model"
)

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nested", "broker-notes.json"))

	items, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "broker-notes.json")
	s := NewFileStorage(path)

	want := []model.Note{
		{ID: "2", Title: "Second", Transcript: "t2", Summary: "s2", FollowUpItems: []string{"a", "b"}, CreatedAt: "2025-01-02T00:00:00.000Z"},
		{ID: "1", Transcript: "t1", Summary: "s1", FollowUpItems: []string{}, CreatedAt: "2025-01-01T00:00:00.000Z", AudioURL: "file:///tmp/x.webm"},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStorage_ReadsBrowserExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broker-notes.json")
	raw := `[{"id":"1718000000000","title":"Intro call","clientName":"Acme","transcript":"hi","summary":"ok","followUpItems":["Send deck"],"createdAt":"2024-06-10T06:13:20.000Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	got, err := NewFileStorage(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].ClientName)
	assert.Equal(t, []string{"Send deck"}, got[0].FollowUpItems)
}

func TestFileStorage_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broker-notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStorage(path).Load()
	assert.Error(t, err)
}

func TestFileStorage_BookPersistsAcrossOpen(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "broker-notes.json"))

	b, err := Open(storage)
	require.NoError(t, err)
	n, err := b.Create(draft("Persisted."))
	require.NoError(t, err)

	reopened, err := Open(storage)
	require.NoError(t, err)
	got, err := reopened.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestMemoryStorage_SnapshotsOnSave(t *testing.T) {
	m := &MemoryStorage{}
	items := []model.Note{{ID: "1", Summary: "before"}}
	require.NoError(t, m.Save(items))
	items[0].Summary = "after"

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "before", got[0].Summary)
}
