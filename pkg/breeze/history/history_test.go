package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, j.EnsureDir())
	return j
}

func TestNew(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		j, err := New(t.TempDir())
		require.NoError(t, err)
		assert.NotNil(t, j)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := New("")
		assert.Error(t, err)
	})
}

func TestJournal_Log(t *testing.T) {
	j := setupJournal(t)

	records := []Record{
		{Name: "a.z64", Source: "/roms/a.z64", Dest: "/a.z64", Size: 100},
		{Name: "b.z64", Source: "/roms/b.z64", Dest: "/b.z64", Size: 200, Error: "card full"},
	}

	entry, err := j.Log(OpUpload, records)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(entry.ID, "upload-"))
	assert.Equal(t, OpUpload, entry.Operation)
	assert.Equal(t, 2, entry.Summary.Total)
	assert.Equal(t, 1, entry.Summary.Failed)
	assert.Equal(t, int64(300), entry.Summary.Bytes)

	// Written as a JSON file, retrievable by ID.
	got, err := j.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "card full", got.Records[1].Error)
}

func TestJournal_List(t *testing.T) {
	j := setupJournal(t)

	first, err := j.Log(OpUpload, []Record{{Name: "a.z64"}})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := j.Log(OpMenuUpdate, []Record{{Name: "menu.n64"}})
	require.NoError(t, err)

	entries, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	limited, err := j.List(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)
}

func TestJournal_List_EmptyAndMissing(t *testing.T) {
	t.Run("empty journal", func(t *testing.T) {
		j := setupJournal(t)
		entries, err := j.List(10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing directory", func(t *testing.T) {
		j, err := New(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		entries, err := j.List(10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestJournal_List_SkipsCorruptFiles(t *testing.T) {
	j := setupJournal(t)
	_, err := j.Log(OpRTC, []Record{{Name: "rtc sync"}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(j.dir, "broken.json"), []byte("{not json"), 0o644))

	entries, err := j.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournal_Get_NotFound(t *testing.T) {
	j := setupJournal(t)

	_, err := j.Get("upload-2020-01-01T00-00-00-deadbeef")
	assert.Error(t, err)

	_, err = j.Get("")
	assert.Error(t, err)
}

func TestJournal_Cleanup(t *testing.T) {
	j := setupJournal(t)

	old, err := j.Log(OpUpload, []Record{{Name: "old.z64"}})
	require.NoError(t, err)
	fresh, err := j.Log(OpUpload, []Record{{Name: "fresh.z64"}})
	require.NoError(t, err)

	// Age the first entry's file past the retention window.
	oldPath := filepath.Join(j.dir, old.ID+".json")
	past := time.Now().AddDate(0, 0, -100)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	require.NoError(t, j.Cleanup(90))

	entries, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fresh.ID, entries[0].ID)
}
