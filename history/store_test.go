package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()

	store, err := NewMemoryStore()
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		return now
	}
	return store, &now
}

func TestStoreSaveAndLoad(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	require.NoError(t, store.SaveQuery("local", "SELECT 1"))
	require.NoError(t, store.SaveQuery("local", "SELECT 2"))
	require.NoError(t, store.SaveQuery("prod", "SELECT 3"))

	entries, err := store.LoadForConnection("local")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "SELECT 1", entries[0].Query)
	require.Equal(t, "SELECT 2", entries[1].Query)
	require.Equal(t, "local", entries[0].Connection)

	all, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestStoreDedupRefreshesTimestamp(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t)

	require.NoError(t, store.SaveQuery("local", "SELECT 1"))
	first := *now

	*now = now.Add(time.Hour)
	require.NoError(t, store.SaveQuery("local", "  SELECT 1  "))

	entries, err := store.LoadForConnection("local")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Timestamp.After(first))
}

func TestStoreLoadEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	entries, err := store.LoadForConnection("missing")
	require.NoError(t, err)
	require.Empty(t, entries)

	all, err := store.LoadAll()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestStoreDeleteEntry(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t)

	require.NoError(t, store.SaveQuery("local", "SELECT 1"))
	first := *now
	*now = now.Add(time.Minute)
	require.NoError(t, store.SaveQuery("local", "SELECT 2"))

	deleted, err := store.DeleteEntry("local", first)
	require.NoError(t, err)
	require.True(t, deleted)

	entries, err := store.LoadForConnection("local")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "SELECT 2", entries[0].Query)

	deleted, err = store.DeleteEntry("local", first)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestStoreClearForConnection(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	require.NoError(t, store.SaveQuery("local", "SELECT 1"))
	require.NoError(t, store.SaveQuery("local", "SELECT 2"))
	require.NoError(t, store.SaveQuery("prod", "SELECT 3"))

	count, err := store.ClearForConnection("local")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	entries, err := store.LoadForConnection("local")
	require.NoError(t, err)
	require.Empty(t, entries)

	entries, err = store.LoadForConnection("prod")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	count, err = store.ClearForConnection("local")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStoreConnectionNameEscaping(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	const conn = "prod/replica one"
	require.NoError(t, store.SaveQuery(conn, "SELECT 1"))

	entries, err := store.LoadForConnection(conn)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, conn, entries[0].Connection)
}

func TestStarredQueries(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	starred, err := store.IsStarred("local", "SELECT 1")
	require.NoError(t, err)
	require.False(t, starred)

	require.NoError(t, store.StarQuery("local", "SELECT 1"))
	require.NoError(t, store.StarQuery("local", "SELECT 1"))

	starred, err = store.IsStarred("local", "SELECT 1")
	require.NoError(t, err)
	require.True(t, starred)

	entries, err := store.LoadStarred("local")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	removed, err := store.UnstarQuery("local", "SELECT 1")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = store.UnstarQuery("local", "SELECT 1")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestToggleStar(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	starred, err := store.ToggleStar("local", "SELECT 1")
	require.NoError(t, err)
	require.True(t, starred)

	starred, err = store.ToggleStar("local", "SELECT 1")
	require.NoError(t, err)
	require.False(t, starred)

	starred, err = store.IsStarred("local", "SELECT 1")
	require.NoError(t, err)
	require.False(t, starred)
}

func TestFileStoreReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveQuery("local", "SELECT 1"))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	entries, err := reopened.LoadForConnection("local")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "SELECT 1", entries[0].Query)
}
