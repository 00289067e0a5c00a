package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, dbPath
}

func TestStore_GetMissingKey(t *testing.T) {
	store, _ := setupTestStore(t)

	data, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_PutAndGet(t *testing.T) {
	store, _ := setupTestStore(t)

	require.NoError(t, store.Put("a", []byte(`{"x":1}`)))
	data, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(data))

	require.NoError(t, store.Put("a", []byte(`{}`)))
	data, err = store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data), "last write wins")
}

func TestStore_Delete(t *testing.T) {
	store, _ := setupTestStore(t)

	require.NoError(t, store.Put("b", []byte("2")))
	require.NoError(t, store.Put("a", []byte("1")))

	require.NoError(t, store.Delete("a"))
	data, err := store.Get("a")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = store.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), data)

	require.NoError(t, store.Delete("never-set"))
}

func TestSlot_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	slot := store.Slot(HistorySlotKey)
	assert.Equal(t, HistorySlotKey, slot.Key())
	require.NoError(t, slot.Save([]byte(`{"cats":[]}`)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Slot(HistorySlotKey).Load()
	require.NoError(t, err)
	assert.Equal(t, `{"cats":[]}`, string(data))
}

func TestStore_ZeroValueIsClosed(t *testing.T) {
	store := &Store{}

	_, err := store.Get("x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Put("x", nil), ErrClosed)
	assert.NoError(t, store.Close())
}

func TestGif_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Dancing Cat", (&Gif{ID: "1", Title: "Dancing Cat"}).DisplayTitle())
	assert.Equal(t, "abc", (&Gif{ID: "abc"}).DisplayTitle())
}
