package history

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/storage"
)

func gifs(ids ...string) []*storage.Gif {
	out := make([]*storage.Gif, 0, len(ids))
	for _, id := range ids {
		out = append(out, &storage.Gif{
			ID:      id,
			Title:   "gif " + id,
			URL:     "https://media.example/" + id + "-m.gif",
			FullURL: "https://media.example/" + id + ".gif",
		})
	}
	return out
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cats", Normalize("Cats"))
	assert.Equal(t, "cats", Normalize("CATS"))
	assert.Equal(t, " cats ", Normalize(" Cats "), "whitespace is preserved")
}

func TestOpen_EmptyOrMissingSlot(t *testing.T) {
	for name, data := range map[string][]byte{
		"nil":       nil,
		"blank":     []byte("   "),
		"empty obj": []byte("{}"),
	} {
		t.Run(name, func(t *testing.T) {
			s := Open(NewMemorySlot(data))
			assert.Equal(t, 0, s.Len())
			assert.Empty(t, s.Keys())
		})
	}
}

func TestOpen_MalformedBlobYieldsEmptyHistory(t *testing.T) {
	blobs := []string{
		`not json`,
		`[1,2,3]`,
		`{"cats": "nope"}`,
		`{"cats": [`,
		`null`,
		`{"cats": []} trailing`,
	}

	for _, blob := range blobs {
		t.Run(blob, func(t *testing.T) {
			var s *Store
			require.NotPanics(t, func() { s = Open(NewMemorySlot([]byte(blob))) })
			assert.Equal(t, 0, s.Len())
			assert.Empty(t, s.Get("cats"))
		})
	}
}

func TestOpen_UnreadableSlot(t *testing.T) {
	slot := NewMemorySlot(nil)
	slot.LoadErr = errors.New("disk on fire")

	s := Open(slot)
	assert.Equal(t, 0, s.Len())
}

func TestSet_NormalizesAndOverwrites(t *testing.T) {
	slot := NewMemorySlot(nil)
	s := Open(slot)

	require.NoError(t, s.Set("Cats", gifs("1", "2")))
	require.NoError(t, s.Set("cats", gifs("3")))

	assert.Equal(t, []string{"cats"}, s.Keys())
	got := s.Get("CATS")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, 2, slot.Saves(), "every Set writes the slot")
}

func TestSet_KeepsFirstInsertionOrder(t *testing.T) {
	s := Open(NewMemorySlot(nil))

	require.NoError(t, s.Set("dogs", gifs("d")))
	require.NoError(t, s.Set("cats", gifs("c")))
	require.NoError(t, s.Set("Dogs", gifs("d2")))

	assert.Equal(t, []string{"dogs", "cats"}, s.Keys())
}

func TestGet_Absent(t *testing.T) {
	s := Open(NewMemorySlot(nil))

	got := s.Get("unknown")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, s.Has("unknown"))
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := Open(NewMemorySlot(nil))
	input := gifs("1", "2")
	require.NoError(t, s.Set("cats", input))

	input[0] = nil
	got := s.Get("cats")
	got[1] = nil

	again := s.Get("cats")
	require.Len(t, again, 2)
	assert.Equal(t, "1", again[0].ID)
	assert.Equal(t, "2", again[1].ID)
}

func TestPersistReloadRoundTrip(t *testing.T) {
	slot := NewMemorySlot(nil)
	s := Open(slot)
	require.NoError(t, s.Set("zebra", gifs("z1", "z2")))
	require.NoError(t, s.Set("Apple", gifs("a1")))
	require.NoError(t, s.Set("empty", nil))

	reloaded := Open(NewMemorySlot(slot.Data()))

	assert.Equal(t, s.Keys(), reloaded.Keys())
	assert.Equal(t, []string{"zebra", "apple", "empty"}, reloaded.Keys())
	for _, k := range s.Keys() {
		assert.Equal(t, s.Get(k), reloaded.Get(k), "results for %q", k)
	}
	assert.Equal(t, s.Entries(), reloaded.Entries())
}

func TestPersistReloadRoundTrip_Bolt(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	db, err := storage.NewStore(dbPath)
	require.NoError(t, err)
	s := Open(db.Slot(storage.HistorySlotKey))
	require.NoError(t, s.Set("Cats", gifs("1", "2", "3")))
	require.NoError(t, db.Close())

	db, err = storage.NewStore(dbPath)
	require.NoError(t, err)
	defer db.Close()

	reloaded := Open(db.Slot(storage.HistorySlotKey))
	assert.Equal(t, []string{"cats"}, reloaded.Keys())
	assert.Equal(t, gifs("1", "2", "3"), reloaded.Get("cats"))
}

func TestDecode_DuplicateMembers(t *testing.T) {
	blob := `{"a":[{"id":"1"}],"b":[],"a":[{"id":"2"},null]}`

	s := Open(NewMemorySlot([]byte(blob)))
	assert.Equal(t, []string{"a", "b"}, s.Keys())
	got := s.Get("a")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestSet_SaveFailureIsReported(t *testing.T) {
	slot := NewMemorySlot(nil)
	slot.SaveErr = errors.New("read-only")
	s := Open(slot)

	err := s.Set("cats", gifs("1"))

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "save", perr.Op)
	assert.ErrorIs(t, err, slot.SaveErr)
	assert.Len(t, s.Get("cats"), 1, "memory reflects the change even when the write fails")
}

func TestSubscribe(t *testing.T) {
	s := Open(NewMemorySlot(nil))

	var seen [][]string
	unsubscribe := s.Subscribe(func(keys []string) { seen = append(seen, keys) })

	require.NoError(t, s.Set("cats", gifs("1")))
	require.NoError(t, s.Set("dogs", gifs("2")))
	unsubscribe()
	require.NoError(t, s.Set("birds", gifs("3")))

	assert.Equal(t, [][]string{{"cats"}, {"cats", "dogs"}}, seen)
}
