package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	key := "test-key"
	payload := json.RawMessage(`{"foo":"bar"}`)
	entry := NewEntry(key, payload, 60)

	assert.Equal(t, key, entry.Key)
	assert.Equal(t, payload, entry.Payload)
	assert.False(t, entry.IsExpired())
	assert.Greater(t, entry.TimeUntilExpiration(), time.Duration(0))
	assert.LessOrEqual(t, entry.Age(), time.Second)
	assert.Equal(t, entry.CreatedAt.Add(60*time.Second), entry.ExpiresAt)

	t.Run("Expiration", func(t *testing.T) {
		entry.ExpiresAt = time.Now().Add(-1 * time.Second)
		assert.True(t, entry.IsExpired())
		assert.Equal(t, time.Duration(0), entry.TimeUntilExpiration())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		entry := NewEntry(key, payload, 60)
		encoded, err := json.Marshal(entry)
		require.NoError(t, err)

		var decoded Entry
		require.NoError(t, json.Unmarshal(encoded, &decoded))

		// The key rides along in the serialized form so on-disk entries
		// stay self-describing.
		assert.Equal(t, entry.Key, decoded.Key)
		assert.Equal(t, entry.Payload, decoded.Payload)
		assert.Equal(t, entry.TTLSeconds, decoded.TTLSeconds)
		// Timestamps round-trip exactly, including sub-second precision.
		assert.Equal(t, entry.CreatedAt.UnixNano(), decoded.CreatedAt.UnixNano())
		assert.Equal(t, entry.ExpiresAt.UnixNano(), decoded.ExpiresAt.UnixNano())
	})
}

func TestKey(t *testing.T) {
	body := []byte(`{"hostname":"example.com"}`)
	key1 := Key("POST", "/diag/v1/dig", map[string]string{"a": "1", "b": "2"}, body)
	require.NotEmpty(t, key1)
	assert.Len(t, key1, 64)

	t.Run("Deterministic", func(t *testing.T) {
		key2 := Key("POST", "/diag/v1/dig", map[string]string{"b": "2", "a": "1"}, body)
		assert.Equal(t, key1, key2)
	})

	t.Run("MethodNormalized", func(t *testing.T) {
		key2 := Key("post ", "/diag/v1/dig", map[string]string{"a": "1", "b": "2"}, body)
		assert.Equal(t, key1, key2)
	})

	t.Run("ParamSensitive", func(t *testing.T) {
		key2 := Key("POST", "/diag/v1/dig", map[string]string{"a": "1", "b": "3"}, body)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("BodySensitive", func(t *testing.T) {
		key2 := Key("POST", "/diag/v1/dig", map[string]string{"a": "1", "b": "2"}, []byte(`{"hostname":"example.org"}`))
		assert.NotEqual(t, key1, key2)
	})

	t.Run("PathSensitive", func(t *testing.T) {
		key2 := Key("POST", "/diag/v1/translate", map[string]string{"a": "1", "b": "2"}, body)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("SeparatorInValue", func(t *testing.T) {
		// A value containing the pair delimiters must not collide with
		// the multi-parameter set it would otherwise serialize as.
		joined := Key("GET", "/diag/v1/dig", map[string]string{"a": "1&b=2"}, nil)
		split := Key("GET", "/diag/v1/dig", map[string]string{"a": "1", "b": "2"}, nil)
		assert.NotEqual(t, joined, split)
	})

	t.Run("NilParamsAndBody", func(t *testing.T) {
		k := Key("GET", "/diag/v1/dig", nil, nil)
		assert.Len(t, k, 64)
		assert.NotEqual(t, key1, k)
	})
}

func TestStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	key := "test-key"
	payload := json.RawMessage(`{"hello":"world"}`)

	t.Run("PutAndGet", func(t *testing.T) {
		require.NoError(t, store.Put(key, payload, 60))

		entry, getErr := store.Get(key)
		require.NoError(t, getErr)
		assert.JSONEq(t, string(payload), string(entry.Payload))
		assert.Equal(t, key, entry.Key)
		assert.Equal(t, 60, entry.TTLSeconds)

		count, _ := store.Count()
		assert.Equal(t, 1, count)

		size, _ := store.Size()
		assert.Greater(t, size, int64(0))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(key, json.RawMessage(`{"hello":"again"}`), 120))

		entry, getErr := store.Get(key)
		require.NoError(t, getErr)
		assert.JSONEq(t, `{"hello":"again"}`, string(entry.Payload))
		assert.Equal(t, 120, entry.TTLSeconds)

		count, _ := store.Count()
		assert.Equal(t, 1, count)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, getErr := store.Get("never-stored")
		assert.ErrorIs(t, getErr, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(key))
		_, getErr := store.Get(key)
		assert.ErrorIs(t, getErr, ErrNotFound)

		// Idempotent.
		assert.NoError(t, store.Delete(key))
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Put("k1", payload, 60))
		require.NoError(t, store.Put("k2", payload, 60))
		require.NoError(t, store.Clear())

		count, _ := store.Count()
		assert.Equal(t, 0, count)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		_, getErr := store.Get("")
		assert.ErrorIs(t, getErr, ErrInvalidKey)
		assert.ErrorIs(t, store.Put("", payload, 60), ErrInvalidKey)
	})

	t.Run("InvalidTTL", func(t *testing.T) {
		assert.Error(t, store.Put("k", payload, 0))
		assert.Error(t, store.Put("k", payload, -5))
	})
}

func TestStoreExpiration(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	payload := json.RawMessage(`{"hello":"world"}`)
	require.NoError(t, store.Put("fresh", payload, 60))
	require.NoError(t, store.Put("stale", payload, 60))

	// Backdate the stale entry past its TTL.
	backdate(t, store, "stale", 61*time.Second)

	_, err = store.Get("fresh")
	assert.NoError(t, err)

	_, err = store.Get("stale")
	assert.ErrorIs(t, err, ErrExpired)

	// Expired entries are purged on access.
	count, _ := store.Count()
	assert.Equal(t, 1, count)
}

func TestStoreCleanupExpired(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	payload := json.RawMessage(`{}`)
	require.NoError(t, store.Put("keep", payload, 600))
	require.NoError(t, store.Put("drop", payload, 600))
	backdate(t, store, "drop", time.Hour)

	require.NoError(t, store.CleanupExpired())

	count, _ := store.Count()
	assert.Equal(t, 1, count)
	_, err = store.Get("keep")
	assert.NoError(t, err)
}

func TestStoreCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600))

	// Corruption is an error, not a miss.
	_, err = store.Get("bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestNewStoreEmptyDirectory(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

// backdate rewrites a stored entry so it was created `age` ago.
func backdate(t *testing.T, store *Store, key string, age time.Duration) {
	t.Helper()

	entry, err := store.Get(key)
	require.NoError(t, err)

	entry.CreatedAt = entry.CreatedAt.Add(-age)
	entry.ExpiresAt = entry.CreatedAt.Add(time.Duration(entry.TTLSeconds) * time.Second)
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Directory(), key+entryFileExtension), data, 0o600))
}
