package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry is a single cached API response with TTL metadata.
type Entry struct {
	// Key is the cache key. It is redundantly persisted inside the entry
	// so on-disk files are self-describing and enumerable.
	Key string `json:"key"`

	// Payload is the raw serialized response body.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the entry was created.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt plus the TTL. Always recomputable from
	// CreatedAt and TTLSeconds; stored for readability of cache files.
	ExpiresAt time.Time `json:"expires_at"`

	// TTLSeconds is the time-to-live the entry was stored with.
	TTLSeconds int `json:"ttl_seconds"`
}

// NewEntry creates an entry timestamped now with the given TTL.
func NewEntry(key string, payload json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now()
	return &Entry{
		Key:        key,
		Payload:    payload,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the entry's TTL has elapsed.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the duration since the entry was created.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// TimeUntilExpiration returns the remaining freshness window, or 0 if the
// entry has already expired.
func (e *Entry) TimeUntilExpiration() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MarshalJSON formats timestamps as RFC3339 with nanoseconds so entries
// round-trip exactly while staying readable in cache files.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal(&struct {
		*Alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias:     (*Alias)(e),
		CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		ExpiresAt: e.ExpiresAt.Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON parses the RFC3339Nano timestamps from cache files.
// Second-precision RFC3339 values from older entries still parse.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	type Alias Entry
	aux := &struct {
		*Alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, aux.CreatedAt)
	if err != nil {
		return err
	}

	e.ExpiresAt, err = time.Parse(time.RFC3339Nano, aux.ExpiresAt)
	if err != nil {
		return err
	}

	return nil
}
