// Package cache provides file-based caching with TTL expiration for API
// responses.
//
// Each entry is stored as its own JSON file in the cache directory, making
// the on-disk state the single source of truth across CLI invocations.
// Writes go through a temp-file-then-rename so a concurrently running
// instance never observes a partially written entry. Expired entries are
// treated as absent and purged when read.
package cache
