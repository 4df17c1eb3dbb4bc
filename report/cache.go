package report

import "time"

// Cache stores assembled per-document reports so repeated parse requests
// for an unchanged upload skip re-extraction. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get retrieves the cached report for a document id, or nil on a miss
	// or expiry.
	Get(fileID string) *Report

	// Set stores a report for a document id.
	Set(fileID string, r *Report)

	// Invalidate drops the cached report for one document id.
	Invalidate(fileID string)

	// InvalidateAll drops every cached report.
	InvalidateAll()
}

// CacheConfig holds cache behavior settings.
type CacheConfig struct {
	// TTL is the time-to-live for cached reports. Zero means no
	// expiration; entries live until invalidated by a re-upload or delete.
	TTL time.Duration
}

// DefaultCacheConfig returns the default cache behavior: no TTL, entries
// invalidated only when their document changes.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 0}
}
