package realincome

import "context"

// Cache persists fetched series across invocations. Entries never expire and
// are replaced wholesale on re-fetch, never mutated in place. A corrupted or
// unreadable entry is reported as a miss, not an error.
type Cache interface {
	Lookup(ctx context.Context, key Key) (CacheEntry, bool, error)
	Store(ctx context.Context, key Key, series Series) error
	Close() error
}
