package cache

import (
	"context"

	realincome "github.com/malusev998/real-income"
)

// NoopCache is the disabled-cache backend: every lookup misses and stores
// are discarded, so each invocation fetches fresh data.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Lookup(_ context.Context, _ realincome.Key) (realincome.CacheEntry, bool, error) {
	return realincome.CacheEntry{}, false, nil
}

func (n *NoopCache) Store(_ context.Context, _ realincome.Key, _ realincome.Series) error {
	return nil
}

func (n *NoopCache) Close() error {
	return nil
}
