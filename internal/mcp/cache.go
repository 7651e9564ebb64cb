package mcp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/maypok86/otter"
)

// resultCache maps specification source hashes to serialized records.
// Only successful extractions are cached; a record depends on nothing but the source text.
type resultCache struct {
	cache otter.Cache[string, string]
}

func newResultCache(capacity int) (*resultCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	cache, err := otter.MustBuilder[string, string](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}
	return &resultCache{cache: cache}, nil
}

func sourceKey(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

func (c *resultCache) get(source []byte) (string, bool) {
	return c.cache.Get(sourceKey(source))
}

func (c *resultCache) set(source []byte, record string) {
	c.cache.Set(sourceKey(source), record)
}

// hits reports how many lookups were served from the cache.
func (c *resultCache) hits() int64 {
	return c.cache.Stats().Hits()
}

func (c *resultCache) close() {
	c.cache.Close()
}
