// Package resolve maps normalized citation keys to knowledge-base item
// identifiers via an exact-match lookup, memoized in a bounded LRU cache.
package resolve

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default resolution cache capacity. The citation
// vocabulary is large but finite; 32768 entries comfortably covers a full run
// over the decision corpus.
const DefaultCacheSize = 32768

// Lookup performs an exact-match search for items whose legal-citation
// attribute equals the given key verbatim. It returns every matching item
// identifier: zero, one, or several when the knowledge base itself holds
// duplicate entries.
type Lookup interface {
	FindByLegalCitation(ctx context.Context, citationKey string) ([]string, error)
}

// CacheStats counts cache effectiveness over a run.
type CacheStats struct {
	Hits   int
	Misses int
}

// Resolver resolves citation keys through a Lookup, caching results so that
// the same key queried repeatedly (the same statute is cited by many
// decisions) issues at most one external lookup. The cache is owned by the
// resolver instance; entries are immutable once computed and evicted
// least-recently-used when capacity is reached. Lookup failures are not
// cached.
type Resolver struct {
	lookup Lookup
	cache  *lru.Cache[string, []string]
	stats  CacheStats
}

// NewResolver creates a resolver backed by the given lookup with the given
// cache capacity. A non-positive capacity falls back to DefaultCacheSize.
func NewResolver(lookup Lookup, cacheSize int) (*Resolver, error) {
	if lookup == nil {
		return nil, fmt.Errorf("lookup cannot be nil")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution cache: %w", err)
	}

	return &Resolver{
		lookup: lookup,
		cache:  cache,
	}, nil
}

// Resolve returns the item identifiers whose legal-citation attribute equals
// the key. An empty result means no match; more than one element means the
// knowledge base holds ambiguous entries, which the caller reports rather
// than picks from. Lookup errors propagate to the caller.
func (resolver *Resolver) Resolve(ctx context.Context, citationKey string) ([]string, error) {
	if cachedTargets, found := resolver.cache.Get(citationKey); found {
		resolver.stats.Hits++
		return copyTargets(cachedTargets), nil
	}

	resolver.stats.Misses++

	targets, err := resolver.lookup.FindByLegalCitation(ctx, citationKey)
	if err != nil {
		return nil, fmt.Errorf("lookup for citation %q failed: %w", citationKey, err)
	}

	resolver.cache.Add(citationKey, targets)
	return copyTargets(targets), nil
}

// Stats returns the hit/miss counts accumulated so far.
func (resolver *Resolver) Stats() CacheStats {
	return resolver.stats
}

// copyTargets returns a defensive copy so callers cannot mutate cached entries.
func copyTargets(targets []string) []string {
	if targets == nil {
		return nil
	}
	copied := make([]string, len(targets))
	copy(copied, targets)
	return copied
}
