package suggest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LookupObserver is told whether each lookup was served from cache.
type LookupObserver interface {
	CacheLookup(hit bool)
}

type cacheEntry struct {
	codes    []string
	storedAt time.Time
}

// CachedFinder is an OccupationFinder that keeps recent lookups in an LRU.
// The occupation table is reference data, so entries only expire by TTL.
type CachedFinder struct {
	delegate OccupationFinder
	cache    *lru.Cache[string, cacheEntry]
	ttl      time.Duration
	observer LookupObserver
	now      func() time.Time
}

// NewCachedFinder wraps delegate with an LRU of size entries. observer may be nil.
func NewCachedFinder(delegate OccupationFinder, size int, ttl time.Duration, observer LookupObserver) (*CachedFinder, error) {
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &CachedFinder{
		delegate: delegate,
		cache:    cache,
		ttl:      ttl,
		observer: observer,
		now:      time.Now,
	}, nil
}

func (c *CachedFinder) FindByInterest(ctx context.Context, interestCode string, exclude []string, limit int) ([]string, error) {
	key := cacheKey(interestCode, exclude, limit)

	if entry, ok := c.cache.Get(key); ok {
		if c.now().Sub(entry.storedAt) < c.ttl {
			c.observe(true)
			return append([]string(nil), entry.codes...), nil
		}
		c.cache.Remove(key)
	}
	c.observe(false)

	codes, err := c.delegate.FindByInterest(ctx, interestCode, exclude, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cacheEntry{codes: append([]string(nil), codes...), storedAt: c.now()})
	return codes, nil
}

// Purge drops every cached lookup, e.g. after reseeding occupations.
func (c *CachedFinder) Purge() { c.cache.Purge() }

func (c *CachedFinder) observe(hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(hit)
	}
}

func cacheKey(code string, exclude []string, limit int) string {
	ex := append([]string(nil), exclude...)
	sort.Strings(ex)
	return code + "|" + strconv.Itoa(limit) + "|" + strings.Join(ex, ",")
}
