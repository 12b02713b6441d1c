package catalog

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps a value with an expiry instant
type cacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// searchCache is a bounded TTL cache for search results. The LRU cap
// bounds memory; the TTL bounds staleness.
type searchCache[T any] struct {
	storage *lru.Cache[string, cacheItem[T]]
	ttl     time.Duration
}

func newSearchCache[T any](size int, ttl time.Duration) *searchCache[T] {
	// lru.New is thread safe
	c, _ := lru.New[string, cacheItem[T]](size)
	return &searchCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

func (s *searchCache[T]) Get(key string) (T, bool) {
	item, ok := s.storage.Get(key)
	if !ok || time.Now().After(item.ExpiredAt) {
		var zero T
		if ok {
			s.storage.Remove(key)
		}
		return zero, false
	}
	return item.Value, true
}

func (s *searchCache[T]) Set(key string, value T) {
	s.storage.Add(key, cacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(s.ttl),
	})
}
