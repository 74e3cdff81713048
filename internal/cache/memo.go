// Package cache memoizes the pure table functions by content hash.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru"
)

// Memo is a bounded LRU keyed by content hash. A zero-size Memo stores nothing.
type Memo struct {
	cache  *lru.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// NewMemo creates a memo holding at most size entries. size <= 0 disables caching.
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		return &Memo{}, nil
	}

	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create cache of size %d", size)
	}

	return &Memo{cache: c}, nil
}

// Get returns the value stored for key.
func (m *Memo) Get(key string) (any, bool) {
	if m.cache == nil {
		m.misses.Add(1)
		return nil, false
	}

	v, ok := m.cache.Get(key)
	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}

	return v, ok
}

// Add stores value under key.
func (m *Memo) Add(key string, value any) {
	if m.cache == nil {
		return
	}

	m.cache.Add(key, value)
}

// Stats returns current counters.
func (m *Memo) Stats() Stats {
	s := Stats{Hits: m.hits.Load(), Misses: m.misses.Load()}
	if m.cache != nil {
		s.Size = m.cache.Len()
	}

	return s
}

// Key hashes parts into a hex sha256 digest. Each part is length-prefixed so
// ("ab", "c") and ("a", "bc") produce different keys.
func Key(parts ...string) string {
	h := sha256.New()

	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}

	return hex.EncodeToString(h.Sum(nil))
}
