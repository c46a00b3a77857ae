package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxEntries bounds the in-process cache when the configuration
// leaves the size unset.
const DefaultMaxEntries = 4096

// memoryStore is the in-process backend, an expiring LRU over the
// JSON-encoded values.  It never returns backend errors; the only
// failure modes are serialization and the miss sentinel.
type memoryStore struct {
	entries    *expirable.LRU[string, []byte]
	serializer Serializer
}

// NewMemory builds an in-process store evicting least-recently-used
// entries beyond maxEntries and expiring everything after ttl.
func NewMemory(maxEntries int, ttl time.Duration) Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &memoryStore{
		entries:    expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
		serializer: jsonSerializer{},
	}
}

func (s *memoryStore) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := s.entries.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	return s.serializer.Unmarshal(data, dest)
}

func (s *memoryStore) Set(_ context.Context, key string, value interface{}) error {
	data, err := s.serializer.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	s.entries.Add(key, data)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.entries.Remove(k)
	}
	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) Close() error {
	s.entries.Purge()
	return nil
}
