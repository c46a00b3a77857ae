// Package cache provides the analysis result cache.  Two backends
// implement the same narrow store interface: an in-process LRU with
// per-entry expiry, and a Redis client for deployments that share
// results between replicas.  Keys are canonical SMILES strings, so
// equivalent queries hit the same entry regardless of spelling.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

var (
	// ErrCacheMiss reports an absent or expired key.
	ErrCacheMiss = apperrors.New(apperrors.ErrCodeNotFound, "cache miss")

	// ErrSerializationFailed reports a value that could not be encoded.
	ErrSerializationFailed = apperrors.New(apperrors.ErrCodeSerialization, "serialization failed")
)

// Store is the backend-independent cache surface.  Values are
// serialized to JSON; the entry lifetime is fixed per store at
// construction.
type Store interface {
	// Get loads the value under key into dest, or returns ErrCacheMiss.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores value under key with the configured lifetime.
	Set(ctx context.Context, key string, value interface{}) error

	// Delete removes the given keys.  Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Serializer converts cached values to and from bytes.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// DefaultTTL applies when the configuration leaves the lifetime unset.
const DefaultTTL = 15 * time.Minute

// New builds the store selected by the configuration.  Disabled caching
// yields a store that always misses, so callers need no nil checks.
func New(cfg config.CacheConfig, log logging.Logger) (Store, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if !cfg.Enabled {
		return NewNop(), nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.MaxEntries, ttl), nil
	case "redis":
		return NewRedis(cfg.Redis, ttl, log), nil
	default:
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("unknown cache backend %q", cfg.Backend))
	}
}

// NewNop returns a store that stores nothing and always misses.
func NewNop() Store { return nopStore{} }

type nopStore struct{}

func (nopStore) Get(context.Context, string, interface{}) error { return ErrCacheMiss }
func (nopStore) Set(context.Context, string, interface{}) error { return nil }
func (nopStore) Delete(context.Context, ...string) error        { return nil }
func (nopStore) Ping(context.Context) error                     { return nil }
func (nopStore) Close() error                                   { return nil }
