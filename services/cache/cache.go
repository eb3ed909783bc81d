package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Scope is one key namespace. Version is part of every key so a
// breaking change to the cached value's shape is handled by bumping it
// instead of migrating entries.
type Scope struct {
	Name    string
	Version string
}

func (s Scope) key(k string) string {
	return s.Name + ":" + s.Version + ":" + normalizeKey(k)
}

func normalizeKey(k string) string {
	return strings.Join(strings.Fields(strings.ToLower(k)), " ")
}

// Backend is the raw key-value store underneath the cache.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache wraps a Backend with JSON encoding and best-effort semantics:
// a nil backend or a failed get behaves like a miss, a failed set is
// logged and dropped.
type Cache struct {
	b Backend
}

func New(b Backend) *Cache {
	return &Cache{b: b}
}

// GetJSON loads the value under (scope, key) into v and reports
// whether the cache had it.
func (c *Cache) GetJSON(ctx context.Context, s Scope, key string, v any) bool {
	if c == nil || c.b == nil {
		return false
	}
	data, found, err := c.b.Get(ctx, s.key(key))
	if err != nil {
		log.WithError(err).Warnf("cache get failed for scope %v", s.Name)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.WithError(err).Warnf("cache entry undecodable for scope %v", s.Name)
		return false
	}
	return true
}

// SetJSON stores v under (scope, key) with the given ttl.
func (c *Cache) SetJSON(ctx context.Context, s Scope, key string, v any, ttl time.Duration) {
	if c == nil || c.b == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warnf("cache encode failed for scope %v", s.Name)
		return
	}
	if err := c.b.Set(ctx, s.key(key), data, ttl); err != nil {
		log.WithError(errors.Wrap(err, "set")).Warnf("cache set failed for scope %v", s.Name)
	}
}
