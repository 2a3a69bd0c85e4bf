// ABOUTME: Per-environment TTL cache for BoondManager reference data
// ABOUTME: Collapses concurrent refreshes and serves stale values on failure
package dictionary

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/recrutech/boondsync/boond"
	"github.com/recrutech/boondsync/models"
)

// Snapshot is one cached dictionary together with its freshness state.
type Snapshot struct {
	Environment models.Environment `json:"environment"`
	Dictionary  models.Dictionary  `json:"dictionary"`
	FetchedAt   time.Time          `json:"fetchedAt"`
	Stale       bool               `json:"stale"`
}

// Cache holds one dictionary per environment. Entries are stored without
// internal expiration; freshness is decided against an injectable clock and
// TTL so staleness is testable. Concurrent refreshes for one environment
// collapse into a single upstream fetch.
type Cache struct {
	clients map[models.Environment]boond.API
	store   *gocache.Cache
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// New builds a cache over the given per-environment clients.
func New(clients map[models.Environment]boond.API, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		clients: clients,
		store:   gocache.New(gocache.NoExpiration, 0),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the dictionary for one environment. A cached value younger
// than the TTL is served with zero network calls unless force is set. On a
// failed refresh a stale cached value is returned with Stale=true; with no
// cached value the error propagates.
func (c *Cache) Get(ctx context.Context, env models.Environment, force bool) (*Snapshot, error) {
	client, ok := c.clients[env]
	if !ok {
		return nil, fmt.Errorf("dictionary: no client configured for environment %q", env)
	}

	key := string(env)
	if cached := c.lookup(key); cached != nil && !force && c.now().Sub(cached.FetchedAt) < c.ttl {
		return cached, nil
	}

	fresh, err, _ := c.group.Do(key, func() (any, error) {
		// A racer may have refreshed while we waited on the flight group.
		if cached := c.lookup(key); cached != nil && !force && c.now().Sub(cached.FetchedAt) < c.ttl {
			return cached, nil
		}
		dict, err := client.FetchDictionary(ctx)
		if err != nil {
			return nil, err
		}
		snap := &Snapshot{
			Environment: env,
			Dictionary:  dict,
			FetchedAt:   c.now(),
		}
		c.store.Set(key, snap, gocache.NoExpiration)
		return snap, nil
	})
	if err != nil {
		if cached := c.lookup(key); cached != nil {
			zap.S().Warnw("dictionary refresh failed, serving stale value",
				"env", env, "fetchedAt", cached.FetchedAt, "error", err)
			stale := *cached
			stale.Stale = true
			return &stale, nil
		}
		return nil, fmt.Errorf("dictionary: fetch for %s: %w", env, err)
	}
	return fresh.(*Snapshot), nil
}

func (c *Cache) lookup(key string) *Snapshot {
	if v, found := c.store.Get(key); found {
		return v.(*Snapshot)
	}
	return nil
}
