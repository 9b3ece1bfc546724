package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"musclemap/prescription-engine/internal/logger"
)

var ErrUnknownEntity = errors.New("unknown cache entity")

// Options configures a TieredCache. Durable may be nil for a local-only cache.
type Options struct {
	Namespace     string
	LocalCapacity int
	Durable       DurableClient
	Channel       string // refresh notifications; empty disables publishing
	Now           func() time.Time
}

// TieredCache is a two-level cache: a bounded local store in front of a durable
// key/value service. Durable-tier failures are logged and read as misses.
type TieredCache struct {
	log       *logger.Logger
	namespace string
	local     *localStore
	durable   DurableClient
	channel   string
	now       func() time.Time
}

// New builds a TieredCache.
func New(log *logger.Logger, opts Options) *TieredCache {
	ns := opts.Namespace
	if ns == "" {
		ns = "musclemap"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TieredCache{
		log:       logger.OrNop(log).With("component", "TieredCache"),
		namespace: ns,
		local:     newLocalStore(opts.LocalCapacity),
		durable:   opts.Durable,
		channel:   opts.Channel,
		now:       now,
	}
}

func (c *TieredCache) key(entity Entity, key string) string {
	return c.namespace + ":" + string(entity) + ":" + key
}

func (c *TieredCache) prefix(entity Entity) string {
	return c.namespace + ":" + string(entity) + ":"
}

// Get looks up local, then durable (promoting into local on hit).
func (c *TieredCache) Get(ctx context.Context, entity Entity, key string) ([]byte, bool) {
	policy, ok := PolicyFor(entity)
	if !ok {
		c.log.Warn("cache get for unknown entity", "entity", entity)
		return nil, false
	}
	full := c.key(entity, key)
	if val, ok := c.local.get(full, c.now()); ok {
		return val, true
	}
	if c.durable == nil {
		return nil, false
	}
	raw, found, err := c.durable.Get(ctx, full)
	if err != nil {
		c.log.Warn("durable cache get failed", "key", full, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	val := []byte(raw)
	c.local.set(full, val, c.now().Add(policy.LocalTTL))
	return val, true
}

// Set writes both tiers. ttl overrides the durable TTL when positive; the local
// TTL never exceeds it.
func (c *TieredCache) Set(ctx context.Context, entity Entity, key string, value []byte, ttl time.Duration) error {
	policy, ok := PolicyFor(entity)
	if !ok {
		return ErrUnknownEntity
	}
	durableTTL := policy.DurableTTL
	if ttl > 0 {
		durableTTL = ttl
	}
	localTTL := policy.LocalTTL
	if durableTTL < localTTL {
		localTTL = durableTTL
	}
	full := c.key(entity, key)
	c.local.set(full, value, c.now().Add(localTTL))
	if c.durable != nil {
		if err := c.durable.SetWithTTL(ctx, full, string(value), durableTTL); err != nil {
			c.log.Warn("durable cache set failed", "key", full, "error", err)
		}
	}
	return nil
}

// Invalidate drops one key, or every key of the entity when key is empty.
func (c *TieredCache) Invalidate(ctx context.Context, entity Entity, key string) {
	policy, ok := PolicyFor(entity)
	if !ok {
		c.log.Warn("cache invalidate for unknown entity", "entity", entity)
		return
	}
	if key != "" {
		c.delete(ctx, c.key(entity, key))
		if policy.CollectionKey != "" && key != policy.CollectionKey {
			c.delete(ctx, c.key(entity, policy.CollectionKey))
		}
		return
	}
	prefix := c.prefix(entity)
	removed := c.local.deletePrefix(prefix)
	if c.durable != nil {
		n, err := c.durable.DeleteByPrefix(ctx, prefix)
		if err != nil {
			c.log.Warn("durable cache prefix delete failed", "prefix", prefix, "error", err)
		}
		removed += n
	}
	c.log.Debug("cache entity cleared", "entity", entity, "removed", removed)
}

func (c *TieredCache) delete(ctx context.Context, full string) {
	c.local.delete(full)
	if c.durable != nil {
		if err := c.durable.Delete(ctx, full); err != nil {
			c.log.Warn("durable cache delete failed", "key", full, "error", err)
		}
	}
}

type refreshNotice struct {
	Event    Event    `json:"event"`
	Key      string   `json:"key,omitempty"`
	Entities []Entity `json:"entities"`
	At       string   `json:"at"`
}

// InvalidateOnEvent invalidates every entity that listens for ev and returns
// the entities touched. An empty key clears the whole entity.
func (c *TieredCache) InvalidateOnEvent(ctx context.Context, ev Event, key string) []Entity {
	entities := EntitiesFor(ev)
	if len(entities) == 0 {
		c.log.Debug("cache event with no listeners", "event", ev)
		return nil
	}
	for _, e := range entities {
		c.Invalidate(ctx, e, key)
	}
	c.publish(ctx, refreshNotice{Event: ev, Key: key, Entities: entities, At: c.now().UTC().Format(time.RFC3339)})
	return entities
}

func (c *TieredCache) publish(ctx context.Context, notice refreshNotice) {
	if c.durable == nil || c.channel == "" {
		return
	}
	raw, err := json.Marshal(notice)
	if err != nil {
		return
	}
	if err := c.durable.Publish(ctx, c.channel, string(raw)); err != nil {
		c.log.Warn("cache refresh publish failed", "channel", c.channel, "error", err)
	}
}

// LocalLen reports the number of entries in the local tier.
func (c *TieredCache) LocalLen() int {
	return c.local.len()
}

// GetJSON decodes a cached value. Unparseable payloads are dropped and read as a miss.
func GetJSON[T any](ctx context.Context, c *TieredCache, entity Entity, key string) (T, bool) {
	var out T
	raw, ok := c.Get(ctx, entity, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("discarding malformed cache payload", "entity", entity, "key", key, "error", err)
		c.Invalidate(ctx, entity, key)
		var zero T
		return zero, false
	}
	return out, true
}

// SetJSON encodes value and stores it with the entity's default TTLs.
func SetJSON[T any](ctx context.Context, c *TieredCache, entity Entity, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, entity, key, raw, 0)
}

// Fetch returns the cached value or calls load, caching its result.
// load errors are returned and nothing is cached.
func Fetch[T any](ctx context.Context, c *TieredCache, entity Entity, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := GetJSON[T](ctx, c, entity, key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := SetJSON(ctx, c, entity, key, v); err != nil {
		c.log.Warn("cache fill failed", "entity", entity, "key", key, "error", err)
	}
	return v, nil
}
