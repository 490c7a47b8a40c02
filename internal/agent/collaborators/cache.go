package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cantrip-core/server/internal/agent/model"
	errx "github.com/cantrip-core/server/internal/core/error"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// KV is the slice of the redis client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached is a read-through redis cache in front of an Adapter. Empty and
// fallback results are never stored. Redis errors fall through to the adapter.
type Cached struct {
	next Adapter
	rdb  KV
	ttl  time.Duration
}

func NewCached(next Adapter, rdb KV, ttl time.Duration) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

// WithCache wraps every adapter when rdb is non-nil.
func WithCache(rdb KV, ttl time.Duration, adapters ...Adapter) []Adapter {
	if rdb == nil {
		return adapters
	}
	out := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, NewCached(a, rdb, ttl))
	}
	return out
}

func (c *Cached) Name() model.Collaborator { return c.next.Name() }

func (c *Cached) key(city string, filters model.Filters) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+filters[k])
	}
	return fmt.Sprintf("collaborator:%s:%s:%s", c.Name(), slug(city), strings.Join(parts, "&"))
}

func (c *Cached) Fetch(ctx context.Context, city string, filters model.Filters) model.Result {
	key := c.key(city, filters)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		res, derr := DecodeResult(c.Name(), raw)
		if derr == nil {
			logx.Debug().Str("key", key).Msg("collaborator cache hit")
			return res
		}
		logx.Warn().Err(derr).Str("key", key).Msg("failed to decode cached result")
	case !errx.IsCacheMiss(err):
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("collaborator cache read failed")
	}

	res := c.next.Fetch(ctx, city, filters)
	if res == nil || res.Len() == 0 {
		return res
	}
	if w, ok := res.(model.WeatherResult); ok && w.Fallback {
		return res
	}

	b, err := json.Marshal(res)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to marshal result")
		return res
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("collaborator cache write failed")
	}
	return res
}

// DecodeResult restores a JSON-encoded result of the given collaborator.
func DecodeResult(name model.Collaborator, raw []byte) (model.Result, error) {
	var (
		res model.Result
		err error
	)
	switch name {
	case model.CollabWeather:
		var v model.WeatherResult
		err = json.Unmarshal(raw, &v)
		res = v
	case model.CollabEvents:
		var v model.EventList
		err = json.Unmarshal(raw, &v)
		res = v
	case model.CollabAttractions:
		var v model.AttractionList
		err = json.Unmarshal(raw, &v)
		res = v
	case model.CollabRecommendations:
		var v model.RecommendationList
		err = json.Unmarshal(raw, &v)
		res = v
	case model.CollabPlanning:
		var v model.ActivityList
		err = json.Unmarshal(raw, &v)
		res = v
	default:
		return nil, fmt.Errorf("unknown collaborator %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s result: %w", name, err)
	}
	return res, nil
}
