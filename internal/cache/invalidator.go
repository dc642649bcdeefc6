// Package cache implements the fire-and-forget read-cache invalidation
// hooks the engine notifies after writes. The Redis keys mirror the read
// side: job:<id>, jobs_list:<hash> for filtered listings, and
// reviews:<reviewee> for rating summaries. Invalidation is best effort
// only and never required for correctness.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const opTimeout = 2 * time.Second

// Redis invalidates keys on a shared Redis instance.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis connects an invalidator to the given address.
func NewRedis(addr string, log zerolog.Logger) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		log:    log,
	}
}

func (r *Redis) del(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Debug().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

func (r *Redis) delPattern(pattern string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		r.log.Debug().Err(err).Str("pattern", pattern).Msg("cache scan failed")
		return
	}
	if len(keys) > 0 {
		r.del(keys...)
	}
}

// InvalidateJob drops the cached detail for one posting.
func (r *Redis) InvalidateJob(_ context.Context, jobID string) {
	go r.del("job:" + jobID)
}

// InvalidateJobLists drops every cached posting listing.
func (r *Redis) InvalidateJobLists(_ context.Context) {
	go r.delPattern("jobs_list:*")
}

// InvalidateReviews drops the cached rating summary for a reviewee.
func (r *Redis) InvalidateReviews(_ context.Context, revieweeID string) {
	go r.del("reviews:" + revieweeID)
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.client.Close() }

// Noop satisfies the invalidator contract when no cache is configured.
type Noop struct{}

func (Noop) InvalidateJob(context.Context, string)     {}
func (Noop) InvalidateJobLists(context.Context)        {}
func (Noop) InvalidateReviews(context.Context, string) {}
