// Package cache stores computed read views (dashboard, analytics, reports,
// listings) in Redis until a write invalidates them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// View names. A sale commit or cancel invalidates every view that reads
// sales or stock.
const (
	ViewSales          = "sales"
	ViewSalesStats     = "sales-stats"
	ViewProducts       = "products"
	ViewStockMovements = "stock-movements"
	ViewDashboard      = "dashboard"
	ViewAnalytics      = "analytics"
	ViewReports        = "reports"
	ViewCatalog        = "catalog" // categories and suppliers
)

// SaleViews are the views touched by a sale commit or cancellation.
var SaleViews = []string{
	ViewSales, ViewSalesStats, ViewProducts, ViewStockMovements,
	ViewDashboard, ViewAnalytics, ViewReports,
}

// ProductViews are the views touched by a catalog product write.
var ProductViews = []string{ViewProducts, ViewDashboard, ViewAnalytics, ViewReports}

// Cache is a best-effort view cache. Get reports a miss on any error.
// The Token from a miss is handed back to Set so a value computed before an
// invalidation is never stored under the newer generation.
type Cache interface {
	Get(ctx context.Context, view, key string, dest any) (Token, bool)
	Set(ctx context.Context, tok Token, value any)
	Invalidate(ctx context.Context, views ...string) error
}

// Token identifies a cache slot as seen by Get.
type Token struct {
	View string
	Key  string
	gen  int64
	ok   bool // false when the generation could not be read; Set skips
}

// RedisCache namespaces entries by a per-view generation counter:
// invalidating a view bumps the counter, orphaning old entries until their
// TTL expires. No key scans are needed.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func generationKey(view string) string { return "view:" + view + ":gen" }

func entryKey(view string, gen int64, key string) string {
	return fmt.Sprintf("view:%s:%d:%s", view, gen, key)
}

// getter is the part of *redis.Client and *redis.Tx used to read a generation.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, r getter, view string) (int64, error) {
	gen, err := r.Get(ctx, generationKey(view)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

func (c *RedisCache) Get(ctx context.Context, view, key string, dest any) (Token, bool) {
	tok := Token{View: view, Key: key}
	gen, err := readGeneration(ctx, c.rdb, view)
	if err != nil {
		return tok, false
	}
	tok.gen, tok.ok = gen, true
	data, err := c.rdb.Get(ctx, entryKey(view, gen, key)).Bytes()
	if err != nil {
		return tok, false
	}
	return tok, json.Unmarshal(data, dest) == nil
}

// Set stores value only while the view is still at the generation tok was
// taken at. The check and the write run under WATCH, so an Invalidate
// landing in between aborts the write.
func (c *RedisCache) Set(ctx context.Context, tok Token, value any) {
	if !tok.ok {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := readGeneration(ctx, tx, tok.View)
		if err != nil {
			return err
		}
		if gen != tok.gen {
			return errStaleToken
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entryKey(tok.View, tok.gen, tok.Key), data, c.ttl)
			return nil
		})
		return err
	}, generationKey(tok.View))
	switch {
	case err == nil:
	case errors.Is(err, errStaleToken), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("view", tok.View).Msg("cache: view invalidated while computing, not stored")
	default:
		log.Debug().Err(err).Str("view", tok.View).Msg("cache: set failed")
	}
}

var errStaleToken = errors.New("cache: stale generation")

func (c *RedisCache) Invalidate(ctx context.Context, views ...string) error {
	pipe := c.rdb.TxPipeline()
	for _, v := range views {
		pipe.Incr(ctx, generationKey(v))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(_ context.Context, view, key string, _ any) (Token, bool) {
	return Token{View: view, Key: key}, false
}
func (Noop) Set(context.Context, Token, any)             {}
func (Noop) Invalidate(context.Context, ...string) error { return nil }
