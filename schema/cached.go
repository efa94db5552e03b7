package schema

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/syssam/modelkit"
)

// ColumnLister lists the columns of a table. *Inspector implements it.
type ColumnLister interface {
	Dialect() string
	Columns(ctx context.Context, table string) ([]string, error)
}

// Cached serves column listings from a modelkit.Cache, falling back to
// the wrapped lister on a miss. Concurrent misses for the same table
// share one lookup.
type Cached struct {
	next   ColumnLister
	cache  modelkit.Cache
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// CachedOption configures a Cached lister.
type CachedOption func(*Cached)

// WithTTL sets how long listings stay cached. Zero keeps them until
// they are invalidated.
func WithTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger cache failures are reported to.
func WithCacheLogger(l *slog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = l
	}
}

// NewCached wraps next with cache.
func NewCached(next ColumnLister, cache modelkit.Cache, opts ...CachedOption) *Cached {
	c := &Cached{next: next, cache: cache, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect implements ColumnLister.
func (c *Cached) Dialect() string {
	return c.next.Dialect()
}

func (c *Cached) key(table string) string {
	return modelkit.CacheKey{Dialect: c.next.Dialect(), Table: table, Operation: "columns"}.String()
}

// Columns implements ColumnLister. A broken cache degrades to direct
// lookups; only errors of the wrapped lister are returned.
func (c *Cached) Columns(ctx context.Context, table string) ([]string, error) {
	key := c.key(table)
	if b, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "schema cache get failed", "key", key, "err", err)
	} else if b != nil {
		var columns []string
		if err := msgpack.Unmarshal(b, &columns); err == nil {
			return columns, nil
		}
		c.logger.WarnContext(ctx, "schema cache entry corrupt", "key", key)
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		columns, err := c.next.Columns(ctx, table)
		if err != nil {
			return nil, err
		}
		b, err := msgpack.Marshal(columns)
		if err != nil {
			return nil, fmt.Errorf("schema: encode columns: %w", err)
		}
		if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "schema cache set failed", "key", key, "err", err)
		}
		return columns, nil
	})
	if err != nil {
		return nil, err
	}
	columns := v.([]string)
	out := make([]string, len(columns))
	copy(out, columns)
	return out, nil
}

// Invalidate drops every cached entry of table.
func (c *Cached) Invalidate(ctx context.Context, table string) error {
	prefix := modelkit.CacheKey{Dialect: c.next.Dialect(), Table: table}.String()
	return c.cache.DeletePrefix(ctx, prefix)
}

var (
	_ ColumnLister = (*Inspector)(nil)
	_ ColumnLister = (*Cached)(nil)
)
