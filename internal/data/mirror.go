package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// Compile-time interface checks
var (
	_ biz.Mirror = (*RedisMirror)(nil)
	_ biz.Mirror = (*noopMirror)(nil)
)

// applyScript folds one record into the mirror hashes. Records at or below the
// stored cursor were already applied and are skipped.
//
// KEYS: links, redirects, cursor. ARGV: seq, event name, slug, url.
var applyScript = redis.NewScript(`
local cursor = tonumber(redis.call('GET', KEYS[3]) or '0')
local seq = tonumber(ARGV[1])
if seq <= cursor then
  return 0
end
if ARGV[2] == 'link.created' then
  redis.call('HSETNX', KEYS[1], ARGV[3], ARGV[4])
elseif ARGV[2] == 'link.redirected' then
  redis.call('HINCRBY', KEYS[2], ARGV[3], 1)
end
redis.call('SET', KEYS[3], ARGV[1])
return 1
`)

// RedisMirror keeps a copy of the slug registry and click counters in Redis
// for readers outside this process.
type RedisMirror struct {
	rdb    *redis.Client
	prefix string
	log    *log.Helper
}

// NewRedisMirror returns the Redis mirror, or a mirror that drops everything when Redis is not configured.
func NewRedisMirror(d *Data, logger log.Logger) biz.Mirror {
	if d.rdb == nil {
		return &noopMirror{}
	}
	return newRedisMirror(d.rdb, d.prefix, logger)
}

func newRedisMirror(rdb *redis.Client, prefix string, logger log.Logger) *RedisMirror {
	return &RedisMirror{
		rdb:    rdb,
		prefix: prefix,
		log:    log.NewHelper(log.With(logger, "module", "data/mirror")),
	}
}

func (m *RedisMirror) linksKey() string     { return m.prefix + ":links" }
func (m *RedisMirror) redirectsKey() string { return m.prefix + ":redirects" }
func (m *RedisMirror) cursorKey() string    { return m.prefix + ":cursor" }

// Apply folds the record into the mirror at most once.
func (m *RedisMirror) Apply(ctx context.Context, r event.Record) error {
	var rawURL string
	if created, ok := r.Event.(event.LinkCreated); ok {
		rawURL = string(created.URL)
	}

	applied, err := applyScript.Run(ctx, m.rdb,
		[]string{m.linksKey(), m.redirectsKey(), m.cursorKey()},
		strconv.FormatUint(r.Seq, 10), r.Event.EventName(), r.Event.Subject().String(), rawURL,
	).Int()
	if err != nil {
		return fmt.Errorf("mirror record %d: %w", r.Seq, err)
	}

	if applied == 0 {
		m.log.WithContext(ctx).Debugf("record %d already mirrored", r.Seq)
	}
	return nil
}

// Lookup returns the URL mirrored for slug.
func (m *RedisMirror) Lookup(ctx context.Context, slug domain.Slug) (domain.URL, bool, error) {
	u, err := m.rdb.HGet(ctx, m.linksKey(), slug.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.URL(u), true, nil
}

// Redirects returns the mirrored redirect count for slug.
func (m *RedisMirror) Redirects(ctx context.Context, slug domain.Slug) (uint64, error) {
	n, err := m.rdb.HGet(ctx, m.redirectsKey(), slug.String()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Cursor returns the sequence number of the last mirrored record.
func (m *RedisMirror) Cursor(ctx context.Context) (uint64, error) {
	n, err := m.rdb.Get(ctx, m.cursorKey()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Reset deletes the mirrored links, counters and cursor.
func (m *RedisMirror) Reset(ctx context.Context) error {
	if err := m.rdb.Del(ctx, m.linksKey(), m.redirectsKey(), m.cursorKey()).Err(); err != nil {
		return fmt.Errorf("reset mirror: %w", err)
	}
	return nil
}

type noopMirror struct{}

func (noopMirror) Apply(context.Context, event.Record) error { return nil }

func (noopMirror) Cursor(context.Context) (uint64, error) { return 0, nil }

func (noopMirror) Reset(context.Context) error { return nil }
