// Package rediscache decorates a storage.Storage with a Redis cache for
// the department/section stats. Every successful create bumps a version
// key and drops the cached value so the next read recomputes it. A read
// only writes its result back if the version is unchanged since it
// queried the store, so a create racing the read cannot leave stale
// stats behind.
//
// Redis is an optimisation only: any Redis failure is logged and the
// call falls through to the underlying store.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

const (
	// StatsKey holds the JSON-encoded []types.SectionStat.
	StatsKey = "alumni:stats:sections"

	// StatsVersionKey is incremented on every create.
	StatsVersionKey = "alumni:stats:version"
)

var errStatsChanged = errors.New("stats changed during read")

// Store wraps a storage.Storage. Methods it does not override are
// promoted from the embedded store.
type Store struct {
	storage.Storage
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// New wraps next. A nil logger falls back to slog.Default().
func New(next storage.Storage, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{Storage: next, rdb: rdb, ttl: ttl, log: log}
}

// Connect parses url, builds a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (s *Store) CreateAlumni(ctx context.Context, a types.Alumni) (types.Alumni, error) {
	created, err := s.Storage.CreateAlumni(ctx, a)
	if err != nil {
		return created, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, StatsVersionKey)
		pipe.Del(ctx, StatsKey)
		return nil
	})
	if err != nil {
		s.log.Warn("stats cache invalidation failed", slog.String("error", err.Error()))
	}
	return created, nil
}

func (s *Store) GetSectionStats(ctx context.Context) ([]types.SectionStat, error) {
	raw, err := s.rdb.Get(ctx, StatsKey).Bytes()
	switch {
	case err == nil:
		var stats []types.SectionStat
		if err := json.Unmarshal(raw, &stats); err == nil {
			return stats, nil
		}
		s.log.Warn("discarding unreadable stats cache entry")
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn("stats cache read failed", slog.String("error", err.Error()))
	}

	version, versionErr := s.version(ctx, s.rdb)

	stats, err := s.Storage.GetSectionStats(ctx)
	if err != nil {
		return nil, err
	}

	if versionErr == nil {
		s.fill(ctx, version, stats)
	}

	return stats, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// version reads StatsVersionKey; a missing key is version "".
func (s *Store) version(ctx context.Context, c getter) (string, error) {
	v, err := c.Get(ctx, StatsVersionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// fill caches stats unless a create bumped the version after it was read.
func (s *Store) fill(ctx context.Context, version string, stats []types.SectionStat) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.version(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return errStatsChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, StatsKey, data, s.ttl)
			return nil
		})
		return err
	}, StatsVersionKey)

	switch {
	case err == nil:
	case errors.Is(err, errStatsChanged), errors.Is(err, redis.TxFailedErr):
		s.log.Debug("stats changed during read, not caching")
	default:
		s.log.Warn("stats cache write failed", slog.String("error", err.Error()))
	}
}
