package myredis

import (
	"context"
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"sixpmaster/domain"
	"sixpmaster/interfaces"
	"sixpmaster/service"

	"github.com/go-redis/redis/v8"
)

const schemaVersion = 1

// Layout under prefix:
//
//	{prefix}:{host}:{port}  msgpack announcementRecord, expires after ttl
//	{prefix}:index          ZSET of "{host}:{port}" scored by lastAnnounced (unix ms)
//	{prefix}:schema         HASH describing the layout
//
// One key per endpoint makes (host, port) unique; the index gives recency queries that
// never return entries older than ttl even before Redis evicts them.
type redisRegistry struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	clock  interfaces.TimeProvider
}

var _ interfaces.Registry = (*redisRegistry)(nil)

type announcementRecord struct {
	Host          string         `codec:"host"`
	Port          uint16         `codec:"port"`
	LastAnnounced time.Time      `codec:"announced"`
	Info          map[any]any    `codec:"info"`
}

// NewRegistry creates redis implementation of the session registry.
func NewRegistry(client redis.UniversalClient, prefix string, ttl time.Duration, clock interfaces.TimeProvider) *redisRegistry {
	return &redisRegistry{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		clock:  clock,
	}
}

func (r *redisRegistry) EnsureIndexes(ctx context.Context) error {
	err := r.client.HSet(ctx, r.schemaKey(),
		"version", schemaVersion,
		"ttl_ms", r.ttl.Milliseconds(),
		"record_key", r.prefix+":{host}:{port}",
		"index_key", r.indexKey(),
	).Err()
	if err != nil {
		return service.NewStorageFailureError("Redis write schema error", fmt.Errorf("can't write registry schema (key='%s'), err: %w", r.schemaKey(), err))
	}
	return nil
}

func (r *redisRegistry) Upsert(ctx context.Context, a domain.Announcement) error {
	bytes, err := service.MarshalMsgpack(announcementRecord{
		Host:          a.Host.String(),
		Port:          a.Port,
		LastAnnounced: a.LastAnnounced,
		Info:          a.Info,
	})
	if err != nil {
		return service.NewStorageFailureError("Redis marshal announcement error", fmt.Errorf("can't marshal announcement of %s, err: %w", a.Endpoint, err))
	}

	member := a.Endpoint.String()
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.recordKey(member), bytes, r.ttl)
	pipe.ZAdd(ctx, r.indexKey(), &redis.Z{Score: float64(a.LastAnnounced.UnixMilli()), Member: member})
	pipe.ZRemRangeByScore(ctx, r.indexKey(), "-inf", "("+r.cutoff())
	if _, err := pipe.Exec(ctx); err != nil {
		return service.NewStorageFailureError("Redis write announcement error", fmt.Errorf("can't write announcement to redis (key='%s'), err: %w", r.recordKey(member), err))
	}

	return nil
}

// QueryRecent prunes expired index entries, then returns the most recently announced endpoints first.
func (r *redisRegistry) QueryRecent(ctx context.Context, limit int) ([]domain.Endpoint, error) {
	if limit <= 0 {
		return []domain.Endpoint{}, nil
	}

	cutoff := r.cutoff()
	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, r.indexKey(), "-inf", "("+cutoff)
	members := pipe.ZRevRangeByScore(ctx, r.indexKey(), &redis.ZRangeBy{
		Min:   cutoff,
		Max:   "+inf",
		Count: int64(limit),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, service.NewStorageFailureError("Redis query index error", fmt.Errorf("redis query index error, err: %w", err))
	}

	endpoints := make([]domain.Endpoint, 0, len(members.Val()))
	for _, m := range members.Val() {
		addr, err := netip.ParseAddrPort(m)
		if err != nil {
			continue
		}
		e, ok := domain.NewEndpoint(addr)
		if !ok {
			continue
		}
		endpoints = append(endpoints, e)
	}

	return endpoints, nil
}

// cutoff is the oldest lastAnnounced score that is still live, as a ZSET bound.
func (r *redisRegistry) cutoff() string {
	return strconv.FormatInt(r.clock.Now().Add(-r.ttl).UnixMilli(), 10)
}

func (r *redisRegistry) recordKey(member string) string {
	return r.prefix + ":" + member
}

func (r *redisRegistry) indexKey() string {
	return r.prefix + ":index"
}

func (r *redisRegistry) schemaKey() string {
	return r.prefix + ":schema"
}
