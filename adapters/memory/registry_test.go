package memory

import (
	"context"
	"net/netip"
	"sync"
	"testing"
	"time"

	"sixpmaster/domain"
	"sixpmaster/service"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpoint(addr string) domain.Endpoint {
	e, _ := domain.NewEndpoint(netip.MustParseAddrPort(addr))
	return e
}

func announce(t *testing.T, r *memoryRegistry, now time.Time, addr string) {
	t.Helper()
	require.NoError(t, r.Upsert(context.Background(), domain.Announcement{
		Endpoint:      endpoint(addr),
		LastAnnounced: now,
	}))
}

func TestMemoryRegistry_EnsureIndexes(t *testing.T) {
	r := NewRegistry(16, domain.AnnouncementTTL, service.NewTimeProvider(clock.NewMock()))
	require.NoError(t, r.EnsureIndexes(context.Background()))
	require.NoError(t, r.EnsureIndexes(context.Background()))
}

func TestMemoryRegistry_Upsert(t *testing.T) {
	ctx := context.Background()
	mockClock := clock.NewMock()
	tp := service.NewTimeProvider(mockClock)
	r := NewRegistry(16, domain.AnnouncementTTL, tp)

	t.Run("same endpoint yields one entry", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			announce(t, r, tp.Now(), "10.0.0.1:7777")
			mockClock.Add(time.Second)
		}
		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		assert.Equal(t, []domain.Endpoint{endpoint("10.0.0.1:7777")}, got)
	})

	t.Run("latest info wins", func(t *testing.T) {
		require.NoError(t, r.Upsert(ctx, domain.Announcement{Endpoint: endpoint("10.0.0.2:1"), LastAnnounced: tp.Now(), Info: map[any]any{"v": 1}}))
		require.NoError(t, r.Upsert(ctx, domain.Announcement{Endpoint: endpoint("10.0.0.2:1"), LastAnnounced: tp.Now(), Info: map[any]any{"v": 2}}))

		a, ok := r.entries.Get(endpoint("10.0.0.2:1"))
		require.True(t, ok)
		assert.Equal(t, 2, a.Info["v"])
	})

	t.Run("same host different port are distinct", func(t *testing.T) {
		announce(t, r, tp.Now(), "10.0.0.3:1")
		announce(t, r, tp.Now(), "10.0.0.3:2")
		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		assert.Contains(t, got, endpoint("10.0.0.3:1"))
		assert.Contains(t, got, endpoint("10.0.0.3:2"))
	})

	t.Run("concurrent upserts of one endpoint", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = r.Upsert(ctx, domain.Announcement{Endpoint: endpoint("10.0.0.4:9"), LastAnnounced: tp.Now()})
			}()
		}
		wg.Wait()

		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		n := 0
		for _, e := range got {
			if e == endpoint("10.0.0.4:9") {
				n++
			}
		}
		assert.Equal(t, 1, n)
	})
}

func TestMemoryRegistry_QueryRecent(t *testing.T) {
	ctx := context.Background()

	t.Run("empty registry returns empty list", func(t *testing.T) {
		r := NewRegistry(16, domain.AnnouncementTTL, service.NewTimeProvider(clock.NewMock()))
		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("ttl boundary", func(t *testing.T) {
		mockClock := clock.NewMock()
		tp := service.NewTimeProvider(mockClock)
		r := NewRegistry(16, domain.AnnouncementTTL, tp)

		announce(t, r, tp.Now(), "10.0.0.1:7777")

		mockClock.Add(domain.AnnouncementTTL)
		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		assert.Equal(t, []domain.Endpoint{endpoint("10.0.0.1:7777")}, got)

		mockClock.Add(time.Millisecond)
		got, err = r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("refresh keeps endpoint alive", func(t *testing.T) {
		mockClock := clock.NewMock()
		tp := service.NewTimeProvider(mockClock)
		r := NewRegistry(16, domain.AnnouncementTTL, tp)

		announce(t, r, tp.Now(), "10.0.0.1:7777")
		mockClock.Add(150 * time.Second)
		announce(t, r, tp.Now(), "10.0.0.1:7777")
		mockClock.Add(150 * time.Second)

		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		assert.Equal(t, []domain.Endpoint{endpoint("10.0.0.1:7777")}, got)
	})

	t.Run("most recent first and limit", func(t *testing.T) {
		mockClock := clock.NewMock()
		tp := service.NewTimeProvider(mockClock)
		r := NewRegistry(16, domain.AnnouncementTTL, tp)

		announce(t, r, tp.Now(), "10.0.0.1:1")
		mockClock.Add(time.Second)
		announce(t, r, tp.Now(), "10.0.0.2:1")
		mockClock.Add(time.Second)
		announce(t, r, tp.Now(), "10.0.0.3:1")

		got, err := r.QueryRecent(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []domain.Endpoint{endpoint("10.0.0.3:1"), endpoint("10.0.0.2:1")}, got)

		got, err = r.QueryRecent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("capacity evicts least recently announced", func(t *testing.T) {
		tp := service.NewTimeProvider(clock.NewMock())
		r := NewRegistry(2, domain.AnnouncementTTL, tp)

		announce(t, r, tp.Now(), "10.0.0.1:1")
		announce(t, r, tp.Now(), "10.0.0.2:1")
		announce(t, r, tp.Now(), "10.0.0.3:1")

		got, err := r.QueryRecent(ctx, domain.MaxDirectoryEntries)
		require.NoError(t, err)
		assert.Equal(t, []domain.Endpoint{endpoint("10.0.0.3:1"), endpoint("10.0.0.2:1")}, got)
	})
}
