package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(ctx).Err())

	_, err = NewRedisClient(ctx, "not a url")
	assert.Error(t, err)

	mr.Close()
	_, err = NewRedisClient(ctx, "redis://"+mr.Addr()+"/0")
	assert.Error(t, err)
}

func TestRedisDraftStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisDraftStore(client, 30*time.Minute)

	_, err := store.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	draft := models.NewBookingDraft("d1", time.Now())
	draft.VehicleID = "v3"
	require.NoError(t, store.Save(ctx, draft))
	assert.True(t, mr.Exists("booking:draft:d1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("booking:draft:d1"))

	got, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v3", got.VehicleID)
	assert.Equal(t, draft.Step, got.Step)

	mr.FastForward(31 * time.Minute)
	_, err = store.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, store.Save(ctx, draft))
	require.NoError(t, store.Delete(ctx, "d1"))
	_, err = store.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestRedisDraftStoreCorruptPayload(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("booking:draft:d1", "{not json"))

	_, err := NewRedisDraftStore(client, time.Minute).Get(context.Background(), "d1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDraftNotFound)
}

func TestRedisRecentStorePromotesAndCaps(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisRecentStore(client, 24*time.Hour)

	var list []string
	var err error
	for i := 1; i <= 6; i++ {
		list, err = store.Push(ctx, "device-1", fmt.Sprintf("bk-aaaa-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"BK-AAAA-6", "BK-AAAA-5", "BK-AAAA-4", "BK-AAAA-3", "BK-AAAA-2"}, list)

	// a repeat moves to the front without duplicating
	list, err = store.Push(ctx, "device-1", " BK-AAAA-3 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"BK-AAAA-3", "BK-AAAA-6", "BK-AAAA-5", "BK-AAAA-4", "BK-AAAA-2"}, list)

	stored, err := mr.List("tracking:recent:device-1")
	require.NoError(t, err)
	assert.Len(t, stored, models.MaxRecentLookups)
	assert.Equal(t, 24*time.Hour, mr.TTL("tracking:recent:device-1"))

	list, err = store.Push(ctx, "device-1", "  ")
	require.NoError(t, err)
	assert.Len(t, list, models.MaxRecentLookups)

	other, err := store.List(ctx, "device-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, store.Clear(ctx, "device-1"))
	assert.False(t, mr.Exists("tracking:recent:device-1"))

	require.NoError(t, store.Clear(ctx, "device-1"))
}

func TestRedisRecentStoreExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisRecentStore(client, time.Hour)

	_, err := store.Push(ctx, "device-1", "BK-AAAA-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	list, err := store.List(ctx, "device-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisInFlightGuard(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	guard := NewRedisInFlightGuard(client, 30*time.Second)

	ok, err := guard.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, mr.TTL("booking:inflight:draft-1"))

	ok, err = guard.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = guard.Acquire(ctx, "draft-2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, guard.Release(ctx, "draft-1"))
	ok, err = guard.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// a crashed holder does not block forever
	mr.FastForward(31 * time.Second)
	ok, err = guard.Acquire(ctx, "draft-2")
	require.NoError(t, err)
	assert.True(t, ok)
}
