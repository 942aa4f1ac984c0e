package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdempotencyFirstClaim(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, body, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)
	require.False(t, exists, "first claim must not report an existing key")
	require.Nil(t, body)
}

func TestIdempotencyReplayWhileProcessing(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)

	exists, body, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)
	require.True(t, exists, "replay must see the claimed key")
	require.Nil(t, body, "no response is recorded while processing")
}

func TestIdempotencyReplayAfterUpdate(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)

	recorded := []byte(`{"id":"tx-1"}`)
	require.NoError(t, store.Update(ctx, "deposit:key-1", recorded, time.Minute))

	exists, body, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)
	require.True(t, exists, "replay must see the claimed key")
	require.Equal(t, recorded, body)
}

func TestIdempotencyExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "deposit:key-1", []byte("done"), time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)
	require.False(t, exists, "expired key must be claimable again")
}

func TestIdempotencyDistinctOperations(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "deposit:key-1", nil, time.Minute)
	require.NoError(t, err)

	exists, _, err := store.CheckAndSet(ctx, "withdraw:key-1", nil, time.Minute)
	require.NoError(t, err)
	require.False(t, exists, "same key under a different operation must not collide")
}
