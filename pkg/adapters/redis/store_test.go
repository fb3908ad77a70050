package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant/pkg/adapters/redis"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ports.RunHistoryStoreContract(t, store)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	thread := domain.NewThread("abc")
	thread.Append(domain.NewUserMessage("hi"))
	require.NoError(t, store.Save(ctx, thread))

	assert.True(t, mr.Exists("custom:abc"), "thread key should use the custom prefix")
	assert.True(t, mr.Exists("custom:index"), "index key should use the custom prefix")
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewThread("ephemeral")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "ephemeral")

	// miniredis advances time manually.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ephemeral")
	assert.ErrorIs(t, err, domain.ErrThreadNotFound)
}

func TestRedisStore_ListPrunesExpiredIndex(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewThread("alive")))

	// An entry whose TTL passed long ago: the thread key expired server-side
	// and only the index row remains.
	yesterday := float64(time.Now().Add(-24 * time.Hour).Unix())
	require.NoError(t, client.ZAdd(ctx, "voyant:thread:index", backend.Z{
		Score:  yesterday,
		Member: "expired",
	}).Err())

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "alive")
	assert.NotContains(t, ids, "expired", "lazy cleanup must drop stale index rows")
}

func TestRedisStore_SurvivesRoundtrip(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	thread := domain.NewThread("rt-1")
	thread.Append(
		domain.NewUserMessage("flights from Durban to Harare on 2024-06-22"),
		domain.NewAssistantMessage("", domain.ToolCall{
			ID:   "c1",
			Name: domain.ToolSearchFlights,
			Args: map[string]any{"departure_id": "DUR", "arrival_id": "HRE"},
		}),
		domain.NewToolMessage(domain.ToolResult{ID: "c1", Name: domain.ToolSearchFlights, Content: `[{"price":120}]`}),
	)
	thread.Phase = domain.PhaseDone
	thread.Rounds = 2
	require.NoError(t, store.Save(ctx, thread))

	loaded, err := store.Load(ctx, "rt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseDone, loaded.Phase)
	assert.Equal(t, 2, loaded.Rounds)
	require.Len(t, loaded.Messages, 3)
	assert.Equal(t, "c1", loaded.Messages[1].ToolCalls[0].ID)
	assert.Equal(t, "c1", loaded.Messages[2].ToolCallID)
}
