package session

import (
	"context"
	"testing"
	"time"

	"github.com/flashbots/go-utils/cli"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var testRedisEndpoint = cli.GetEnv("TEST_REDIS_ENDPOINT", "localhost:6379")

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	s := New()
	require.NoError(t, s.Apply(SubmitAmount{Amount: "5"}))
	require.NoError(t, s.Apply(QuoteReceived{Comparison: testComparison()}))
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, StateShowingResults, got.State)
	require.Equal(t, *s.Results, *got.Results)

	// stored copy is not affected by later changes
	require.NoError(t, got.Apply(OpenFeedback{Sentiment: "confused"}))
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, StateShowingResults, again.State)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Minute))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(50 * time.Millisecond)
	s := New()
	require.NoError(t, store.Put(context.Background(), s))
	time.Sleep(100 * time.Millisecond)
	_, err := store.Get(context.Background(), s.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore(t *testing.T) {
	red := redis.NewClient(&redis.Options{
		Addr: testRedisEndpoint,
	})
	defer red.Close()

	ctx := context.Background()
	if err := red.Ping(ctx).Err(); err != nil {
		t.Skipf("redis is not available: %v", err)
	}

	store := NewRedisStore(red, time.Minute, "test-session-")
	require.NoError(t, store.DeleteAll(ctx))
	testStore(t, store)
	require.NoError(t, store.DeleteAll(ctx))
}
