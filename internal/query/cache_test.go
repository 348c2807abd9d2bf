// internal/query/cache_test.go
package query

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-dashboard/internal/common/database"
	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/services"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	store := &database.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	t.Cleanup(func() { store.Close() })
	return New(store, 5*time.Minute, logger.NewTestLogger(t)), mr
}

func dealerList(names ...string) []models.Dealer {
	out := make([]models.Dealer, 0, len(names))
	for i, name := range names {
		out = append(out, models.Dealer{ID: string(rune('a' + i)), DealerName: name})
	}
	return out
}

// ==========================
// Fetch Tests
// ==========================

func TestFetch_MissRunsFetcherAndCaches(t *testing.T) {
	cache, _ := createTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) services.Result[[]models.Dealer] {
		calls++
		return services.OK(dealerList("First", "Second"))
	}

	res := Fetch(ctx, cache, KeyDealers, fetch)
	require.True(t, res.Success)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, 1, calls)

	// Second read within the freshness window is served from the cache.
	res = Fetch(ctx, cache, KeyDealers, fetch)
	require.True(t, res.Success)
	assert.Equal(t, "First", res.Data[0].DealerName)
	assert.Equal(t, 1, calls, "fresh entry must not refetch")
}

func TestFetch_ExpiredEntryRefetches(t *testing.T) {
	cache, mr := createTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) services.Result[[]models.Dealer] {
		calls++
		return services.OK(dealerList("First"))
	}

	Fetch(ctx, cache, KeyDealers, fetch)
	mr.FastForward(6 * time.Minute)

	Fetch(ctx, cache, KeyDealers, fetch)
	assert.Equal(t, 2, calls, "stale entry refetches")
}

func TestFetch_FailureIsNotCached(t *testing.T) {
	cache, _ := createTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) services.Result[[]models.Dealer] {
		calls++
		if calls == 1 {
			return services.Fail[[]models.Dealer](apperrors.NewBackendUnreachableError(assert.AnError))
		}
		return services.OK(dealerList("First"))
	}

	res := Fetch(ctx, cache, KeyDealers, fetch)
	assert.False(t, res.Success)

	res = Fetch(ctx, cache, KeyDealers, fetch)
	require.True(t, res.Success)
	assert.Equal(t, 2, calls, "failed fetch leaves nothing behind")
}

func TestFetch_CancelledFetchDiscardedEntirely(t *testing.T) {
	cache, mr := createTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())

	fetch := func(ctx context.Context) services.Result[[]models.Dealer] {
		// The caller navigates away while the fetch is in flight.
		cancel()
		return services.OK(dealerList("First"))
	}

	res := Fetch(ctx, cache, KeyDealers, fetch)
	assert.False(t, res.Success)
	assert.True(t, res.Cancelled())
	assert.Empty(t, res.Data, "cancelled result never surfaces data")
	assert.False(t, mr.Exists("query:"+KeyDealers), "cancelled result never lands in the cache")
}

func TestFetch_UnreadableEntryDroppedAndRefetched(t *testing.T) {
	cache, mr := createTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("query:"+KeyDealers, "{not json"))

	calls := 0
	fetch := func(ctx context.Context) services.Result[[]models.Dealer] {
		calls++
		return services.OK(dealerList("First"))
	}

	res := Fetch(ctx, cache, KeyDealers, fetch)
	require.True(t, res.Success)
	assert.Equal(t, 1, calls)
}

func TestFetch_CacheWriteFailureStillReturnsData(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := New(&database.RedisClient{Client: db}, 5*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	data := dealerList("First")
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	mock.ExpectGet("query:" + KeyDealers).RedisNil()
	mock.ExpectSet("query:"+KeyDealers, raw, 5*time.Minute).SetErr(assert.AnError)

	res := Fetch(ctx, cache, KeyDealers, func(ctx context.Context) services.Result[[]models.Dealer] {
		return services.OK(data)
	})

	require.True(t, res.Success, "a cache write failure must not fail the fetch")
	assert.Equal(t, "First", res.Data[0].DealerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_ToleratesStoreFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := New(&database.RedisClient{Client: db}, 5*time.Minute, logger.NewTestLogger(t))

	mock.ExpectDel("query:" + KeyDealers).SetErr(assert.AnError)

	// Invalidation failure is logged, never propagated.
	cache.Invalidate(context.Background(), KeyDealers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Invalidation Tests
// ==========================

func TestInvalidate_ForcesRefetchPerKey(t *testing.T) {
	cache, _ := createTestCache(t)
	ctx := context.Background()

	dealerCalls, submissionCalls := 0, 0
	fetchDealers := func(ctx context.Context) services.Result[[]models.Dealer] {
		dealerCalls++
		return services.OK(dealerList("First"))
	}
	fetchSubmissions := func(ctx context.Context) services.Result[[]models.Submission] {
		submissionCalls++
		return services.OK([]models.Submission{{ID: "s1"}})
	}

	Fetch(ctx, cache, KeyDealers, fetchDealers)
	Fetch(ctx, cache, KeySubmissions, fetchSubmissions)

	cache.Invalidate(ctx, KeyDealers)

	Fetch(ctx, cache, KeyDealers, fetchDealers)
	Fetch(ctx, cache, KeySubmissions, fetchSubmissions)

	assert.Equal(t, 2, dealerCalls, "invalidated key refetches")
	assert.Equal(t, 1, submissionCalls, "untouched key stays cached")
}
