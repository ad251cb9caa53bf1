//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"permitmap/internal/business/models"
	"permitmap/pkg/platform/sentinel"
	"permitmap/pkg/testutil/containers"
)

func TestCachedDetailsReadThrough(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	mem := NewInMemory()
	require.NoError(t, SeedLeganesFixture(mem))

	cached := NewCachedDetails(mem, rc.Client, time.Minute, nil)

	// Miss populates the cache.
	first, err := cached.FindDetails(ctx, "BIZ001")
	require.NoError(t, err)
	require.NotNil(t, first.BusinessInfo)

	keys, err := rc.Client.Keys(ctx, detailsCacheKeyPrefix+"*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)

	// Hit returns the same aggregate without touching the store.
	second, err := cached.FindDetails(ctx, "BIZ001")
	require.NoError(t, err)
	require.Equal(t, first.BusinessInfo.BusinessName, second.BusinessInfo.BusinessName)

	// Not-found results are not cached.
	_, err = cached.FindDetails(ctx, "BIZ002")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	keys, err = rc.Client.Keys(ctx, detailsCacheKeyPrefix+"*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestCachedDetailsCorruptEntryFallsBack(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	mem := NewInMemory()
	details := &models.BusinessDetails{
		BusinessInfo: &models.BusinessNameInfo{BusinessID: "B1", BusinessName: "Business B1"},
	}
	require.NoError(t, mem.Add(models.BusinessRecord{ID: "B1", Name: "Business B1"}, details))

	cached := NewCachedDetails(mem, rc.Client, time.Minute, nil)

	require.NoError(t, rc.Client.Set(ctx, detailsCacheKeyPrefix+"B1", "{not json", time.Minute).Err())

	got, err := cached.FindDetails(ctx, "B1")
	require.NoError(t, err)
	require.Equal(t, "Business B1", got.BusinessInfo.BusinessName)
}
