package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

type fakeRepo struct {
	services map[int64]*domain.Service
	getCalls int
	lists    int
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	f.getCalls++
	s, ok := f.services[id]
	if !ok {
		return nil, assert.AnError
	}
	copied := *s
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, activeOnly bool) ([]*domain.Service, error) {
	f.lists++
	result := make([]*domain.Service, 0)
	for _, s := range f.services {
		if activeOnly && !s.IsActive {
			continue
		}
		copied := *s
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	return ids, nil
}

func (f *fakeRepo) SetActive(_ context.Context, ids []int64, active bool) (int64, error) {
	var changed int64
	for _, id := range ids {
		if s, ok := f.services[id]; ok && s.IsActive != active {
			s.IsActive = active
			changed++
		}
	}
	return changed, nil
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func setup(t *testing.T) (*Cache, *fakeRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeRepo{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Facial", DurationMinutes: 60, Price: decimal.RequireFromString("80.00"), IsActive: true},
	}}

	return New(repo, client, time.Minute, nopLogger{}), repo, mr
}

func TestCache_GetByID_ReadThrough(t *testing.T) {
	cache, repo, mr := setup(t)
	ctx := context.Background()

	first, err := cache.GetByID(ctx, 1)
	require.NoError(t, err)
	second, err := cache.GetByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, second.Price.Equal(decimal.RequireFromString("80")))
	assert.True(t, mr.Exists("catalog:service:1"))

	mr.FastForward(2 * time.Minute)
	_, err = cache.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)
}

func TestCache_SetActiveInvalidates(t *testing.T) {
	cache, repo, mr := setup(t)
	ctx := context.Background()

	_, err := cache.GetByID(ctx, 1)
	require.NoError(t, err)
	active, err := cache.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	changed, err := cache.SetActive(ctx, []int64{1}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
	assert.False(t, mr.Exists("catalog:service:1"))
	assert.False(t, mr.Exists(activeListKey))

	s, err := cache.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, s.IsActive)
	assert.Equal(t, 2, repo.getCalls)

	active, err = cache.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	changed, err = cache.SetActive(ctx, []int64{1}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
}

func TestCache_RedisDown(t *testing.T) {
	cache, repo, mr := setup(t)
	mr.SetError("LOADING redis is loading the dataset")

	s, err := cache.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Facial", s.Name)
	assert.Equal(t, 1, repo.getCalls)
}

func TestCache_Disabled(t *testing.T) {
	repo := &fakeRepo{services: map[int64]*domain.Service{1: {ID: 1, Name: "Facial", IsActive: true}}}
	cache := New(repo, nil, 0, nopLogger{})

	_, err := cache.GetByID(context.Background(), 1)
	require.NoError(t, err)
	_, err = cache.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)
}
