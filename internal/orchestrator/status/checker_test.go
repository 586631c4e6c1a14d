package status

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luuno-orchestrator/internal/common/database"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/models"
)

const cacheKey = "luuno:status:availability"

func TestCachedChecker_Hit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cached, _ := json.Marshal(models.Availability{Available: true, Models: []string{"mistral:7b"}})
	mock.ExpectGet(cacheKey).SetVal(string(cached))

	next := CheckerFunc(func(ctx context.Context) (*models.Availability, error) {
		t.Fatal("backend should not be probed on a cache hit")
		return nil, nil
	})

	c := NewCachedChecker(next, &database.RedisClient{Client: client}, "luuno:status", 15*time.Second, logger.NewTestLogger(t))
	avail, err := c.CheckAvailability(context.Background())

	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, []string{"mistral:7b"}, avail.Models)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedChecker_MissStores(t *testing.T) {
	client, mock := redismock.NewClientMock()
	fresh := &models.Availability{Available: true, Models: []string{"llama3.2:latest"}}
	data, _ := json.Marshal(fresh)

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSet(cacheKey, data, 15*time.Second).SetVal("OK")

	c := NewCachedChecker(staticChecker(fresh, nil), &database.RedisClient{Client: client}, "luuno:status", 15*time.Second, logger.NewTestLogger(t))
	avail, err := c.CheckAvailability(context.Background())

	require.NoError(t, err)
	assert.Equal(t, fresh, avail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedChecker_RedisDownFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	fresh := &models.Availability{Available: true, Models: []string{"mistral:7b"}}
	data, _ := json.Marshal(fresh)

	mock.ExpectGet(cacheKey).SetErr(errors.New("connection reset"))
	mock.ExpectSet(cacheKey, data, 15*time.Second).SetErr(errors.New("connection reset"))

	c := NewCachedChecker(staticChecker(fresh, nil), &database.RedisClient{Client: client}, "luuno:status", 15*time.Second, logger.NewTestLogger(t))
	avail, err := c.CheckAvailability(context.Background())

	require.NoError(t, err)
	assert.Equal(t, fresh, avail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedChecker_ProbeErrorNotCached(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet(cacheKey).RedisNil()

	c := NewCachedChecker(staticChecker(nil, errors.New("down")), &database.RedisClient{Client: client}, "luuno:status", 15*time.Second, logger.NewTestLogger(t))
	_, err := c.CheckAvailability(context.Background())

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedChecker_ExpiresAndInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var probes int32
	next := CheckerFunc(func(ctx context.Context) (*models.Availability, error) {
		atomic.AddInt32(&probes, 1)
		return &models.Availability{Available: true, Models: []string{"mistral:7b"}}, nil
	})

	c := NewCachedChecker(next, &database.RedisClient{Client: client}, "luuno:status", 15*time.Second, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := c.CheckAvailability(ctx)
	require.NoError(t, err)
	_, err = c.CheckAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&probes))
	assert.True(t, mr.Exists(cacheKey))

	mr.FastForward(16 * time.Second)
	_, err = c.CheckAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&probes))

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.CheckAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&probes))
}

func TestMonitor_WithCachedChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	backend := staticChecker(&models.Availability{Available: true, Models: []string{"llama3.2:latest"}}, nil)
	cached := NewCachedChecker(backend, &database.RedisClient{Client: client}, "luuno:status", time.Minute, logger.NewTestLogger(t))

	m := NewMonitor(&Config{Timeout: time.Second}, cached, logger.NewTestLogger(t))
	s := m.Refresh(context.Background())

	assert.True(t, s.BackendAvailable)
	assert.Equal(t, []string{"llama3.2:latest"}, s.AvailableModels)
}
