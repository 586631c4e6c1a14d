package status

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/models"
)

func staticChecker(avail *models.Availability, err error) CheckerFunc {
	return func(ctx context.Context) (*models.Availability, error) {
		return avail, err
	}
}

func TestMonitor_InitialStatus(t *testing.T) {
	m := NewMonitor(&Config{}, staticChecker(nil, nil), logger.NewTestLogger(t))

	s := m.Current()
	assert.False(t, s.BackendAvailable)
	assert.Equal(t, []string{}, s.AvailableModels)
	assert.True(t, s.RuleEngineActive)
	assert.True(t, s.HistoryActive)
	assert.False(t, s.GenerativeRemoteAvailable)

	_, ok := m.LastGood()
	assert.False(t, ok)
}

func TestMonitor_Refresh(t *testing.T) {
	fixedNow := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		avail     *models.Availability
		err       error
		available bool
		models    []string
		lastError string
	}{
		{
			name:      "available with models",
			avail:     &models.Availability{Available: true, Models: []string{"llama3.2:latest", "mistral:7b"}},
			available: true,
			models:    []string{"llama3.2:latest", "mistral:7b"},
		},
		{
			name:      "available without models",
			avail:     &models.Availability{Available: true},
			available: true,
			models:    []string{},
		},
		{
			name:      "reported unavailable",
			avail:     &models.Availability{Available: false, Models: []string{"stale"}},
			available: false,
			models:    []string{},
			lastError: "StandardError[BACKEND_UNAVAILABLE]: Model backend unavailable",
		},
		{
			name:      "probe failed",
			err:       errors.New("connection refused"),
			available: false,
			models:    []string{},
			lastError: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(&Config{Timeout: time.Second}, staticChecker(tt.avail, tt.err), logger.NewTestLogger(t))
			m.now = func() time.Time { return fixedNow }

			s := m.Refresh(context.Background())
			assert.Equal(t, tt.available, s.BackendAvailable)
			assert.Equal(t, tt.models, s.AvailableModels)
			assert.Equal(t, tt.lastError, s.LastError)
			assert.Equal(t, fixedNow, s.LastRefreshed)
			assert.True(t, s.RuleEngineActive)
			assert.True(t, s.HistoryActive)
			assert.Equal(t, s, m.Current())
		})
	}
}

func TestMonitor_LastGoodSurvivesFailure(t *testing.T) {
	var fail atomic.Bool
	checker := CheckerFunc(func(ctx context.Context) (*models.Availability, error) {
		if fail.Load() {
			return nil, errors.New("down")
		}
		return &models.Availability{Available: true, Models: []string{"mistral:7b"}}, nil
	})

	m := NewMonitor(&Config{}, checker, logger.NewTestLogger(t))
	m.Refresh(context.Background())

	fail.Store(true)
	s := m.Refresh(context.Background())
	assert.False(t, s.BackendAvailable)

	good, ok := m.LastGood()
	require.True(t, ok)
	assert.True(t, good.BackendAvailable)
	assert.Equal(t, []string{"mistral:7b"}, good.AvailableModels)
}

func TestMonitor_CurrentIsACopy(t *testing.T) {
	m := NewMonitor(&Config{}, staticChecker(&models.Availability{Available: true, Models: []string{"mistral:7b"}}, nil), logger.NewTestLogger(t))
	m.Refresh(context.Background())

	s := m.Current()
	s.AvailableModels[0] = "mutated"

	assert.Equal(t, []string{"mistral:7b"}, m.Current().AvailableModels)
}

func TestMonitor_CancelledRefreshKeepsStatus(t *testing.T) {
	var blocking atomic.Bool
	checker := CheckerFunc(func(ctx context.Context) (*models.Availability, error) {
		if blocking.Load() {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &models.Availability{Available: true, Models: []string{"mistral:7b"}}, nil
	})

	m := NewMonitor(&Config{}, checker, logger.NewTestLogger(t))
	m.Refresh(context.Background())

	blocking.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	s := m.Refresh(ctx)
	assert.True(t, s.BackendAvailable)
	assert.True(t, m.Current().BackendAvailable)
}

func TestMonitor_StartStop(t *testing.T) {
	var calls int32
	checker := CheckerFunc(func(ctx context.Context) (*models.Availability, error) {
		atomic.AddInt32(&calls, 1)
		return &models.Availability{Available: true, Models: []string{"mistral:7b"}}, nil
	})

	m := NewMonitor(&Config{RefreshInterval: 10 * time.Millisecond}, checker, logger.NewTestLogger(t))
	m.Start(context.Background())
	m.Start(context.Background())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.Current().BackendAvailable)

	m.Stop()
	m.Stop()

	after := atomic.LoadInt32(&calls)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&calls))
}

func TestMonitor_StopInterruptsBlockedRefresh(t *testing.T) {
	started := make(chan struct{}, 1)
	checker := CheckerFunc(func(ctx context.Context) (*models.Availability, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return nil, ctx.Err()
	})

	m := NewMonitor(&Config{RefreshInterval: time.Hour}, checker, logger.NewTestLogger(t))
	m.Start(context.Background())
	<-started

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while a refresh was blocked")
	}
	assert.False(t, m.Current().BackendAvailable)
}
