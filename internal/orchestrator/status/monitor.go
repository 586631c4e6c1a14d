// Package status keeps the cached view of model backend health.
package status

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"luuno-orchestrator/internal/common/errors"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/common/metrics"
	"luuno-orchestrator/internal/models"
)

const (
	resultAvailable   = "available"
	resultUnavailable = "unavailable"
	resultError       = "error"
)

type Config struct {
	RefreshInterval time.Duration
	Timeout         time.Duration
}

// Monitor holds the latest SystemStatus. Readers never block on a refresh.
type Monitor struct {
	config  *Config
	checker Checker
	now     func() time.Time
	logger  logger.Logger

	current  atomic.Pointer[models.SystemStatus]
	lastGood atomic.Pointer[models.SystemStatus]

	refreshMu sync.Mutex

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewMonitor(config *Config, checker Checker, log logger.Logger) *Monitor {
	if config == nil {
		config = &Config{}
	}
	m := &Monitor{
		config:  config,
		checker: checker,
		now:     time.Now,
		logger:  log.With(map[string]interface{}{"component": "status-monitor"}),
	}
	initial := models.UnavailableStatus()
	m.current.Store(&initial)
	return m
}

// Refresh probes the backend and replaces the current status. A failed probe
// yields an unavailable status; it is never returned as an error. A refresh
// abandoned because ctx was cancelled leaves the current status untouched.
func (m *Monitor) Refresh(ctx context.Context) models.SystemStatus {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	parent := ctx
	if m.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	status := models.UnavailableStatus()
	status.LastRefreshed = m.now().UTC()

	avail, err := m.checker.CheckAvailability(ctx)
	if err != nil && parent.Err() != nil {
		m.logger.Debug("status refresh cancelled", map[string]interface{}{
			"error": parent.Err(),
		})
		return m.Current()
	}

	switch {
	case err != nil:
		status.LastError = err.Error()
		metrics.StatusRefreshes.WithLabelValues(resultError).Inc()
		m.logger.Warn("backend status check failed", map[string]interface{}{
			"error": err,
		})
	case avail != nil && avail.Available:
		status.BackendAvailable = true
		status.AvailableModels = append([]string{}, avail.Models...)
		metrics.StatusRefreshes.WithLabelValues(resultAvailable).Inc()
	default:
		status.LastError = errors.NewBackendUnavailableError(nil).Error()
		metrics.StatusRefreshes.WithLabelValues(resultUnavailable).Inc()
	}

	if status.BackendAvailable {
		metrics.BackendAvailable.Set(1)
		good := status
		m.lastGood.Store(&good)
	} else {
		metrics.BackendAvailable.Set(0)
	}

	m.current.Store(&status)

	m.logger.Debug("backend status refreshed", map[string]interface{}{
		"available": status.BackendAvailable,
		"models":    len(status.AvailableModels),
	})

	return clone(status)
}

// Current returns the last stored status without probing.
func (m *Monitor) Current() models.SystemStatus {
	return clone(*m.current.Load())
}

// LastGood returns the most recent status that found the backend available.
func (m *Monitor) LastGood() (models.SystemStatus, bool) {
	s := m.lastGood.Load()
	if s == nil {
		return models.SystemStatus{}, false
	}
	return clone(*s), true
}

// Start refreshes immediately and then every RefreshInterval until Stop or
// ctx is cancelled. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	interval := m.config.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go m.loop(ctx, interval, m.done)
}

func (m *Monitor) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	m.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}

// Stop cancels the refresh loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.running = false
	m.mu.Unlock()

	cancel()
	<-done
}

func clone(s models.SystemStatus) models.SystemStatus {
	s.AvailableModels = append([]string{}, s.AvailableModels...)
	return s
}
