// Package monitor polls service health on an interval and fans reports out
// to subscribers.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"MockShop/internal/client"
)

type CheckFunc func(ctx context.Context) client.Report

type Monitor struct {
	check    CheckFunc
	interval time.Duration
	log      *zap.Logger

	inFlight atomic.Bool
	skipped  atomic.Uint64
	wg       sync.WaitGroup

	mu      sync.RWMutex
	latest  *client.Report
	subs    map[int]chan client.Report
	nextSub int
}

func New(check CheckFunc, interval time.Duration, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		check:    check,
		interval: interval,
		log:      log,
		subs:     make(map[int]chan client.Report),
	}
}

// Start runs a cycle immediately and then one per interval until ctx is
// done. Ticks that arrive while a cycle is running are dropped.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("health monitor started", zap.Duration("interval", m.interval))
	m.spawn(ctx)

	for {
		select {
		case <-ctx.Done():
			m.wg.Wait()
			m.log.Info("health monitor stopped")
			return
		case <-ticker.C:
			m.spawn(ctx)
		}
	}
}

func (m *Monitor) spawn(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.CheckNow(ctx)
	}()
}

// CheckNow runs one cycle unless another is in flight. ran is false when the
// call was skipped; the returned report is then the latest known one.
func (m *Monitor) CheckNow(ctx context.Context) (rep client.Report, ran bool) {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.skipped.Add(1)
		m.log.Debug("health check skipped, previous cycle still running")
		rep, _ = m.Latest()
		return rep, false
	}
	defer m.inFlight.Store(false)

	rep = m.check(ctx)
	if !rep.AllHealthy {
		m.log.Warn("services unhealthy",
			zap.Bool("product_service", rep.ProductService.Healthy),
			zap.String("product_error", rep.ProductService.Error),
			zap.Bool("user_service", rep.UserService.Healthy),
			zap.String("user_error", rep.UserService.Error),
		)
	}

	m.publish(rep)
	return rep, true
}

func (m *Monitor) Latest() (client.Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.latest == nil {
		return client.Report{}, false
	}
	return *m.latest, true
}

// Skipped counts cycles dropped because one was already running.
func (m *Monitor) Skipped() uint64 { return m.skipped.Load() }

// Subscribe returns a channel that always holds the newest report not yet
// read. Call cancel to release it.
func (m *Monitor) Subscribe() (<-chan client.Report, func()) {
	ch := make(chan client.Report, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
	return ch, cancel
}

func (m *Monitor) publish(rep client.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latest = &rep
	for _, ch := range m.subs {
		select {
		case ch <- rep:
			continue
		default:
		}
		// replace the stale report a slow reader has not picked up
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- rep:
		default:
		}
	}
}
