package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TickManager drives every registered Ticker at a fixed frame rate.
// Monster controllers and player sessions share one loop, so all frame-based
// counters advance in lockstep.
type TickManager struct {
	interval time.Duration

	tickers     sync.Map // map[uint32]Ticker — objectID → ticker
	tickerCount atomic.Int32
	frame       atomic.Uint64
	frameHook   func(frame uint64)
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewTickManager creates a tick manager running tickRate frames per second.
func NewTickManager(tickRate int) *TickManager {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &TickManager{
		interval: time.Second / time.Duration(tickRate),
		stopCh:   make(chan struct{}),
	}
}

// SetFrameHook sets fn to run after every ticker has advanced a frame.
// Must be called before Start.
func (m *TickManager) SetFrameHook(fn func(frame uint64)) {
	m.frameHook = fn
}

// Register registers a ticker. Controllers are started.
func (m *TickManager) Register(objectID uint32, t Ticker) {
	if _, loaded := m.tickers.Swap(objectID, t); !loaded {
		m.tickerCount.Add(1)
	}
	if c, ok := t.(Controller); ok {
		c.Start()
	}

	if IsDebugEnabled() {
		slog.Debug("ticker registered", "objectID", objectID)
	}
}

// Unregister removes a ticker. Controllers are stopped.
func (m *TickManager) Unregister(objectID uint32) {
	value, ok := m.tickers.LoadAndDelete(objectID)
	if !ok {
		return
	}
	m.tickerCount.Add(-1)

	if c, ok := value.(Controller); ok {
		c.Stop()
	}

	if IsDebugEnabled() {
		slog.Debug("ticker unregistered", "objectID", objectID)
	}
}

// Start runs the frame loop (blocks until context is canceled or Stop is called)
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("tick manager stopped")
			return nil

		case <-ticker.C:
			m.TickOnce()
		}
	}
}

// Stop stops the frame loop.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickOnce advances one frame synchronously. Start calls it on every tick;
// tests call it directly.
func (m *TickManager) TickOnce() uint64 {
	frame := m.frame.Add(1)
	m.tickers.Range(func(_, value any) bool {
		value.(Ticker).Tick(frame)
		return true
	})
	if m.frameHook != nil {
		m.frameHook(frame)
	}
	return frame
}

// Frame returns the last completed frame number.
func (m *TickManager) Frame() uint64 {
	return m.frame.Load()
}

// Count returns number of registered tickers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.tickerCount.Load())
}

// GetController returns the monster controller registered under objectID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	value, ok := m.tickers.Load(objectID)
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	c, ok := value.(Controller)
	if !ok {
		return nil, fmt.Errorf("objectID %d is not a monster controller", objectID)
	}
	return c, nil
}
