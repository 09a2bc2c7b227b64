// Package sched abstracts periodic scheduling behind a small port so the
// engine can run against real tickers in production and a hand-advanced
// virtual clock in tests.
package sched

import (
	"sync"
	"time"
)

// Handle cancels one scheduled cycle. Stop is idempotent; stopping a
// handle that already ran down is a no-op.
type Handle interface {
	Stop()
}

// Scheduler starts repeating work and hands back a cancelable handle.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// Ticker is the wall-clock Scheduler used in production.
type Ticker struct{}

func NewTicker() *Ticker {
	return &Ticker{}
}

func (t *Ticker) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{stopChan: make(chan struct{})}
	h.wg.Add(1)

	go func() {
		defer h.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return h
}

type tickerHandle struct {
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		close(h.stopChan)
		h.wg.Wait()
	})
}
