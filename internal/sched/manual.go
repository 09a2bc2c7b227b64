package sched

import (
	"sync"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock. Tests call
// Advance to move time forward; due tasks fire synchronously on the
// calling goroutine, in due order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	owner    *Manual
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTask{
		owner:    m,
		interval: interval,
		next:     m.now + interval,
		fn:       fn,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the virtual clock forward by d, firing every task that
// comes due on the way. A task firing repeatedly within one Advance is
// fired once per elapsed interval.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d

	for {
		var due *manualTask
		for _, t := range m.tasks {
			if t.stopped || t.next > target {
				continue
			}
			if due == nil || t.next < due.next {
				due = t
			}
		}
		if due == nil {
			break
		}

		m.now = due.next
		due.next += due.interval
		fn := due.fn

		// Fire outside the lock so the task may schedule or cancel.
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}

	m.now = target
	m.mu.Unlock()
}

func (t *manualTask) Stop() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	t.stopped = true
}
