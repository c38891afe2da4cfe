package alerts

import (
	"context"
	"log/slog"
	"sync"

	"kharcha/internal/core"
)

// Notifier delivers a budget-exceeded notification to the outside
// world. The AMQP client satisfies this in production.
type Notifier interface {
	PublishBudgetAlert(ctx context.Context, owner core.Owner, p core.Period, total, budget core.Money) error
}

// Monitor holds one latch per owner, keyed to the period that owner
// is currently viewing. Latch state is in-memory only; it is not
// persisted and resets with the process, which matches the
// per-session lifetime of the alert.
type Monitor struct {
	mu       sync.Mutex
	latches  map[string]*Latch
	notifier Notifier
}

func NewMonitor(notifier Notifier) *Monitor {
	return &Monitor{
		latches:  make(map[string]*Latch),
		notifier: notifier,
	}
}

// Observe runs the owner's latch against the latest summary and, on a
// fresh within->exceeded transition, pushes one notification through
// the notifier. Returns the exceeded state.
func (m *Monitor) Observe(ctx context.Context, owner core.Owner, p core.Period, total, budget core.Money) bool {
	m.mu.Lock()
	l, ok := m.latches[owner.ID]
	if !ok {
		l = &Latch{}
		m.latches[owner.ID] = l
	}
	fire := l.Observe(p, total, budget)
	exceeded := l.Exceeded()
	m.mu.Unlock()

	if fire && m.notifier != nil {
		if err := m.notifier.PublishBudgetAlert(ctx, owner, p, total, budget); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"owner_id", owner.ID,
				"year", p.Year,
				"month", p.Month,
				"error", err)
		}
	}
	return exceeded
}
