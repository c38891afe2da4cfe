// Package alerts implements budget-exceeded detection with one-shot
// notification semantics: the exceeded boolean is pure state, while
// the notification fires at most once per transition into the
// exceeded state and re-arms only after spending drops back within
// budget.
package alerts

import "kharcha/internal/core"

// Latch tracks one viewed period for one client. Two states
// (within/exceeded) crossed with a trigger latch (armed/fired):
// within->exceeded while armed fires and latches, any return to
// within re-arms. Changing the observed period resets everything.
type Latch struct {
	period   core.Period
	exceeded bool
	fired    bool
}

// Observe feeds the latest total/budget pair for a period and reports
// whether a notification should fire now.
func (l *Latch) Observe(p core.Period, total, budget core.Money) bool {
	if p != l.period {
		// The viewed period changed; start fresh and armed.
		l.period = p
		l.exceeded = false
		l.fired = false
	}

	exceeded := core.IsExceeded(total, budget)
	defer func() { l.exceeded = exceeded }()

	if !exceeded {
		l.fired = false
		return false
	}
	if l.fired {
		return false
	}
	l.fired = true
	return true
}

// Exceeded reports the state seen at the last Observe call.
func (l *Latch) Exceeded() bool { return l.exceeded }
