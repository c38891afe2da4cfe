package alerts

import (
	"context"
	"testing"

	"kharcha/internal/core"
)

func money(cents int64) core.Money { return core.Money{Cents: cents} }

func TestLatchFiresOncePerTransition(t *testing.T) {
	var l Latch
	p := core.Period{Year: 2024, Month: 3}

	if l.Observe(p, money(400), money(500)) {
		t.Fatal("within budget must not fire")
	}
	if !l.Observe(p, money(600), money(500)) {
		t.Fatal("first within->exceeded transition must fire")
	}
	if l.Observe(p, money(700), money(500)) {
		t.Fatal("still exceeded, latch must stay fired")
	}
	if l.Observe(p, money(700), money(500)) {
		t.Fatal("repeated observation must not fire")
	}
	if !l.Exceeded() {
		t.Fatal("state must read exceeded")
	}
}

func TestLatchRearmsAfterReturningWithin(t *testing.T) {
	var l Latch
	p := core.Period{Year: 2024, Month: 3}

	if !l.Observe(p, money(600), money(500)) {
		t.Fatal("expected fire")
	}
	// Budget raised: back within, re-arms.
	if l.Observe(p, money(600), money(1000)) {
		t.Fatal("returning within must not fire")
	}
	if l.Exceeded() {
		t.Fatal("state must read within")
	}
	if !l.Observe(p, money(1100), money(1000)) {
		t.Fatal("second transition after re-arm must fire again")
	}
}

func TestLatchZeroBudgetNeverFires(t *testing.T) {
	var l Latch
	p := core.Period{Year: 2024, Month: 4}

	for _, cents := range []int64{0, 100, 1 << 40} {
		if l.Observe(p, money(cents), money(0)) {
			t.Fatalf("zero budget must never fire (total=%d)", cents)
		}
	}
}

func TestLatchResetsOnPeriodChange(t *testing.T) {
	var l Latch
	march := core.Period{Year: 2024, Month: 2}
	april := core.Period{Year: 2024, Month: 3}

	if !l.Observe(march, money(600), money(500)) {
		t.Fatal("expected fire in March")
	}
	// Switching the viewed period re-arms even though March is still
	// exceeded.
	if !l.Observe(april, money(600), money(500)) {
		t.Fatal("new period starts armed, expected fire")
	}
	if !l.Observe(march, money(600), money(500)) {
		t.Fatal("returning to March resets the latch, expected fire")
	}
}

type captureNotifier struct {
	alerts int
	last   core.Period
}

func (n *captureNotifier) PublishBudgetAlert(_ context.Context, _ core.Owner, p core.Period, _, _ core.Money) error {
	n.alerts++
	n.last = p
	return nil
}

func TestMonitorNotifiesPerOwner(t *testing.T) {
	notifier := &captureNotifier{}
	m := NewMonitor(notifier)
	ctx := context.Background()
	p := core.Period{Year: 2024, Month: 3}
	alice := core.Owner{ID: "a"}
	bob := core.Owner{ID: "b"}

	if !m.Observe(ctx, alice, p, money(600), money(500)) {
		t.Fatal("expected exceeded for alice")
	}
	m.Observe(ctx, alice, p, money(700), money(500))
	if notifier.alerts != 1 {
		t.Fatalf("alice should trigger exactly one alert, got %d", notifier.alerts)
	}

	// Bob's latch is independent of Alice's.
	if !m.Observe(ctx, bob, p, money(900), money(500)) {
		t.Fatal("expected exceeded for bob")
	}
	if notifier.alerts != 2 {
		t.Fatalf("expected a second alert for bob, got %d", notifier.alerts)
	}
	if notifier.last != p {
		t.Fatalf("expected alert for %+v, got %+v", p, notifier.last)
	}
}

func TestMonitorNilNotifier(t *testing.T) {
	m := NewMonitor(nil)
	p := core.Period{Year: 2024, Month: 3}
	if !m.Observe(context.Background(), core.Owner{ID: "a"}, p, money(600), money(500)) {
		t.Fatal("exceeded state must still be reported without a notifier")
	}
}
