// Package services implements the query/mutation layer between the
// HTTP boundary and storage: scoping, validation, aggregation and
// event publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
)

// Event kinds published after expense mutations.
const (
	EventExpenseCreated = "created"
	EventExpenseDeleted = "deleted"
)

// LedgerService exposes owner-scoped budget and expense operations.
// Every call receives the authenticated owner from the boundary and
// trusts it without re-verifying credentials.
type LedgerService struct {
	store  Store
	events EventPublisher
}

func NewLedgerService(store Store, events EventPublisher) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
	}
}

// GetBudget returns the budget amount for the period, zero when none
// has been set. Absence is never an error.
func (s *LedgerService) GetBudget(ctx context.Context, owner core.Owner, year, month int) (core.Money, error) {
	if err := (core.Period{Year: year, Month: month}).Validate(); err != nil {
		return core.Money{}, err
	}
	b, found, err := s.store.FindBudget(ctx, owner, year, month)
	if err != nil {
		return core.Money{}, fmt.Errorf("get budget: %w", err)
	}
	if !found {
		return core.Money{}, nil
	}
	return b.Amount, nil
}

// SetBudget creates or overwrites the budget for the period. The
// upsert is idempotent: repeated calls with the same inputs leave the
// same single record.
func (s *LedgerService) SetBudget(ctx context.Context, owner core.Owner, year, month int, amount core.Money) (core.Budget, error) {
	b := core.Budget{OwnerID: owner.ID, Year: year, Month: month, Amount: amount}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	saved, err := s.store.UpsertBudget(ctx, owner, year, month, amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}
	return saved, nil
}

// DeleteBudget removes the budget for the period, storage.ErrNotFound
// when none existed.
func (s *LedgerService) DeleteBudget(ctx context.Context, owner core.Owner, year, month int) error {
	if err := (core.Period{Year: year, Month: month}).Validate(); err != nil {
		return err
	}
	if err := s.store.DeleteBudget(ctx, owner, year, month); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// ListExpenses returns the period's expenses sorted by day ascending,
// ties keeping insertion order.
func (s *LedgerService) ListExpenses(ctx context.Context, owner core.Owner, year, month int) ([]core.Expense, error) {
	if err := (core.Period{Year: year, Month: month}).Validate(); err != nil {
		return nil, err
	}
	items, err := s.store.ExpensesByPeriod(ctx, owner, year, month)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	core.SortByDay(items)
	return items, nil
}

// ListAnnualExpenses returns the year's expenses grouped by month
// index. Months with no expenses have no key.
func (s *LedgerService) ListAnnualExpenses(ctx context.Context, owner core.Owner, year int) (map[int][]core.Expense, error) {
	if year < core.MinYear || year > core.MaxYear {
		return nil, &core.ValidationError{Messages: []string{
			fmt.Sprintf("year must be between %d and %d", core.MinYear, core.MaxYear),
		}}
	}
	items, err := s.store.ExpensesByYear(ctx, owner, year)
	if err != nil {
		return nil, fmt.Errorf("list annual expenses: %w", err)
	}
	return core.GroupByMonth(items), nil
}

// AddExpense validates and stores a new expense, then publishes a
// created event. The expense is immutable once stored.
func (s *LedgerService) AddExpense(ctx context.Context, owner core.Owner, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	saved, err := s.store.InsertExpense(ctx, owner, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	s.publish(ctx, EventExpenseCreated, saved)
	return saved, nil
}

// RemoveExpense deletes an expense scoped to its owner and publishes
// a deleted event.
func (s *LedgerService) RemoveExpense(ctx context.Context, owner core.Owner, id string) error {
	if err := s.store.DeleteExpense(ctx, owner, id); err != nil {
		return fmt.Errorf("remove expense: %w", err)
	}
	s.publish(ctx, EventExpenseDeleted, core.Expense{ID: id, OwnerID: owner.ID})
	return nil
}

// MonthSummary derives the period total, the budget (zero default)
// and the exceeded flag in one call.
func (s *LedgerService) MonthSummary(ctx context.Context, owner core.Owner, year, month int) (core.Money, core.Money, bool, error) {
	if err := (core.Period{Year: year, Month: month}).Validate(); err != nil {
		return core.Money{}, core.Money{}, false, err
	}
	items, err := s.store.ExpensesByPeriod(ctx, owner, year, month)
	if err != nil {
		return core.Money{}, core.Money{}, false, fmt.Errorf("month summary expenses: %w", err)
	}
	budget, err := s.GetBudget(ctx, owner, year, month)
	if err != nil {
		return core.Money{}, core.Money{}, false, fmt.Errorf("month summary budget: %w", err)
	}
	total := core.MonthlyTotal(items)
	return total, budget, core.IsExceeded(total, budget), nil
}

func (s *LedgerService) publish(ctx context.Context, kind string, e core.Expense) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, kind, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"kind", kind, "id", e.ID, "error", err)
	}
}

func (s *LedgerService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
