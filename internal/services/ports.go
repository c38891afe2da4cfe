package services

import (
	"context"

	"kharcha/internal/core"
)

// Ports consumed by the service layer. The SQLite repository and the
// in-memory store both satisfy Store.
type (
	Store interface {
		UpsertBudget(ctx context.Context, owner core.Owner, year, month int, amount core.Money) (core.Budget, error)
		FindBudget(ctx context.Context, owner core.Owner, year, month int) (core.Budget, bool, error)
		DeleteBudget(ctx context.Context, owner core.Owner, year, month int) error

		InsertExpense(ctx context.Context, owner core.Owner, e core.Expense) (core.Expense, error)
		ExpensesByPeriod(ctx context.Context, owner core.Owner, year, month int) ([]core.Expense, error)
		ExpensesByYear(ctx context.Context, owner core.Owner, year int) ([]core.Expense, error)
		DeleteExpense(ctx context.Context, owner core.Owner, id string) error

		Close() error
	}

	// EventPublisher emits expense lifecycle events after local
	// writes succeed. Publishing failures never fail the request.
	EventPublisher interface {
		PublishExpenseEvent(ctx context.Context, kind string, e core.Expense) error
	}
)
