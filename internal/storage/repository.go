// Package storage persists users, budgets and expenses in SQLite.
// The budget uniqueness constraint on (owner, year, month) is the
// system's one hard consistency guarantee; the upsert path is a
// single atomic INSERT ... ON CONFLICT so concurrent set-budget
// requests can never materialize two rows for the same period.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", ErrUnavailable)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertBudget inserts a budget for (owner, year, month) or, when one
// exists, overwrites its amount in place. Atomic at the SQL level.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, owner core.Owner, year, month int, amount core.Money) (core.Budget, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (owner_id, year, month, amount_cents, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, year, month)
		DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at`,
		owner.ID, year, month, amount.Cents, now)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", classify(err))
	}

	slog.InfoContext(ctx, "Budget saved",
		"owner_id", owner.ID,
		"year", year,
		"month", month,
		"amount_cents", amount.Cents)

	return core.Budget{
		OwnerID:   owner.ID,
		Year:      year,
		Month:     month,
		Amount:    amount,
		UpdatedAt: now,
	}, nil
}

// FindBudget returns the budget for the period, if any. Absence is
// reported through the bool, not as an error.
func (r *SQLiteRepository) FindBudget(ctx context.Context, owner core.Owner, year, month int) (core.Budget, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT amount_cents, updated_at FROM budgets
		WHERE owner_id = ? AND year = ? AND month = ?`,
		owner.ID, year, month)

	b := core.Budget{OwnerID: owner.ID, Year: year, Month: month}
	var cents int64
	if err := row.Scan(&cents, &b.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return core.Budget{}, false, nil
		}
		return core.Budget{}, false, fmt.Errorf("find budget: %w", classify(err))
	}
	b.Amount = core.Money{Cents: cents}
	return b, true, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, owner core.Owner, year, month int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM budgets WHERE owner_id = ? AND year = ? AND month = ?`,
		owner.ID, year, month)
	if err != nil {
		return fmt.Errorf("delete budget: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertExpense stores a new expense and returns it with its
// generated id and creation timestamp.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, owner core.Owner, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.OwnerID = owner.ID
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, owner_id, year, month, day, name, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Year, e.Month, e.Day, e.Name, e.Amount.Cents, e.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", classify(err))
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"owner_id", e.OwnerID,
		"name", e.Name,
		"amount_cents", e.Amount.Cents,
		"year", e.Year,
		"month", e.Month,
		"day", e.Day)

	return e, nil
}

// ExpensesByPeriod returns all of the owner's expenses for one month
// in insertion order. Callers sort by day; ties keep this order.
func (r *SQLiteRepository) ExpensesByPeriod(ctx context.Context, owner core.Owner, year, month int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, year, month, day, name, amount_cents, created_at FROM expenses
		WHERE owner_id = ? AND year = ? AND month = ?
		ORDER BY rowid`,
		owner.ID, year, month)
	if err != nil {
		return nil, fmt.Errorf("query expenses by period: %w", classify(err))
	}
	defer rows.Close()
	return scanExpenses(rows, owner.ID)
}

// ExpensesByYear returns all of the owner's expenses across every
// month of the year, in insertion order.
func (r *SQLiteRepository) ExpensesByYear(ctx context.Context, owner core.Owner, year int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, year, month, day, name, amount_cents, created_at FROM expenses
		WHERE owner_id = ? AND year = ?
		ORDER BY rowid`,
		owner.ID, year)
	if err != nil {
		return nil, fmt.Errorf("query expenses by year: %w", classify(err))
	}
	defer rows.Close()
	return scanExpenses(rows, owner.ID)
}

// DeleteExpense removes the expense only when it belongs to owner.
// A foreign id reports ErrNotFound, same as a missing one, so callers
// cannot probe for other owners' records.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, owner core.Owner, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM expenses WHERE id = ? AND owner_id = ?`,
		id, owner.ID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateUser registers a new account. A duplicate mobile reports
// ErrConflict.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, mobile, passwordHash string) (core.User, error) {
	u := core.User{
		ID:           uuid.NewString(),
		Name:         name,
		Mobile:       mobile,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, mobile, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Mobile, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", classify(err))
	}

	slog.InfoContext(ctx, "User registered", "id", u.ID, "mobile", u.Mobile)
	return u, nil
}

func (r *SQLiteRepository) UserByMobile(ctx context.Context, mobile string) (core.User, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, mobile, password_hash, created_at FROM users
		WHERE mobile = ?`, mobile)

	var u core.User
	if err := row.Scan(&u.ID, &u.Name, &u.Mobile, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return core.User{}, false, nil
		}
		return core.User{}, false, fmt.Errorf("user by mobile: %w", classify(err))
	}
	return u, true, nil
}

func scanExpenses(rows *sql.Rows, ownerID string) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		e := core.Expense{OwnerID: ownerID}
		var cents int64
		if err := rows.Scan(&e.ID, &e.Year, &e.Month, &e.Day, &e.Name, &cents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", classify(err))
	}
	return out, nil
}
