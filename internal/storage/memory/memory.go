// Package memory is an in-memory implementation of the storage
// contract. It backs DATA_BACKEND=memory and the service and handler
// tests; semantics mirror the SQLite repository, including the
// uniqueness and ownership rules.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

type periodKey struct {
	ownerID string
	year    int
	month   int
}

type Store struct {
	mu       sync.Mutex
	budgets  map[periodKey]core.Budget
	expenses []core.Expense
	users    map[string]core.User // keyed by mobile
}

func New() *Store {
	return &Store{
		budgets: make(map[periodKey]core.Budget),
		users:   make(map[string]core.User),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) UpsertBudget(_ context.Context, owner core.Owner, year, month int, amount core.Money) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := core.Budget{
		OwnerID:   owner.ID,
		Year:      year,
		Month:     month,
		Amount:    amount,
		UpdatedAt: time.Now().UTC(),
	}
	s.budgets[periodKey{owner.ID, year, month}] = b
	return b, nil
}

func (s *Store) FindBudget(_ context.Context, owner core.Owner, year, month int) (core.Budget, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[periodKey{owner.ID, year, month}]
	return b, ok, nil
}

func (s *Store) DeleteBudget(_ context.Context, owner core.Owner, year, month int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey{owner.ID, year, month}
	if _, ok := s.budgets[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.budgets, key)
	return nil
}

func (s *Store) InsertExpense(_ context.Context, owner core.Owner, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	e.OwnerID = owner.ID
	e.CreatedAt = time.Now().UTC()
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *Store) ExpensesByPeriod(_ context.Context, owner core.Owner, year, month int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if e.OwnerID == owner.ID && e.Year == year && e.Month == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ExpensesByYear(_ context.Context, owner core.Owner, year int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if e.OwnerID == owner.ID && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, owner core.Owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == id && e.OwnerID == owner.ID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, name, mobile, passwordHash string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[mobile]; ok {
		return core.User{}, storage.ErrConflict
	}
	u := core.User{
		ID:           uuid.NewString(),
		Name:         name,
		Mobile:       mobile,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[mobile] = u
	return u, nil
}

func (s *Store) UserByMobile(_ context.Context, mobile string) (core.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[mobile]
	return u, ok, nil
}
