package storage

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound signals a lookup or delete against a record that
	// does not exist or does not belong to the caller. Ownership
	// mismatch and true absence are deliberately indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrConflict signals a uniqueness violation, e.g. two budgets
	// for the same (owner, year, month) or a duplicate mobile number.
	ErrConflict = errors.New("record already exists")

	// ErrUnavailable signals that the persistence layer cannot be
	// reached. Retryable from the caller's point of view.
	ErrUnavailable = errors.New("storage unavailable")
)

// classify maps low-level driver errors onto the storage taxonomy.
// modernc.org/sqlite surfaces constraint failures as plain errors, so
// matching on the message is the only handle we have.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return ErrConflict
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "unable to open database"),
		strings.Contains(msg, "disk I/O error"):
		return ErrUnavailable
	}
	return err
}
