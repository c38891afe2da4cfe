package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Structural ranges shared by budgets and expenses. Months are 0-11,
// matching the month index the clients send. Days are bounded 1-31
// but deliberately not checked against the calendar length of the
// month; day=31 in a 30-day month is accepted.
const (
	MinYear = 2000
	MaxYear = 2100

	MinMonth = 0
	MaxMonth = 11

	MinDay = 1
	MaxDay = 31

	MaxNameLen = 100
)

var (
	ErrInvalidAmount = errors.New("invalid amount")

	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// ValidationError collects the human-readable problems found in one
// record so the boundary can return them all at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

// Owner is the authenticated principal scoping every budget and
// expense record. ID is the opaque internal identity; Mobile is the
// external-facing one and lives only on the user record, never
// denormalized onto budgets or expenses.
type Owner struct {
	ID     string
	Mobile string
}

// Period identifies one calendar month.
type Period struct {
	Year  int
	Month int // 0-11
}

func (p Period) Validate() error {
	verr := &ValidationError{}
	if p.Year < MinYear || p.Year > MaxYear {
		verr.add("year must be between %d and %d", MinYear, MaxYear)
	}
	if p.Month < MinMonth || p.Month > MaxMonth {
		verr.add("month must be between %d and %d", MinMonth, MaxMonth)
	}
	return verr.orNil()
}

// Budget is the spending ceiling an owner sets for one period. At
// most one budget exists per (owner, year, month); repeated sets
// overwrite the amount in place.
type Budget struct {
	OwnerID   string
	Year      int
	Month     int // 0-11
	Amount    Money
	UpdatedAt time.Time
}

func (b Budget) Period() Period { return Period{Year: b.Year, Month: b.Month} }

func (b Budget) Validate() error {
	verr := &ValidationError{}
	if err := b.Period().Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			verr.Messages = append(verr.Messages, ve.Messages...)
		}
	}
	if b.Amount.Cents < 0 {
		verr.add("budget amount cannot be negative")
	}
	return verr.orNil()
}

// Expense is one spending event. Records are immutable once created;
// the only mutations are insert and owner-scoped delete.
type Expense struct {
	ID        string
	OwnerID   string
	Year      int
	Month     int // 0-11
	Day       int // 1-31, not calendar-checked
	Name      string
	Amount    Money
	CreatedAt time.Time
}

func (e Expense) Period() Period { return Period{Year: e.Year, Month: e.Month} }

func (e Expense) Validate() error {
	verr := &ValidationError{}
	if err := e.Period().Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			verr.Messages = append(verr.Messages, ve.Messages...)
		}
	}
	if e.Day < MinDay || e.Day > MaxDay {
		verr.add("day must be between %d and %d", MinDay, MaxDay)
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		verr.add("expense name is required")
	} else if len(name) > MaxNameLen {
		verr.add("expense name cannot exceed %d characters", MaxNameLen)
	}
	if e.Amount.Cents <= 0 {
		verr.add("amount must be greater than 0")
	}
	return verr.orNil()
}

// User is a registered account. Mobile is unique and doubles as the
// login identifier.
type User struct {
	ID           string
	Name         string
	Mobile       string
	PasswordHash string
	CreatedAt    time.Time
}

// ValidMobile reports whether s looks like a ten-digit mobile number
// starting with 6-9.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}
