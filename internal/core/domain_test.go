package core

import (
	"errors"
	"strings"
	"testing"
)

func TestPeriodValidate(t *testing.T) {
	cases := []struct {
		p  Period
		ok bool
	}{
		{Period{2024, 0}, true},
		{Period{2024, 11}, true},
		{Period{2000, 5}, true},
		{Period{2100, 5}, true},
		{Period{1999, 5}, false},
		{Period{2101, 5}, false},
		{Period{2024, -1}, false},
		{Period{2024, 12}, false},
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Year: 2024, Month: 3, Amount: Money{Cents: 500000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero amount is a valid budget; it just never triggers alerts.
	zero := Budget{Year: 2024, Month: 3}
	if err := zero.Validate(); err != nil {
		t.Fatalf("expected zero budget ok, got %v", err)
	}
	neg := Budget{Year: 2024, Month: 3, Amount: Money{Cents: -1}}
	if err := neg.Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Year: 2024, Month: 3, Day: 15, Name: "Rent", Amount: Money{Cents: 350000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Day is bounded structurally, not against the calendar: day 31
	// in April must pass.
	apr31 := Expense{Year: 2024, Month: 3, Day: 31, Name: "Odd day", Amount: Money{Cents: 100}}
	if err := apr31.Validate(); err != nil {
		t.Fatalf("expected day 31 accepted, got %v", err)
	}

	onecent := Expense{Year: 2024, Month: 3, Day: 1, Name: "Tiny", Amount: Money{Cents: 1}}
	if err := onecent.Validate(); err != nil {
		t.Fatalf("expected 0.01 accepted, got %v", err)
	}

	bads := []Expense{
		{Year: 2024, Month: 3, Day: 0, Name: "a", Amount: Money{Cents: 1}},
		{Year: 2024, Month: 3, Day: 32, Name: "a", Amount: Money{Cents: 1}},
		{Year: 2024, Month: 3, Day: 1, Name: "", Amount: Money{Cents: 1}},
		{Year: 2024, Month: 3, Day: 1, Name: "   ", Amount: Money{Cents: 1}},
		{Year: 2024, Month: 3, Day: 1, Name: strings.Repeat("x", 101), Amount: Money{Cents: 1}},
		{Year: 2024, Month: 3, Day: 1, Name: "a", Amount: Money{Cents: 0}},
		{Year: 2024, Month: 3, Day: 1, Name: "a", Amount: Money{Cents: -100}},
		{Year: 1999, Month: 3, Day: 1, Name: "a", Amount: Money{Cents: 1}},
		{Year: 2024, Month: 12, Day: 1, Name: "a", Amount: Money{Cents: 1}},
	}
	for i, e := range bads {
		err := e.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d expected *ValidationError, got %T", i, err)
		}
		if len(verr.Messages) == 0 {
			t.Fatalf("case %d expected at least one message", i)
		}
	}
}

func TestValidationErrorCollectsAllProblems(t *testing.T) {
	e := Expense{Year: 1990, Month: 13, Day: 0, Name: "", Amount: Money{Cents: 0}}
	var verr *ValidationError
	if !errors.As(e.Validate(), &verr) {
		t.Fatal("expected *ValidationError")
	}
	if len(verr.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d: %v", len(verr.Messages), verr.Messages)
	}
}

func TestValidMobile(t *testing.T) {
	cases := []struct {
		mobile string
		ok     bool
	}{
		{"9876543210", true},
		{"6000000000", true},
		{"5876543210", false},
		{"987654321", false},
		{"98765432100", false},
		{"98765abc10", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidMobile(tc.mobile); got != tc.ok {
			t.Fatalf("ValidMobile(%q) = %v, want %v", tc.mobile, got, tc.ok)
		}
	}
}
