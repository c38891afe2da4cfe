package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{63, 30 * time.Second}, // shift overflow also capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"dropped delivery channel", errChannelClosed, true},
		{"wrapped dropped channel", fmt.Errorf("consume: %w", errChannelClosed), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRunWithReconnectResumesAfterConnectionLoss(t *testing.T) {
	consumeCalls := 0
	reconnectCalls := 0

	// The delivery channel drops twice; the third consume runs until
	// cancellation.
	err := runWithReconnect(context.Background(),
		func(context.Context) error {
			consumeCalls++
			if consumeCalls <= 2 {
				return errChannelClosed
			}
			return context.Canceled
		},
		func(context.Context) error {
			reconnectCalls++
			return nil
		},
	)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if consumeCalls != 3 {
		t.Fatalf("expected 3 consume attempts, got %d", consumeCalls)
	}
	if reconnectCalls != 2 {
		t.Fatalf("expected 2 reconnects, got %d", reconnectCalls)
	}
}

func TestRunWithReconnectStopsOnNonConnectionError(t *testing.T) {
	handlerErr := errors.New("handler exploded")
	reconnectCalls := 0

	err := runWithReconnect(context.Background(),
		func(context.Context) error { return handlerErr },
		func(context.Context) error {
			reconnectCalls++
			return nil
		},
	)

	if !errors.Is(err, handlerErr) {
		t.Fatalf("expected the consume error back, got %v", err)
	}
	if reconnectCalls != 0 {
		t.Fatalf("non-connection errors must not trigger a reconnect, got %d", reconnectCalls)
	}
}

func TestRunWithReconnectPropagatesReconnectFailure(t *testing.T) {
	dialErr := errors.New("dial: connection refused")

	err := runWithReconnect(context.Background(),
		func(context.Context) error { return errChannelClosed },
		func(context.Context) error { return dialErr },
	)

	if !errors.Is(err, dialErr) {
		t.Fatalf("expected the reconnect error back, got %v", err)
	}
}

func TestBudgetAlertMessageRoundTrip(t *testing.T) {
	msg := &BudgetAlertMessage{
		OwnerID:   "owner-1",
		Mobile:    "9876543210",
		Year:      2024,
		Month:     3,
		Total:     550000,
		Budget:    500000,
		Timestamp: time.Now().UTC(),
	}
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := BudgetAlertMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.OwnerID != msg.OwnerID || got.Total != msg.Total || got.Budget != msg.Budget {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}

	if _, err := BudgetAlertMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
