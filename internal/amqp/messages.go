package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseEventMessage announces an expense mutation. Consumers fetch
// any detail they need from storage by id.
type ExpenseEventMessage struct {
	Kind      string    `json:"kind"` // "created" or "deleted"
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
	Name      string    `json:"name"`
	Cents     int64     `json:"amount_cents"`
	Timestamp time.Time `json:"timestamp"`
}

// BudgetAlertMessage carries one budget-exceeded notification. At
// most one is published per within->exceeded transition.
type BudgetAlertMessage struct {
	OwnerID   string    `json:"owner_id"`
	Mobile    string    `json:"mobile"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Total     int64     `json:"total_cents"`
	Budget    int64     `json:"budget_cents"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
