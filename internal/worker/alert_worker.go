// Package worker consumes budget alert messages and delivers them to
// the account holder.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Sender delivers one rendered notification to a mobile number. The
// default implementation only logs; an SMS or push gateway slots in
// here.
type Sender interface {
	Send(ctx context.Context, mobile, text string) error
}

// LogSender writes notifications to the structured log instead of an
// external gateway. Useful for local runs and as a safe default.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, mobile, text string) error {
	slog.InfoContext(ctx, "Notification delivered",
		"mobile", mobile,
		"text", text)
	return nil
}

// AlertWorker turns budget alert messages into notifications.
type AlertWorker struct {
	sender     Sender
	maxRetries int
}

func NewAlertWorker(sender Sender, maxRetries int) *AlertWorker {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &AlertWorker{
		sender:     sender,
		maxRetries: maxRetries,
	}
}

// HandleAlertMessage processes a single budget alert from AMQP.
// Delivery is retried with a short backoff; a persistent failure is
// returned so the consumer can nack and requeue.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing budget alert",
		"owner_id", msg.OwnerID,
		"year", msg.Year,
		"month", msg.Month)

	if msg.Mobile == "" {
		return fmt.Errorf("alert for owner %s has no mobile", msg.OwnerID)
	}
	if msg.Month < core.MinMonth || msg.Month > core.MaxMonth {
		return fmt.Errorf("alert month %d out of range", msg.Month)
	}

	text := RenderAlert(msg)

	var lastErr error
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		if lastErr = w.sender.Send(ctx, msg.Mobile, text); lastErr == nil {
			slog.InfoContext(ctx, "Budget alert delivered",
				"owner_id", msg.OwnerID,
				"mobile", msg.Mobile,
				"attempt", attempt+1)
			return nil
		}

		slog.WarnContext(ctx, "Notification delivery failed",
			"owner_id", msg.OwnerID,
			"attempt", attempt+1,
			"error", lastErr)
	}

	return fmt.Errorf("deliver alert after %d attempts: %w", w.maxRetries, lastErr)
}

// RenderAlert formats the notification text for one alert.
func RenderAlert(msg *amqp.BudgetAlertMessage) string {
	total := core.Money{Cents: msg.Total}
	budget := core.Money{Cents: msg.Budget}
	over := core.Money{Cents: msg.Total - msg.Budget}

	return fmt.Sprintf("Budget alert: you spent %s in %s %d, which is %s over your %s budget.",
		total, monthNames[msg.Month], msg.Year, over, budget)
}
