// Package amqp publishes and consumes the application's RabbitMQ
// messages: expense lifecycle events and budget-exceeded alerts.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"kharcha/internal/core"
)

// errChannelClosed is returned when the broker drops the delivery
// channel under a consumer. It counts as a connection error so the
// reconnect loop picks it up.
var errChannelClosed = errors.New("message channel closed")

type Client struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	exchange   string
	eventQueue string
	alertQueue string
}

func NewClient(url, exchange, eventQueue, alertQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		eventQueue: eventQueue,
		alertQueue: alertQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.eventQueue, c.alertQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key matches the queue name on a direct exchange.
		if err := c.channel.QueueBind(queue, queue, c.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishExpenseEvent implements services.EventPublisher.
func (c *Client) PublishExpenseEvent(ctx context.Context, kind string, e core.Expense) error {
	msg := &ExpenseEventMessage{
		Kind:      kind,
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Year:      e.Year,
		Month:     e.Month,
		Day:       e.Day,
		Name:      e.Name,
		Cents:     e.Amount.Cents,
		Timestamp: time.Now(),
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal expense event: %w", err)
	}

	if err := c.publish(ctx, c.eventQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published expense event",
		"kind", kind,
		"id", e.ID,
		"queue", c.eventQueue)
	return nil
}

// PublishBudgetAlert implements alerts.Notifier.
func (c *Client) PublishBudgetAlert(ctx context.Context, owner core.Owner, p core.Period, total, budget core.Money) error {
	msg := &BudgetAlertMessage{
		OwnerID:   owner.ID,
		Mobile:    owner.Mobile,
		Year:      p.Year,
		Month:     p.Month,
		Total:     total.Cents,
		Budget:    budget.Cents,
		Timestamp: time.Now(),
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal budget alert: %w", err)
	}

	if err := c.publish(ctx, c.alertQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published budget alert",
		"owner_id", owner.ID,
		"year", p.Year,
		"month", p.Month,
		"total_cents", total.Cents,
		"budget_cents", budget.Cents,
		"queue", c.alertQueue)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeBudgetAlerts delivers alert messages to handler until ctx is
// cancelled. Handler failures nack-with-requeue; undecodable payloads
// are dropped.
func (c *Client) ConsumeBudgetAlerts(ctx context.Context, handler func(context.Context, *BudgetAlertMessage) error) error {
	msgs, err := c.channel.Consume(
		c.alertQueue, // queue
		"",           // consumer
		false,        // auto-ack (manual ack below)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming budget alerts", "queue", c.alertQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping alert consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errChannelClosed
			}

			msg, err := BudgetAlertMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal budget alert", "error", err)
				delivery.Nack(false, false) // reject, don't requeue
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle budget alert",
					"error", err,
					"owner_id", msg.OwnerID)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// exponentialBackoff returns the reconnect delay for the given
// attempt, capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether err looks like a broken AMQP
// connection worth a reconnect rather than a message-level failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errChannelClosed) {
		return true
	}
	msg := err.Error()
	for _, probe := range []string{
		"connection refused",
		"connection closed",
		"channel closed",
		"EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, probe) {
			return true
		}
	}
	return false
}

// ConsumeBudgetAlertsWithReconnect consumes alert messages and, when
// the broker connection drops, redials and resumes consuming. Returns
// on context cancellation or a non-connection failure.
func (c *Client) ConsumeBudgetAlertsWithReconnect(ctx context.Context, url string, handler func(context.Context, *BudgetAlertMessage) error) error {
	return runWithReconnect(ctx,
		func(ctx context.Context) error { return c.ConsumeBudgetAlerts(ctx, handler) },
		func(ctx context.Context) error { return c.Reconnect(ctx, url) },
	)
}

func runWithReconnect(ctx context.Context, consume, reconnect func(context.Context) error) error {
	for {
		err := consume(ctx)
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if !isConnectionError(err) {
			return err
		}

		slog.WarnContext(ctx, "AMQP connection lost, reconnecting", "error", err)
		if err := reconnect(ctx); err != nil {
			return err
		}
	}
}

// Reconnect dials a fresh connection with exponential backoff until
// ctx is cancelled, replacing the client's connection and channel.
func (c *Client) Reconnect(ctx context.Context, url string) error {
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}

		conn, err := amqp091.Dial(url)
		if err != nil {
			slog.WarnContext(ctx, "AMQP reconnect failed", "attempt", attempt, "error", err)
			continue
		}
		channel, err := conn.Channel()
		if err != nil {
			conn.Close()
			slog.WarnContext(ctx, "AMQP channel reopen failed", "attempt", attempt, "error", err)
			continue
		}

		c.conn = conn
		c.channel = channel
		if err := c.setup(); err != nil {
			c.Close()
			slog.WarnContext(ctx, "AMQP setup after reconnect failed", "attempt", attempt, "error", err)
			continue
		}

		slog.InfoContext(ctx, "AMQP reconnected", "attempt", attempt)
		return nil
	}
}
