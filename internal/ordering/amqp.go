package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"pharmapulse/backend/internal/domain"
)

const placedEventType = "order.suggestion.placed"

type placedEvent struct {
	Type       string                 `json:"type"`
	PlacedAt   time.Time              `json:"placedAt"`
	Suggestion domain.OrderSuggestion `json:"suggestion"`
}

// AMQPDispatcher publishes placed suggestions as JSON to a durable queue
// for whatever procurement system consumes it.
type AMQPDispatcher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	now   func() time.Time
}

func NewAMQPDispatcher(url string, queue string) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPDispatcher{conn: conn, ch: ch, queue: queue, now: time.Now}, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, s domain.OrderSuggestion) error {
	body, err := encodePlaced(s, d.now().UTC())
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ch.PublishWithContext(ctx, "", d.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         placedEventType,
		MessageId:    s.MedicineID,
		Timestamp:    d.now().UTC(),
		Body:         body,
	})
}

func (d *AMQPDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ch.Close(); err != nil {
		_ = d.conn.Close()
		return err
	}
	return d.conn.Close()
}

func encodePlaced(s domain.OrderSuggestion, at time.Time) ([]byte, error) {
	return json.Marshal(placedEvent{Type: placedEventType, PlacedAt: at, Suggestion: s})
}
