package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/softalya/foodcourt/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Subscriber delivers events through queue groups so that replicas share the
// stream instead of each receiving every message.
type Subscriber interface {
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	AccountRegistered = "account.registered"

	OrderCreated  = "order.created"
	OrderCanceled = "order.canceled"
	OrderResolved = "order.resolved"
)

// Event payloads
type AccountRegisteredEvent struct {
	AccountID   int64     `json:"account_id"`
	Email       string    `json:"email"`
	AccountType string    `json:"account_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderCreatedEvent struct {
	OrderID   int64     `json:"order_id"`
	AccountID int64     `json:"account_id"`
	ProductID int64     `json:"product_id"`
	AddressID int64     `json:"address_id"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderCanceledEvent struct {
	OrderID    int64     `json:"order_id"`
	AccountID  int64     `json:"account_id"`
	CanceledAt time.Time `json:"canceled_at"`
}

type OrderResolvedEvent struct {
	OrderID    int64     `json:"order_id"`
	Accepted   bool      `json:"accepted"`
	ResolvedAt time.Time `json:"resolved_at"`
}
