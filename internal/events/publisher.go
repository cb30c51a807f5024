// Package events publishes order notifications to the message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const EventTypeOrderCompleted = "order.completed"

// OrderCompleted is emitted after a checkout has been stored
type OrderCompleted struct {
	EventID       uuid.UUID            `json:"event_id"`
	OrderID       uuid.UUID            `json:"order_id"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	ItemCount     int                  `json:"item_count"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderCompleted builds the event for a stored record
func NewOrderCompleted(record *domain.PaymentRecord, itemCount int) OrderCompleted {
	return OrderCompleted{
		EventID:       uuid.New(),
		OrderID:       record.ID,
		TotalAmount:   record.TotalAmount,
		Status:        record.Status,
		PaymentMethod: record.PaymentMethod,
		ItemCount:     itemCount,
		OccurredAt:    record.CreatedAt,
	}
}

type Publisher interface {
	PublishOrderCompleted(ctx context.Context, event OrderCompleted) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCompleted(ctx context.Context, event OrderCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()), // order id keeps one order on one partition
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderCompleted)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCompleted(context.Context, OrderCompleted) error { return nil }
func (NopPublisher) Close() error                                                { return nil }
