package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/quantfold/etf-strategy/internal/models"
)

// Producer hands order proposals to the order-submission service.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer for order events.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishOrders publishes one ORDER_PROPOSED event per order, keyed by
// symbol so a symbol's orders stay in submission order.
func (p *Producer) PublishOrders(ctx context.Context, orders []models.OrderSpec) error {
	for i := range orders {
		order := orders[i]
		event := models.OrderEvent{
			EventType: models.EventOrderProposed,
			Symbol:    order.Symbol,
			Order:     &order,
			Timestamp: time.Now(),
		}
		if err := p.publish(ctx, order.Symbol, event); err != nil {
			return err
		}
	}
	return nil
}

// PublishPegged publishes one PEGGED_ORDER_PROPOSED event per pegged order.
func (p *Producer) PublishPegged(ctx context.Context, specs []models.PeggedOrderSpec) error {
	for i := range specs {
		spec := specs[i]
		event := models.OrderEvent{
			EventType: models.EventPeggedProposed,
			Symbol:    spec.Symbol,
			Pegged:    &spec,
			Timestamp: time.Now(),
		}
		if err := p.publish(ctx, spec.Symbol, event); err != nil {
			return err
		}
	}
	return nil
}

// publish sends an event to Kafka
func (p *Producer) publish(ctx context.Context, key string, event models.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
