package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanoria/pricingservice/internal/domain"
)

// Event types published by the pricing service
const (
	TypeQuoteComputed     = "quote.computed"
	TypePromotionRejected = "promotion.rejected"
)

// Event represents a domain event on the storefront event stream
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Version   int             `json:"version"`
}

// QuoteComputedData is the payload of a quote.computed event
type QuoteComputedData struct {
	Quote          domain.PriceQuote `json:"quote"`
	ShippingMethod string            `json:"shipping_method"`
	ItemCount      int               `json:"item_count"`
}

// PromotionRejectedData is the payload of a promotion.rejected event
type PromotionRejectedData struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Publisher defines the interface for publishing pricing events
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NewEvent creates an event with a fresh ID and current timestamp
func NewEvent(eventType, sessionID string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Data:      payload,
		Timestamp: time.Now().Unix(),
		Version:   1,
	}, nil
}

// KafkaPublisher publishes events to a Kafka topic via a synchronous producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaPublisher creates a Kafka publisher connected to the given brokers
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// NewKafkaPublisherWithProducer creates a publisher over an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish sends the event to the configured topic, keyed by session ID so
// events for one session stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(payload),
	}
	if event.SessionID != "" {
		msg.Key = sarama.StringEncoder(event.SessionID)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	p.logger.Debug("event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close closes the underlying producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher discards events; used in tests and when Kafka is not
// configured.
type NoopPublisher struct{}

// Publish implements Publisher for NoopPublisher
func (NoopPublisher) Publish(ctx context.Context, event *Event) error { return nil }

// Close implements Publisher for NoopPublisher
func (NoopPublisher) Close() error { return nil }
