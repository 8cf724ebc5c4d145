package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// KafkaConfig holds the publisher settings.
type KafkaConfig struct {
	Brokers      string
	Topic        string
	SASLUsername string
	SASLPassword string
}

// messageWriter is the part of *kafka.Writer the bus uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventBus publishes every event to a single topic, keyed by account so
// that one account's events stay ordered within a partition.
type KafkaEventBus struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWithKafka creates a Kafka-backed publisher.
func NewWithKafka(cfg KafkaConfig, logger *slog.Logger) (*KafkaEventBus, error) {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = "saveblue.events"
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
	}
	if cfg.SASLUsername != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.SASLUsername, Password: cfg.SASLPassword},
		}
	}

	logger.Info("🚀 Kafka event bus initialized", "brokers", brokers, "topic", cfg.Topic)
	return newKafkaEventBus(writer, cfg.Topic, logger), nil
}

func newKafkaEventBus(w messageWriter, topic string, logger *slog.Logger) *KafkaEventBus {
	return &KafkaEventBus{writer: w, topic: topic, logger: logger.With("bus", "kafka")}
}

// Emit publishes event. The caller decides whether a failure matters.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	value, err := buildEnvelope(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(partitionKey(event)),
		Value: value,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	b.logger.Debug("event published", "type", event.Type(), "topic", b.topic)
	return nil
}

// Close flushes pending messages.
func (b *KafkaEventBus) Close() error {
	if b == nil || b.writer == nil {
		return nil
	}
	return b.writer.Close()
}

func partitionKey(event events.Event) string {
	switch e := event.(type) {
	case events.BalanceChanged:
		return e.AccountID.String()
	case events.ReservationChanged:
		return e.AccountID.String()
	case events.GoalCompleted:
		return e.AccountID.String()
	}
	return event.Type()
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
