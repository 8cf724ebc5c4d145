// Command kafka_smoketest publishes a balance event through the Kafka event
// bus and reads it back to verify a local broker setup.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	infra_eventbus "github.com/saveblue/saveblue/infra/eventbus"
	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/segmentio/kafka-go"
)

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// RunSmokeTest emits one BalanceChanged event and consumes it from the topic.
func RunSmokeTest(ctx context.Context, logger *slog.Logger) error {
	brokers := envOr("BROKERS", "localhost:9092")
	topic := envOr("TOPIC", "saveblue.events.smoketest")
	groupID := envOr("GROUP_ID", "saveblue-smoketest-"+uuid.NewString()[:8])

	bus, err := infra_eventbus.NewWithKafka(infra_eventbus.KafkaConfig{Brokers: brokers, Topic: topic}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := events.NewBalanceChanged(uuid.New(), 1234, "smoketest")
	if err := bus.Emit(ctx, sent); err != nil {
		return err
	}
	logger.Info("produced", "topic", topic, "accountID", sent.AccountID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     strings.Split(brokers, ","),
		GroupID:     groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	defer func() { _ = r.Close() }()

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		_ = r.CommitMessages(ctx, msg)
		if string(msg.Key) != sent.AccountID.String() {
			continue
		}
		var env struct {
			Type    string                `json:"type"`
			Payload events.BalanceChanged `json:"payload"`
		}
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}
		if env.Type != sent.Type() || env.Payload.ID != sent.ID {
			return fmt.Errorf("unexpected event %s %s", env.Type, env.Payload.ID)
		}
		logger.Info("consumed", "type", env.Type, "amount", env.Payload.Amount)
		return nil
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := RunSmokeTest(ctx, logger); err != nil {
		logger.Error("kafka smoke test failed", "error", err)
		os.Exit(1)
	}
	logger.Info("kafka smoke test passed")
}
