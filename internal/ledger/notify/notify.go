// Package notify publishes persisted ledger records to Kafka for downstream
// consumers. Publication happens after the record is durable and is best
// effort: a failure is reported to the caller but never undoes the record.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/config"
)

// Producer is the subset of *kgo.Client used for publishing.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Message is the published shape of a ledger record.
type Message struct {
	IdempotencyKey string                `json:"idempotencyKey"`
	EventType      models.EventType      `json:"eventType"`
	BookingID      string                `json:"bookingId"`
	OccurredAt     time.Time             `json:"occurredAt"`
	RecordedAt     time.Time             `json:"recordedAt"`
	Receipt        *models.CommitReceipt `json:"receipt"`
}

// Kafka publishes one record per ledger entry, keyed by booking id so a
// booking's events land on one partition in order.
type Kafka struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewKafka wraps an existing producer.
func NewKafka(producer Producer, topic string, logger *slog.Logger) *Kafka {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{producer: producer, topic: topic, logger: logger}
}

// Publish sends the record and waits for the broker acknowledgement.
func (k *Kafka) Publish(ctx context.Context, record *models.LedgerRecord) error {
	value, err := json.Marshal(Message{
		IdempotencyKey: record.IdempotencyKey,
		EventType:      record.Event.EventType,
		BookingID:      record.Event.BookingID,
		OccurredAt:     record.Event.OccurredAt,
		RecordedAt:     record.RecordedAt,
		Receipt:        record.Receipt,
	})
	if err != nil {
		return fmt.Errorf("encode ledger message: %w", err)
	}
	rec := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(record.Event.BookingID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "idempotency-key", Value: []byte(record.IdempotencyKey)},
		},
	}
	if err := k.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish ledger record: %w", err)
	}
	k.logger.DebugContext(ctx, "ledger record published",
		"topic", k.topic,
		"idempotency_key", record.IdempotencyKey,
	)
	return nil
}

// Noop discards records. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, *models.LedgerRecord) error { return nil }

// Dial connects to the configured brokers and makes sure the topic exists.
// The returned close function flushes and closes the client.
func Dial(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Kafka, func(), error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := ensureTopic(ctx, kadm.NewClient(client), cfg.Topic); err != nil {
		client.Close()
		return nil, nil, err
	}
	closeFn := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Flush(flushCtx)
		client.Close()
	}
	return NewKafka(client, cfg.Topic, logger), closeFn, nil
}

func ensureTopic(ctx context.Context, adm *kadm.Client, topic string) error {
	resp, err := adm.CreateTopic(ctx, 1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}
