// Package events relays the appointment event log to Kafka.
package events

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Lcsmrct/Henna-alicia/internal/db"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

// MessageWriter is the part of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

type Relay struct {
	pool      db.TxQuerier
	writer    MessageWriter
	logger    *logging.Logger
	interval  time.Duration
	batchSize int
}

func NewRelay(pool db.TxQuerier, writer MessageWriter, logger *logging.Logger, cfg RelayConfig) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Relay{
		pool:      pool,
		writer:    writer,
		logger:    logger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
	}
}

// NewKafkaWriter builds a writer for topic that partitions by message key.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Run publishes a batch at startup and then on every tick until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("event relay stopping")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Relay) runOnce(ctx context.Context) {
	start := time.Now()
	n, err := r.RunOnce(ctx)
	if err != nil {
		r.logger.Error("event relay run failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("event relay run complete", "published", n, "duration", time.Since(start))
	}
}

// RunOnce publishes one batch and marks it published in the same
// transaction. A failed write leaves every row of the batch unpublished.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin relay tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	records, err := FetchUnpublished(ctx, tx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		committed = true
		return 0, tx.Commit(ctx)
	}

	msgs := make([]kafka.Message, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, toMessage(rec))
		ids = append(ids, rec.ID)
	}

	if err := r.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write kafka messages: %w", err)
	}
	if err := MarkPublished(ctx, tx, ids); err != nil {
		return 0, err
	}

	committed = true
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit relay tx: %w", err)
	}
	return len(records), nil
}

func toMessage(rec Record) kafka.Message {
	eventID := strconv.FormatInt(rec.ID, 10)
	key := eventID
	if rec.AppointmentID != nil {
		key = rec.AppointmentID.String()
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: rec.Payload,
		Time:  rec.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte(rec.EventType)},
		},
	}
}
