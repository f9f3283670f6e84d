// Package outbox delivers engine events from Postgres to Kafka. The engine
// writes events transactionally next to its state changes; the dispatcher
// drains them asynchronously so notification delivery can never fail a
// training operation.
package outbox

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"github.com/nicholas-won/TriOne-sub000/internal/domain"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Dispatcher polls the outbox table and forwards pending events to Kafka.
type Dispatcher struct {
	pool             *pgxpool.Pool
	producer         messageWriter
	pollInterval     time.Duration
	batchSize        int
	logger           *log.Logger
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(pool *pgxpool.Pool, producer messageWriter, pollInterval time.Duration, batchSize int) *Dispatcher {
	return &Dispatcher{
		pool:             pool,
		producer:         producer,
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		logger:           log.New(log.Writer(), "[outbox] ", log.LstdFlags),
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if err := d.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Printf("dispatch error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the dispatcher loop has stopped.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	start := time.Now()

	events, err := d.fetchAndClaim(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	defer batchDuration.Observe(time.Since(start).Seconds())

	if err := d.deliver(ctx, events); err != nil {
		failedCounter.Add(float64(len(events)))
		return err
	}

	deliveredCounter.Add(float64(len(events)))
	return d.markPublished(ctx, events)
}

// fetchAndClaim locks a batch of unpublished events. SKIP LOCKED keeps
// concurrent dispatchers from double-delivering.
func (d *Dispatcher) fetchAndClaim(ctx context.Context) ([]domain.OutboxEvent, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT event_id, event_type, topic, partition_key, payload, created_at
        FROM outbox
        WHERE published_at IS NULL
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, d.batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	var ids []int64
	for rows.Next() {
		var ev domain.OutboxEvent
		if err := rows.Scan(&ev.EventID, &ev.EventType, &ev.Topic, &ev.PartitionKey, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
		ids = append(ids, ev.EventID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() WHERE event_id = ANY($1)`, ids); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (d *Dispatcher) deliver(ctx context.Context, events []domain.OutboxEvent) error {
	batches := make(map[string][]kafka.Message)
	for _, ev := range events {
		batches[ev.Topic] = append(batches[ev.Topic], kafka.Message{
			Key:   []byte(ev.PartitionKey),
			Value: append([]byte(nil), ev.Payload...),
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(ev.EventType)},
			},
		})
	}

	for topic, msgs := range batches {
		if err := d.producer.WriteMessages(ctx, topic, msgs...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) markPublished(ctx context.Context, events []domain.OutboxEvent) error {
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.EventID)
	}
	_, err := d.pool.Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE event_id = ANY($1)`, ids)
	return err
}
