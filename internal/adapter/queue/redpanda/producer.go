// Package redpanda provides the Redpanda/Kafka queue adapter. Match
// tasks are produced transactionally and consumed by a worker pool with
// read-committed isolation, so a task is either fully enqueued or not
// visible at all.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/hirewise/ai-job-matcher/internal/adapter/observability"
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// TopicMatch is the Kafka topic carrying match tasks.
const TopicMatch = "match-jobs"

// Producer wraps a transactional Kafka producer and implements
// domain.Queue. Transactions are serialized through a one-slot channel
// because a kgo client allows only one open transaction at a time.
type Producer struct {
	client  *kgo.Client
	topic   string
	txnSlot chan struct{}
}

// NewProducer constructs a Producer against the given brokers.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTopic(brokers, "job-matcher-producer", TopicMatch)
}

// NewProducerWithTopic constructs a Producer with a custom transactional
// id and topic. Tests use this for isolation.
func NewProducerWithTopic(brokers []string, transactionalID, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=queue.producer: no seed brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1_000_000),
	)
	if err != nil {
		return nil, fmt.Errorf("op=queue.producer client: %w", err)
	}

	if err := createTopicIfNotExists(context.Background(), client, topic, 1, 1); err != nil {
		slog.Warn("topic create failed, may already exist", slog.String("topic", topic), slog.Any("error", err))
	}

	return &Producer{
		client:  client,
		topic:   topic,
		txnSlot: make(chan struct{}, 1),
	}, nil
}

// EnqueueMatch publishes a match task inside a transaction and returns
// the match id as the task id.
func (p *Producer) EnqueueMatch(ctx domain.Context, payload domain.MatchTaskPayload) (string, error) {
	select {
	case p.txnSlot <- struct{}{}:
		defer func() { <-p.txnSlot }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("op=queue.enqueue begin: %w", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		p.abort(ctx)
		return "", fmt.Errorf("op=queue.enqueue marshal: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		// Keyed by match id so redeliveries of the same match stay ordered.
		Key:   []byte(payload.MatchID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "match_id", Value: []byte(payload.MatchID)},
			{Key: "profile_id", Value: []byte(payload.ProfileID)},
			{Key: "job_id", Value: []byte(payload.JobID)},
		},
	}

	promise := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, promise.Promise())
	if err := promise.Err(); err != nil {
		p.abort(ctx)
		return "", fmt.Errorf("op=queue.enqueue produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("op=queue.enqueue commit: %w", err)
	}

	observability.EnqueueMatch()
	slog.Info("match task enqueued",
		slog.String("match_id", payload.MatchID),
		slog.String("topic", p.topic))
	return payload.MatchID, nil
}

func (p *Producer) abort(ctx context.Context) {
	if err := p.client.EndTransaction(ctx, kgo.TryAbort); err != nil {
		slog.Error("transaction abort failed", slog.Any("error", err))
	}
}

// Close closes the underlying client.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
