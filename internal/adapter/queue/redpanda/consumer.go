package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// Consumer polls match tasks and hands them to a fixed worker pool.
// Fetches run with read-committed isolation so only committed producer
// transactions are visible.
type Consumer struct {
	session *kgo.GroupTransactSession
	handler *MatchHandler

	groupID string
	topic   string
	workers int

	tasks    chan *kgo.Record
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewConsumer constructs a Consumer for the default match topic.
func NewConsumer(brokers []string, groupID string, handler *MatchHandler, workers int) (*Consumer, error) {
	return NewConsumerWithTopic(brokers, groupID, "job-matcher-consumer", TopicMatch, handler, workers)
}

// NewConsumerWithTopic constructs a Consumer with a custom transactional
// id and topic. Tests use this for isolation.
func NewConsumerWithTopic(brokers []string, groupID, transactionalID, topic string, handler *MatchHandler, workers int) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=queue.consumer: no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("op=queue.consumer: missing group id")
	}
	if workers < 1 {
		workers = 1
	}

	// Topic creation is best-effort; the broker may have it already.
	bootstrap, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("op=queue.consumer bootstrap client: %w", err)
	}
	if err := createTopicIfNotExists(context.Background(), bootstrap, topic, 1, 1); err != nil {
		slog.Warn("topic create failed, may already exist", slog.String("topic", topic), slog.Any("error", err))
	}
	bootstrap.Close()

	kotelService := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
	)))

	session, err := kgo.NewGroupTransactSession(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.RequireStableFetchOffsets(),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.SessionTimeout(30*time.Second),
		kgo.HeartbeatInterval(3*time.Second),
		kgo.FetchMaxWait(5*time.Second),
		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("op=queue.consumer session: %w", err)
	}

	return &Consumer{
		session:  session,
		handler:  handler,
		groupID:  groupID,
		topic:    topic,
		workers:  workers,
		tasks:    make(chan *kgo.Record, workers*2),
		shutdown: make(chan struct{}),
	}, nil
}

// Start runs the poll loop and worker pool until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("consumer starting",
		slog.String("group_id", c.groupID),
		slog.String("topic", c.topic),
		slog.Int("workers", c.workers))

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i)
	}

	go c.poll(ctx)

	<-ctx.Done()
	close(c.shutdown)
	c.wg.Wait()
	return ctx.Err()
}

func (c *Consumer) poll(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		default:
		}

		fetches := c.session.PollFetches(ctx)
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				if errors.Is(fe.Err, context.Canceled) {
					return
				}
				slog.Error("fetch error",
					slog.String("topic", fe.Topic),
					slog.Int("partition", int(fe.Partition)),
					slog.Any("error", fe.Err))
			}
			time.Sleep(2 * time.Second)
			continue
		}

		fetches.EachRecord(func(record *kgo.Record) {
			select {
			case c.tasks <- record:
			case <-ctx.Done():
			}
		})
	}
}

func (c *Consumer) worker(ctx context.Context, id int) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case record := <-c.tasks:
			if record == nil {
				return
			}
			if err := c.processRecord(ctx, record); err != nil {
				slog.Error("match task failed",
					slog.Int("worker", id),
					slog.Int64("offset", record.Offset),
					slog.Any("error", err))
			}
		}
	}
}

// processRecord decodes one record and runs the match handler.
func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) error {
	tracer := otel.Tracer("queue.consumer")
	ctx, span := tracer.Start(ctx, "ProcessMatchTask")
	defer span.End()

	var payload domain.MatchTaskPayload
	if err := json.Unmarshal(record.Value, &payload); err != nil {
		// Malformed records are dropped after logging; retrying cannot fix them.
		return fmt.Errorf("op=queue.consume unmarshal: %w", err)
	}
	return c.handler.Handle(ctx, payload)
}

// Close closes the underlying session.
func (c *Consumer) Close() error {
	if c.session != nil {
		c.session.Close()
	}
	return nil
}
