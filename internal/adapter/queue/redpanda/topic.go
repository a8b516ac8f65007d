package redpanda

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// Kafka protocol error code for TOPIC_ALREADY_EXISTS.
const errTopicAlreadyExists = 36

// createTopicIfNotExists issues a CreateTopics request and treats an
// already-existing topic as success.
func createTopicIfNotExists(ctx context.Context, client *kgo.Client, topic string, partitions int32, replication int16) error {
	if topic == "" {
		return fmt.Errorf("topic name cannot be empty")
	}
	if partitions <= 0 || replication <= 0 {
		return fmt.Errorf("partitions and replication must be positive")
	}

	req := kmsg.NewCreateTopicsRequest()
	req.TimeoutMillis = 30_000
	topicReq := kmsg.NewCreateTopicsRequestTopic()
	topicReq.Topic = topic
	topicReq.NumPartitions = partitions
	topicReq.ReplicationFactor = replication
	req.Topics = append(req.Topics, topicReq)

	resp, err := client.Request(ctx, &req)
	if err != nil {
		return fmt.Errorf("create topics request: %w", err)
	}
	createResp, ok := resp.(*kmsg.CreateTopicsResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", resp)
	}

	for _, tr := range createResp.Topics {
		if tr.ErrorCode == errTopicAlreadyExists {
			continue
		}
		if tr.ErrorCode != 0 {
			msg := ""
			if tr.ErrorMessage != nil {
				msg = *tr.ErrorMessage
			}
			return fmt.Errorf("create topic %s: %s (code %d)", tr.Topic, msg, tr.ErrorCode)
		}
		slog.Info("topic created", slog.String("topic", tr.Topic), slog.Int("partitions", int(partitions)))
	}
	return nil
}
