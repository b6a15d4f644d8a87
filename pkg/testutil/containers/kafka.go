//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"
)

type KafkaContainer struct {
	Container testcontainers.Container
	Brokers   string
}

const redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v24.2.7"

// NewKafkaContainer starts Redpanda with topic auto-creation enabled.
func NewKafkaContainer(t *testing.T) *KafkaContainer {
	t.Helper()
	ctx := context.Background()

	c, err := redpanda.Run(ctx, redpandaImage, redpanda.WithAutoCreateTopics())
	if err != nil {
		t.Fatalf("start redpanda: %v", err)
	}
	broker, err := c.KafkaSeedBroker(ctx)
	if err != nil {
		abort(t, c, "redpanda seed broker: %v", err)
	}
	return &KafkaContainer{Container: c, Brokers: broker}
}

// FindRecord reads topic from the beginning with a group-less client until
// match accepts a record. It returns nil when timeout passes first.
func (k *KafkaContainer) FindRecord(ctx context.Context, topic string, timeout time.Duration, match func(*kgo.Record) bool) (*kgo.Record, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(k.Brokers),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for ctx.Err() == nil {
		fetches := client.PollFetches(ctx)
		for it := fetches.RecordIter(); !it.Done(); {
			if r := it.Next(); match(r) {
				return r, nil
			}
		}
	}
	return nil, nil
}
