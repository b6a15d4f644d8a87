// Package kafka holds broker administration helpers shared by the event
// publisher and the readiness probe.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// SplitBrokers parses a comma separated broker list, dropping blanks.
func SplitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Admin wraps a kadm client for topic management and health checks.
type Admin struct {
	client *kgo.Client
	adm    *kadm.Client
}

// NewAdmin connects an admin client to the given brokers.
func NewAdmin(brokers []string) (*Admin, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("create kafka admin client: %w", err)
	}
	return &Admin{client: client, adm: kadm.NewClient(client)}, nil
}

// EnsureTopic creates the topic when missing. An existing topic is not an error.
func (a *Admin) EnsureTopic(ctx context.Context, topic string, partitions int32, replication int16) error {
	resp, err := a.adm.CreateTopic(ctx, partitions, replication, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// Check reports whether at least one broker answers metadata requests.
func (a *Admin) Check(ctx context.Context) error {
	brokers, err := a.adm.ListBrokers(ctx)
	if err != nil {
		return fmt.Errorf("list kafka brokers: %w", err)
	}
	if len(brokers) == 0 {
		return fmt.Errorf("no kafka brokers reachable")
	}
	return nil
}

func (a *Admin) Close() {
	a.adm.Close()
}
