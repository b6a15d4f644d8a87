// Package events publishes project lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"vctbuilder/internal/platform/kafka/producer"
	"vctbuilder/internal/project/models"
)

// KafkaPublisher writes events keyed by project ID so a project's history
// stays on one partition.
type KafkaPublisher struct {
	producer producer.Publisher
	topic    string
}

func NewKafkaPublisher(p producer.Publisher, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev models.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.producer.Produce(ctx, &producer.Message{
		Topic:   p.topic,
		Key:     []byte(ev.ProjectID.String()),
		Value:   payload,
		Headers: map[string]string{"event_type": string(ev.Type)},
	})
}

// LogPublisher records events in the structured log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev models.Event) error {
	p.logger.InfoContext(ctx, "project event",
		"type", ev.Type,
		"project_id", ev.ProjectID,
		"name", ev.Name,
	)
	return nil
}
