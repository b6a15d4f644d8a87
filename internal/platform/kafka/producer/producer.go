// Package producer publishes records to Kafka with franz-go.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("producer is closed")

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Publisher is what event emitters depend on.
type Publisher interface {
	Produce(ctx context.Context, msg *Message) error
	Close() error
}

type Config struct {
	Brokers  []string
	ClientID string
	// Acks is "all" (default), "1" or "0".
	Acks            string
	Retries         int
	Linger          time.Duration
	DeliveryTimeout time.Duration
	FlushTimeout    time.Duration
}

// DefaultConfig suits a handful of project events per minute.
func DefaultConfig(brokers []string) Config {
	return Config{
		Brokers:         brokers,
		ClientID:        "vctbuilder",
		Acks:            "all",
		Retries:         3,
		Linger:          5 * time.Millisecond,
		DeliveryTimeout: 30 * time.Second,
		FlushTimeout:    10 * time.Second,
	}
}

func (c Config) options() []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.RecordRetries(c.Retries),
		kgo.ProducerLinger(c.Linger),
		kgo.AllowAutoTopicCreation(),
	}
	switch c.Acks {
	case "0":
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite())
	case "1":
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	default:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	}
	if c.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.ClientID))
	}
	if c.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(c.DeliveryTimeout))
	}
	return opts
}

// Producer sends records synchronously. The client connects lazily.
type Producer struct {
	client       *kgo.Client
	logger       *slog.Logger
	flushTimeout time.Duration
	closed       atomic.Bool
}

func New(cfg Config, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := kgo.NewClient(cfg.options()...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{client: client, logger: logger, flushTimeout: cfg.FlushTimeout}, nil
}

// toRecord copies msg into a record with headers in key order.
func toRecord(msg *Message) *kgo.Record {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	headers := make([]kgo.RecordHeader, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(msg.Headers[k])})
	}
	return &kgo.Record{Topic: msg.Topic, Key: msg.Key, Value: msg.Value, Headers: headers}
}

// Produce sends msg and waits for the broker acknowledgment.
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := p.client.ProduceSync(ctx, toRecord(msg)).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// Ping checks that a broker is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.client.Ping(ctx)
}

// Close flushes buffered records, bounded by the flush timeout, and shuts the
// client down. Later calls are no-ops.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	timeout := p.flushTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed records", "error", err)
	}
	p.client.Close()
	return nil
}

// Noop discards every message. Used when Kafka is not configured.
type Noop struct{}

func (Noop) Produce(context.Context, *Message) error { return nil }
func (Noop) Close() error                            { return nil }

var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = Noop{}
)
