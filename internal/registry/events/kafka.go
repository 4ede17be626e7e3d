package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaEmitter publishes observations to a broker topic for downstream
// indexers. Production is asynchronous; a failed delivery is logged and
// dropped, never surfaced to the mutation that produced it.
type KafkaEmitter struct {
	cl     *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaEmitter connects to the brokers and verifies reachability.
func NewKafkaEmitter(brokers []string, topic string, logger *slog.Logger) (*KafkaEmitter, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := cl.Ping(context.Background()); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka ping: %w", err)
	}
	return &KafkaEmitter{cl: cl, topic: topic, logger: logger}, nil
}

func (e *KafkaEmitter) Emit(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}
	record := &kgo.Record{
		Topic: e.topic,
		Key:   []byte(ev.Kind),
		Value: value,
	}
	e.cl.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			e.logger.Warn("observation delivery failed",
				"kind", ev.Kind,
				"event_id", ev.ID,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes buffered observations and releases the client.
func (e *KafkaEmitter) Close() {
	_ = e.cl.Flush(context.Background())
	e.cl.Close()
}
