// Package kafka wraps the segmentio client with the small producer and
// consumer surface the storefront needs: JSON envelopes on one topic,
// keyed by order so per-order events stay in sequence.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront/internal/event"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	log.Printf("[Kafka] Producer ready on topic %s", topic)
	return &Producer{writer: writer}
}

// Publish writes one envelope under the given key. The message time is the
// envelope's OccurredAt, not the write time.
func (p *Producer) Publish(ctx context.Context, key string, env *event.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", env.Type, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  env.OccurredAt,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
