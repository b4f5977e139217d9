package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes propagation events to a kafka topic
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a producer for the comma separated broker list
func NewProducer(brokers, topic string) (*Producer, error) {
	if strings.TrimSpace(brokers) == "" {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	zap.S().Infow("kafka producer created", "topic", topic)
	return &Producer{writer: writer, topic: topic}, nil
}

// PublishPartialFailure keys the message by appointment so one appointment's
// failures stay ordered on a single partition
func (p *Producer) PublishPartialFailure(ctx context.Context, f PartialFailure) error {
	key := f.DoctorPatientID
	if key == "" {
		key = f.UserID
	}
	return p.publish(ctx, key, Envelope{Type: TypePartialFailure, Payload: f})
}

func (p *Producer) PublishDivergence(ctx context.Context, d Divergence) error {
	return p.publish(ctx, d.DoctorPatientID, Envelope{Type: TypeDivergence, Payload: d})
}

func (p *Producer) publish(ctx context.Context, key string, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", env.Type, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(env.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", env.Type, err)
	}
	zap.S().Debugw("event published", "topic", p.topic, "type", env.Type, "key", key)
	return nil
}

// Topic returns the configured topic
func (p *Producer) Topic() string {
	return p.topic
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
