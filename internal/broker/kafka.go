package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"order-analytics/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{writer: writer}
}

// PublishEvent publishes an event to Kafka
func (p *Producer) PublishEvent(ctx context.Context, key string, event interface{}) error {
	msg, err := encodeMessage(key, event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	util.GetLogger().Debug("Published event",
		zap.String("key", key),
		zap.String("type", fmt.Sprintf("%T", event)))
	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

func encodeMessage(key string, event interface{}) (kafka.Message, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: eventBytes,
		Time:  time.Now(),
	}, nil
}

// Consumer represents a Kafka consumer
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a new Kafka consumer. Without a group ID the reader
// starts from the newest offset and commits nothing.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	cfg := kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	if groupID != "" {
		cfg.CommitInterval = time.Second
		cfg.StartOffset = kafka.FirstOffset
	} else {
		cfg.StartOffset = kafka.LastOffset
	}

	return &Consumer{reader: kafka.NewReader(cfg)}
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// MessageHandler is a function type for handling messages
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// StartConsuming consumes messages until ctx is cancelled
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	logger := util.GetLogger().With(zap.String("topic", c.reader.Config().Topic))
	logger.Info("Starting Kafka consumer")

	grouped := c.reader.Config().GroupID != ""
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Consumer context cancelled, stopping")
				return ctx.Err()
			}
			logger.Warn("Error fetching message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		if err := handler(ctx, msg); err != nil {
			logger.Warn("Error handling message", zap.Error(err), zap.Int64("offset", msg.Offset))
			continue
		}

		if grouped {
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Warn("Error committing message", zap.Error(err))
			}
		}
	}
}
