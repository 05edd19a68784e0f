package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// KafkaPublisher emits completed scan results to Kafka for downstream
// consumers such as bet trackers and model backtests
type KafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// KafkaPublisherConfig holds Kafka publisher configuration
type KafkaPublisherConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "scan_results"
}

// NewKafkaPublisher creates a new Kafka publisher
func NewKafkaPublisher(config KafkaPublisherConfig, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// Publish emits one scan result, keyed by scan ID so replays of the same
// scan land in the same partition
func (p *KafkaPublisher) Publish(ctx context.Context, result models.ScanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal scan result: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(result.ScanID.String()),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish scan result: %w", err)
	}

	p.logger.Debug().
		Str("scan_id", result.ScanID.String()).
		Int("recommendations", len(result.Recommendations)).
		Msg("published scan result")

	return nil
}

// Close closes the Kafka writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
