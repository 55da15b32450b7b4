package publish

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/redeslab/flowreport/internal/config"
)

// KafkaProducer is responsible ONLY for Kafka interactions
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(cfg config.PublishConfig) (*KafkaProducer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("kafka topic not configured")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka producer initialized")

	return &KafkaProducer{writer: w}, nil
}

// Messages encodes one message per record, keyed by its table cell.
func Messages(records []Record) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.Key()),
			Value: data,
		})
	}
	return msgs, nil
}

func (p *KafkaProducer) Publish(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	msgs, err := Messages(records)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close shuts down the Kafka writer gracefully
func (p *KafkaProducer) Close() error {
	log.Info().Msg("closing kafka producer")
	return p.writer.Close()
}
