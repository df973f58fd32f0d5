package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required by SyncProducer
	cfg.Net.DialTimeout = 30 * time.Second
	cfg.Net.ReadTimeout = 30 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second
	return cfg
}

func NewKafkaPublisher(cfg models.KafkaConfig) (*KafkaPublisher, error) {
	brokers := strings.Split(cfg.BrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", cfg.Topic).Msg("kafka publisher ready")
	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer, such as a mock.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends the event keyed by restaurant so one restaurant's events stay
// ordered within a partition.
func (k *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := e.Encode()
	if err != nil {
		return err
	}
	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(e.RestaurantID),
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		log.Error().Err(err).Str("topic", k.topic).Str("event", e.Type).Msg("failed to publish event")
		return fmt.Errorf("publishing %s: %w", e.Type, err)
	}
	log.Debug().Str("event", e.Type).Int32("partition", partition).Int64("offset", offset).Msg("event published")
	return nil
}

func (k *KafkaPublisher) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}

// NewPublisher picks the Kafka publisher when enabled, otherwise a no-op.
func NewPublisher(cfg models.KafkaConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg)
}
