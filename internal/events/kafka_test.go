package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

func TestKafkaPublisherSendsEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got map[string]interface{}
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got["event_type"] != TypeForecastGenerated || got["restaurant_id"] != "r1" {
			return fmt.Errorf("unexpected envelope: %v", got)
		}
		payload, ok := got["payload"].(map[string]interface{})
		if !ok || payload["days"] != float64(14) {
			return fmt.Errorf("unexpected payload: %v", got["payload"])
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "analytics")
	err := pub.Publish(context.Background(), Event{
		Type:         TypeForecastGenerated,
		RestaurantID: "r1",
		Timestamp:    time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		Payload:      ForecastGeneratedPayload{Days: 14},
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestKafkaPublisherPropagatesFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "analytics")
	err := pub.Publish(context.Background(), Event{Type: TypeCustomersRescored, RestaurantID: "r1"})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("Publish() error = %v, want ErrOutOfBrokers", err)
	}
	pub.Close()
}

func TestKafkaPublisherHonoursCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	pub := NewKafkaPublisherWithProducer(producer, "analytics")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pub.Publish(ctx, Event{Type: TypeForecastGenerated}); !errors.Is(err, context.Canceled) {
		t.Errorf("Publish() error = %v, want context.Canceled", err)
	}
	pub.Close()
}

func TestNewPublisherDisabled(t *testing.T) {
	pub, err := NewPublisher(models.KafkaConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pub.(NopPublisher); !ok {
		t.Errorf("NewPublisher() = %T, want NopPublisher when disabled", pub)
	}
}
