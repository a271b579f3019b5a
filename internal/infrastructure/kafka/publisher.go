package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const headerEventType = "event-type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type PublisherConfig struct {
	Brokers      []string
	TopicPrefix  string
	Async        bool
	BatchSize    int
	WriteTimeout time.Duration
}

// KafkaPublisher реализует domain.PublisherPort. Один writer на все топики,
// топик задается в каждом сообщении.
type KafkaPublisher struct {
	writer  messageWriter
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

func NewKafkaPublisher(cfg PublisherConfig) *KafkaPublisher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	// партиция по ключу: события одного заказа или магазина не переупорядочиваются
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              batchSize,
		Async:                  cfg.Async,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, cfg.TopicPrefix, cfg.WriteTimeout)
}

func newKafkaPublisher(writer messageWriter, prefix string, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KafkaPublisher{writer: writer, prefix: prefix, timeout: timeout, now: time.Now}
}

func (k *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	timestamp := k.now()
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %T: %w", event, err)
		}
		messages = append(messages, kafka.Message{
			Topic: k.prefix + event.Topic(),
			Key:   []byte(event.Key()),
			Value: value,
			Time:  timestamp,
			Headers: []kafka.Header{
				{Key: headerEventType, Value: []byte(EventType(event))},
			},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to write %d messages: %w", len(messages), err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// EventType - значение заголовка event-type для потребителей.
func EventType(event domain.Event) string {
	switch e := event.(type) {
	case domain.OrderStatusChangedEvent:
		return "order.status_changed"
	case domain.SettlementEvent:
		return "settlement." + e.Type
	case domain.CommissionChangedEvent:
		return "commission.changed"
	case domain.ReturnStatusChangedEvent:
		return "return.status_changed"
	default:
		return fmt.Sprintf("%T", event)
	}
}
