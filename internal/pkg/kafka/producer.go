package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/pkg/config"
	"courier-dispatch/pkg/logger"

	"github.com/IBM/sarama"
)

const producerClientID = "courier-dispatch-producer"

// Publisher пишет события смены статуса заказа, ключ - id заказа,
// чтобы события одного заказа попадали в одну партицию по порядку.
type Publisher struct {
	log      logger.Logger
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(ctx context.Context, log logger.Logger, cfg *config.Kafka) (*Publisher, error) {
	saramaConfig, err := baseConfig(cfg.Sarama.Version, producerClientID)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	brokers := cfg.BrokerList()
	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("topic", cfg.StatusChangedTopic),
	)

	if err := pingKafka(ctx, kafkaLog, brokers, saramaConfig); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return newPublisher(kafkaLog, producer, cfg.StatusChangedTopic), nil
}

func newPublisher(log logger.Logger, producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{
		log:      log,
		producer: producer,
		topic:    topic,
	}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, event entities.OrderStatusChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status changed event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("action"), Value: []byte(event.Action)},
		},
	})
	if err != nil {
		return fmt.Errorf("send status changed event %s: %w", event.OrderID, err)
	}

	p.log.Debug("order status change published",
		logger.NewField("order_id", event.OrderID),
		logger.NewField("to", event.To),
		logger.NewField("partition", partition),
		logger.NewField("offset", offset),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NopPublisher используется при выключенной Kafka.
type NopPublisher struct{}

func (NopPublisher) PublishStatusChanged(context.Context, entities.OrderStatusChanged) error {
	return nil
}
