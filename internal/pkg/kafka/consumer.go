package kafka

import (
	"context"
	"errors"
	"fmt"

	"courier-dispatch/internal/pkg/config"
	"courier-dispatch/pkg/logger"

	"github.com/IBM/sarama"
)

const consumerClientID = "courier-dispatch-consumer"

// Consumer читает топик размещённых заказов группой консьюмеров.
type Consumer struct {
	log     logger.Logger
	client  sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
}

func NewConsumer(ctx context.Context, log logger.Logger, cfg *config.Kafka, handler sarama.ConsumerGroupHandler) (*Consumer, error) {
	brokers := cfg.BrokerList()
	groupID := cfg.ConsumerGroup
	topics := []string{cfg.PlacedTopic}

	saramaConfig, err := baseConfig(cfg.Sarama.Version, consumerClientID)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}
	// заказ, пропущенный до старта группы, всё равно должен попасть в рассылку
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = cfg.Sarama.ConsumerOffsetsAutocommit
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}
	saramaConfig.Consumer.Return.Errors = true

	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("group", groupID),
		logger.NewField("topics", topics),
	)

	if err := pingKafka(ctx, kafkaLog, brokers, saramaConfig); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	client, err := sarama.NewConsumerGroup(brokers, groupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		log:     kafkaLog,
		client:  client,
		topics:  topics,
		handler: handler,
	}, nil
}

// Start запускает consumer (блокирующий вызов). Consume возвращается на каждом
// ребалансе, поэтому вызывается в цикле до отмены ctx.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("Kafka consumer starting")

	go c.logErrors()

	for generation := 1; ; generation++ {
		err := c.client.Consume(ctx, c.topics, c.handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return err
		}
		if err != nil {
			c.log.With(
				logger.NewField("error", err),
			).Error("Error from consumer")
			return fmt.Errorf("consumer error: %w", err)
		}

		if ctx.Err() != nil {
			c.log.Warn("Context cancelled, stopping consumer")
			return ctx.Err()
		}

		c.log.Info("consumer group rebalanced", logger.NewField("generation", generation))
	}
}

// logErrors вычитывает асинхронные ошибки группы, канал закрывается вместе с группой.
func (c *Consumer) logErrors() {
	for err := range c.client.Errors() {
		c.log.Warn("consumer group error", logger.NewField("error", err))
	}
}

func (c *Consumer) Close() error {
	return c.client.Close()
}
