package kafka

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch/pkg/logger"
	retrierconfig "courier-dispatch/pkg/retrier"
	"courier-dispatch/pkg/retrier/backoff_adapter"

	"github.com/IBM/sarama"
)

const (
	initialInterval = 1 * time.Second
	maxInterval     = 30 * time.Second
	maxElapsedTime  = 2 * time.Minute
	randomization   = 0.5
	multiplier      = 2
)

// baseConfig общая часть настроек consumer и producer.
func baseConfig(version, clientID string) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	parsed, err := sarama.ParseKafkaVersion(version)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", version, err)
	}
	cfg.Version = parsed
	cfg.ClientID = clientID

	return cfg, nil
}

// pingKafka дожидается брокеров при старте, общий для consumer и producer.
func pingKafka(ctx context.Context, log logger.Logger, brokers []string, cfg *sarama.Config) error {
	retrier := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		Notify: func(err error, attempt uint64, delay time.Duration) {
			log.With(
				logger.NewField("attempt", attempt),
				logger.NewField("delay", delay.String()),
				logger.NewField("error", err),
			).Warn("Kafka is not reachable yet")
		},
	})

	var attempt uint64
	err := retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++

		client, err := sarama.NewClient(brokers, cfg)
		if err != nil {
			return err
		}

		defer func() {
			err := client.Close()
			if err != nil {
				log.Error("failed to close Kafka connection",
					logger.NewField("error", err),
				)
			}
		}()

		_, err = client.Topics()
		return err
	})
	if err != nil {
		log.With(
			logger.NewField("error", err),
			logger.NewField("attempts", attempt),
		).Error("Kafka connection failed after retries")
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}

	log.With(
		logger.NewField("attempts", attempt),
	).Info("Kafka connection established")
	return nil
}
