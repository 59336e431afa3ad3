package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
)

// only freshly fetched tables go to the history
const liveSource = "live"

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type historyRecorder interface {
	RecordRates(ctx context.Context, table currency.Table, at time.Time) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	recorder      historyRecorder
}

func NewConsumer(cfg consumerConfig, recorder historyRecorder) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.RatesTopic(),
		recorder:      recorder,
	}, nil
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := c.processMessage(session.Context(), message); err != nil {
			logger.Error("cannot process rates event", zap.ByteString("key", message.Key), zap.Error(err))
		}
		session.MarkMessage(message, "")
	}
	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var event RatesEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return errors.Wrap(err, "unmarshal rates event")
	}

	logger.Info("received rates event",
		zap.String("source", event.Source),
		zap.Time("updatedAt", event.UpdatedAt),
	)
	if event.Source != liveSource {
		return nil
	}
	return errors.Wrap(c.recorder.RecordRates(ctx, event.Rates, event.UpdatedAt), "record rates")
}
