package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	RatesTopic() string
}

// RatesEvent is published every time a new rate table is applied.
type RatesEvent struct {
	Base      currency.Code  `json:"base"`
	Rates     currency.Table `json:"rates"`
	Source    string         `json:"source"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new sync producer")
	}
	return newProducer(producer, cfg.RatesTopic()), nil
}

func newProducer(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
	}
}

func (p *Producer) PublishRates(ctx context.Context, table currency.Table, source string, updatedAt time.Time) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "publishRates")
	defer span.Finish()

	message, err := json.Marshal(RatesEvent{
		Base:      currency.Base,
		Rates:     table,
		Source:    source,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "marshal rates event")
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(currency.Base),
		Value: sarama.ByteEncoder(message),
	})
	if err != nil {
		return errors.Wrap(err, "send rates event")
	}
	logger.Debug("rates event published", zap.Int32("partition", partition), zap.Int64("offset", offset))
	return nil
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
