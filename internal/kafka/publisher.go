package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/metrics"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/contact"

	"github.com/IBM/sarama"
)

// Publisher sends contact events to a Kafka topic, keyed by message id.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

const (
	networkTimeout = 3 * time.Second
	maxRetries     = 2
)

// NewConfig returns the producer settings. Network and broker timeouts are
// kept short so an unresponsive cluster fails a publish within seconds.
func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "portfolio-service"
	config.Net.DialTimeout = networkTimeout
	config.Net.ReadTimeout = networkTimeout
	config.Net.WriteTimeout = networkTimeout
	config.Metadata.Retry.Max = maxRetries
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = networkTimeout
	config.Producer.Retry.Max = maxRetries
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	return config
}

func NewPublisher(brokers []string, topic string, logger *slog.Logger, m *metrics.Metrics) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, err
	}

	logger.Info("kafka publisher initialized", "brokers", brokers, "topic", topic)

	return NewPublisherWithProducer(producer, topic, logger, m), nil
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		metrics:  m,
	}
}

func (p *Publisher) NotifyContactSubmitted(ctx context.Context, event contact.SubmittedEvent) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	key := strconv.FormatInt(event.ID, 10)
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(valueBytes),
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.Messaging.RecordPublish(ctx, "kafka", p.topic, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to kafka", "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "event sent to kafka", "topic", p.topic, "partition", partition, "offset", offset, "key", key)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
