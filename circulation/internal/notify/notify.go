package notify

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	cbWindow           = 10
	cbCooldown         = 30 * time.Second
	cbThreshold        = 0.5
	cbRecoveryRequests = 2
)

// Kafka publishes notifications to the notification topic. The breaker stops the
// producer from being hammered while the brokers are down.
type Kafka struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	topic    string
	now      func() time.Time
}

func NewKafka(producer sarama.SyncProducer) *Kafka {
	return &Kafka{
		producer: producer,
		cb:       circuit_breaker.New(cbWindow, cbCooldown, cbThreshold, cbRecoveryRequests),
		topic:    kafka.NotificationTopic,
		now:      time.Now,
	}
}

func (k *Kafka) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(kafka.Notification{
		To:        to,
		Subject:   subject,
		Body:      body,
		Timestamp: k.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal notification")
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(to),
		Value: sarama.ByteEncoder(data),
	}
	return k.cb.Call(func() error {
		_, _, err := k.producer.SendMessage(msg)
		return errors.Wrap(err, "send message")
	})
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}

// Log only writes notifications to the log. Used when Kafka is disabled.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("notify")}
}

func (l *Log) Send(_ context.Context, to, subject, body string) error {
	l.log.Info("notification",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
