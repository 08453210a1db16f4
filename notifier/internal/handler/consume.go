package handler

import (
	"context"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type deliver func(ctx context.Context, n kafka.Notification) error

type Consumer struct {
	deliverHandler deliver
	log            *zap.Logger
}

func NewConsumer(deliver deliver, log *zap.Logger) *Consumer {
	return &Consumer{
		deliverHandler: deliver,
		log:            log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks malformed messages so they are skipped. A failed delivery ends the
// claim before anything after it is marked, so the session restarts from that message.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var n kafka.Notification
			if err := json.Unmarshal(message.Value, &n); err != nil {
				consumer.log.Error("malformed notification", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.deliverHandler(session.Context(), n); err != nil {
				consumer.log.Error("consumer.deliverHandler", zap.Error(err), zap.String("to", n.To))
				return errors.Wrapf(err, "deliver offset %d", message.Offset)
			}

			consumer.log.Debug("Message claimed:",
				zap.String("value", string(message.Value)),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
