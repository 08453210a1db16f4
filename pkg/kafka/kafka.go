package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	NotificationTopic         = "circulation-notifications"
	NotifierConsumerGroup     = "notifier"
	consumerRetryBackoff      = 5 * time.Second
	producerMaxRetry          = 3
	producerRetryBackoffValue = 100 * time.Millisecond
)

type Config struct {
	Addrs   []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
	Enabled bool     `yaml:"enabled" envconfig:"KAFKA_ENABLED" default:"false"`
}

// Notification is the message published for every circulation event a borrower should hear about.
type Notification struct {
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = producerMaxRetry
	defaultCfg.Producer.Retry.Backoff = producerRetryBackoffValue

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume joins the group and keeps consuming until ctx is cancelled or the group is closed.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Error("group.Consume", zap.Error(err))
			select {
			case <-time.After(consumerRetryBackoff):
			case <-ctx.Done():
				return nil
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
