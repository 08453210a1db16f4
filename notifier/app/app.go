package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Astemirdum/library-circulation/notifier/config"
	"github.com/Astemirdum/library-circulation/notifier/internal/handler"
	"github.com/Astemirdum/library-circulation/notifier/internal/mailer"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "notifier")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Group)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	m := mailer.New(log)

	log.Info("consuming", zap.String("topic", kafka.NotificationTopic), zap.String("group", cfg.Group))
	if err := kafka.Consume(ctx, consumer, handler.NewConsumer(m.Deliver, log), log, kafka.NotificationTopic); err != nil {
		log.Error("kafka.Consume", zap.Error(err))
	}

	if err := consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished", zap.Int64("delivered", m.Delivered()))
}
