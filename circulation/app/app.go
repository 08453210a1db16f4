package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/config"
	"github.com/Astemirdum/library-circulation/circulation/internal/handler"
	"github.com/Astemirdum/library-circulation/circulation/internal/notify"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/server"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
	"github.com/Astemirdum/library-circulation/circulation/migrations"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/Astemirdum/library-circulation/pkg/postgres"
	"github.com/Astemirdum/library-circulation/pkg/tracing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "circulation")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing, "circulation")
	if err != nil {
		log.Fatal("tracing init", zap.Error(err))
	}

	repo, closeRepo, err := newRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	notifier, closeNotifier, err := newNotifier(cfg.Kafka, log)
	if err != nil {
		log.Fatal("notifier", zap.Error(err))
	}

	svc := service.NewService(repo, log,
		service.WithNotifier(notifier),
		service.WithPolicy(cfg.Policy),
	)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
			zap.String("storage", cfg.Storage))
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := closeNotifier(); err != nil {
		log.Error("notifier close", zap.Error(err))
	}
	closeRepo()
	if err := shutdownTracing(closeCtx); err != nil {
		log.Error("tracing shutdown", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		repo := repository.NewMemoryRepository()
		if err := repo.Seed(ctx, repository.DemoCopies(), repository.DemoAccounts()); err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db.Close, nil
}

func newNotifier(cfg kafka.Config, log *zap.Logger) (service.Notifier, func() error, error) {
	if !cfg.Enabled {
		return notify.NewLog(log), func() error { return nil }, nil
	}
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, nil, err
	}
	k := notify.NewKafka(producer)
	return k, k.Close, nil
}
