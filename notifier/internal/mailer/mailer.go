package mailer

import (
	"context"
	"sync/atomic"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("notification has no recipient")

// Mailer is the delivery end of the notification pipeline. Mail transport is out of
// scope, so a delivered message is written to the log.
type Mailer struct {
	log       *zap.Logger
	delivered atomic.Int64
}

func New(log *zap.Logger) *Mailer {
	return &Mailer{log: log.Named("mailer")}
}

func (m *Mailer) Deliver(ctx context.Context, n kafka.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.To == "" {
		return ErrNoRecipient
	}
	m.log.Info("deliver",
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
		zap.Time("sent_at", n.Timestamp))
	m.delivered.Add(1)
	return nil
}

func (m *Mailer) Delivered() int64 {
	return m.delivered.Load()
}
