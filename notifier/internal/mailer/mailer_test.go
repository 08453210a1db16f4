package mailer

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMailer_Deliver(t *testing.T) {
	t.Parallel()
	m := New(zap.NewNop())

	require.NoError(t, m.Deliver(context.Background(), kafka.Notification{To: "s1@example.com", Subject: "s", Body: "b"}))
	require.ErrorIs(t, m.Deliver(context.Background(), kafka.Notification{Subject: "s"}), ErrNoRecipient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Deliver(ctx, kafka.Notification{To: "s1@example.com"}), context.Canceled)

	require.EqualValues(t, 1, m.Delivered())
}
