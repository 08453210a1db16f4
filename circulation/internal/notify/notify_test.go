package notify

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafka_Send(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		require.Equal(t, kafka.NotificationTopic, msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		require.Equal(t, "s1@example.com", string(key))

		val, err := msg.Value.Encode()
		require.NoError(t, err)
		var n kafka.Notification
		require.NoError(t, json.Unmarshal(val, &n))
		require.Equal(t, kafka.Notification{
			To:        "s1@example.com",
			Subject:   "Return receipt",
			Body:      "Copy B-0001 was returned.",
			Timestamp: ts,
		}, n)
		return nil
	})

	k := NewKafka(producer)
	k.now = func() time.Time { return ts }
	require.NoError(t, k.Send(context.Background(), "s1@example.com", "Return receipt", "Copy B-0001 was returned."))
	require.NoError(t, k.Close())
}

func TestKafka_SendOpensBreaker(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafka(producer)
	k.cb = circuit_breaker.New(1, time.Hour, 1, 1)

	err := k.Send(context.Background(), "s1@example.com", "subject", "body")
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	// the producer is not touched again while the breaker is open
	err = k.Send(context.Background(), "s1@example.com", "subject", "body")
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.NoError(t, k.Close())
}

func TestKafka_SendCancelled(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	k := NewKafka(producer)
	require.ErrorIs(t, k.Send(ctx, "s1@example.com", "subject", "body"), context.Canceled)
	require.NoError(t, k.Close())
}

func TestLog_Send(t *testing.T) {
	t.Parallel()
	l := NewLog(zap.NewNop())
	require.NoError(t, l.Send(context.Background(), "s1@example.com", "subject", "body"))
}
