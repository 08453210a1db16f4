package handler_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Astemirdum/library-circulation/notifier/internal/handler"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	var delivered []kafka.Notification
	c := handler.NewConsumer(func(_ context.Context, n kafka.Notification) error {
		delivered = append(delivered, n)
		return nil
	}, zap.NewNop())

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte(`{"to":"s1@example.com","subject":"Return receipt","body":"ok"}`)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: []byte(`{not json`)}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, c.ConsumeClaim(session, claim))

	require.Equal(t, []kafka.Notification{{To: "s1@example.com", Subject: "Return receipt", Body: "ok"}}, delivered)
	require.Equal(t, []int64{1, 2}, session.marked)
}

func TestConsumer_ConsumeClaimStopsOnFailedDelivery(t *testing.T) {
	t.Parallel()
	errDown := errors.New("mailbox unavailable")
	var delivered []string
	c := handler.NewConsumer(func(_ context.Context, n kafka.Notification) error {
		if n.To == "down@example.com" {
			return errDown
		}
		delivered = append(delivered, n.To)
		return nil
	}, zap.NewNop())

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte(`{"to":"s1@example.com","subject":"a","body":"b"}`)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: []byte(`{"to":"down@example.com","subject":"x","body":"y"}`)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 3, Value: []byte(`{"to":"s2@example.com","subject":"c","body":"d"}`)}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.ErrorIs(t, c.ConsumeClaim(session, claim), errDown)

	require.Equal(t, []string{"s1@example.com"}, delivered)
	require.Equal(t, []int64{1}, session.marked)
}

func TestConsumer_ConsumeClaimStopsOnCancel(t *testing.T) {
	t.Parallel()
	c := handler.NewConsumer(func(context.Context, kafka.Notification) error { return nil }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session := &fakeSession{ctx: ctx}
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}

	require.NoError(t, c.ConsumeClaim(session, claim))
	require.Empty(t, session.marked)
}
