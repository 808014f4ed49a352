package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent []order.Placed
	err  error
}

func (s *stubSender) SendOrderConfirmation(e order.Placed) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, e)
	return nil
}

func placedMessage(t *testing.T, placed order.Placed) []byte {
	t.Helper()
	env, err := event.Wrap(order.EventOrderPlaced, placed)
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return data
}

func TestHandleEvent_SendsConfirmation(t *testing.T) {
	sender := &stubSender{}
	h := NewHandler(sender)

	msg := placedMessage(t, order.Placed{
		OrderID:       "o1",
		UserID:        "u1",
		CustomerEmail: "jane@example.com",
		TotalPrice:    2000,
		PlacedAt:      time.Now(),
	})

	require.NoError(t, h.HandleEvent(context.Background(), []byte("o1"), msg))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@example.com", sender.sent[0].CustomerEmail)
}

func TestHandleEvent_IgnoresOtherEventTypes(t *testing.T) {
	sender := &stubSender{}
	h := NewHandler(sender)

	env, err := event.Wrap("SomethingElse", map[string]string{"k": "v"})
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), nil, data))
	assert.Empty(t, sender.sent)
}

func TestHandleEvent_SkipsMissingEmail(t *testing.T) {
	sender := &stubSender{}
	h := NewHandler(sender)

	msg := placedMessage(t, order.Placed{OrderID: "o1"})

	require.NoError(t, h.HandleEvent(context.Background(), nil, msg))
	assert.Empty(t, sender.sent)
}

func TestHandleEvent_PropagatesSendFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	h := NewHandler(sender)

	msg := placedMessage(t, order.Placed{OrderID: "o1", CustomerEmail: "jane@example.com"})

	assert.Error(t, h.HandleEvent(context.Background(), nil, msg))
}

func TestHandleEvent_BadPayload(t *testing.T) {
	h := NewHandler(&stubSender{})

	assert.Error(t, h.HandleEvent(context.Background(), nil, []byte("not json")))
}
