package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financebot/internal/models"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
	closed   bool
}

func (c *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return c.err
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	event := NewEvent(ActionCreated, 3, models.EntryRef{Kind: models.EntryKindExpense, ID: 7}, 12.5, at)

	assert.Equal(t, "expense.created", event.Type)
	assert.Equal(t, "expense.created", event.RoutingKey())
	assert.Equal(t, "expense_7", event.EntryID)
	assert.Equal(t, models.EntryKindExpense, event.Kind)

	body, err := event.ToJSON()
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "expense_7", decoded["entryId"])
	assert.Equal(t, 12.5, decoded["amount"])
	assert.EqualValues(t, 3, decoded["userId"])
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &recordingChannel{}
	fixed := time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)
	p := &AMQPPublisher{channel: ch, exchange: "ledger", now: func() time.Time { return fixed }}

	event := NewEvent(ActionDeleted, 1, models.EntryRef{Kind: models.EntryKindIncome, ID: 4}, 100, fixed)
	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, "ledger", ch.exchange)
	assert.Equal(t, "income.deleted", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, fixed, ch.msg.Timestamp)
	assert.Contains(t, string(ch.msg.Body), `"entryId":"income_4"`)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &recordingChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{channel: ch, exchange: "ledger", now: time.Now}

	err := p.Publish(context.Background(), Event{Type: "expense.created"})
	assert.ErrorContains(t, err, "channel closed")
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &recordingChannel{}
	p := &AMQPPublisher{channel: ch}
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNewPublisher_NoURL(t *testing.T) {
	p, err := NewPublisher("", "ledger")
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
