package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	topics []string
	keys   []string
	events []any
	err    error
}

func (r *recorder) PublishEvent(ctx context.Context, topic, key string, event any) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	r.topics = append(r.topics, topic)
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return r.err
}

func TestPublish_AddsDeadlineAndSurvivesCancelledParent(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	Publish(ctx, rec, TopicOrder, "o-1", New("order_created", map[string]any{"order_id": "o-1"}))

	require.Len(t, rec.events, 1)
	assert.Equal(t, TopicOrder, rec.topics[0])
	assert.Equal(t, "o-1", rec.keys[0])
	ev, ok := rec.events[0].(Event)
	require.True(t, ok)
	assert.Equal(t, "order_created", ev.Type)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestPublish_FailureIsSwallowed(t *testing.T) {
	t.Parallel()

	rec := &recorder{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Publish(context.Background(), rec, TopicUser, "u", New("user_registered", nil))
	})
	Publish(context.Background(), nil, TopicUser, "u", New("user_registered", nil))
	assert.NoError(t, NopPublisher{}.PublishEvent(context.Background(), TopicUser, "u", nil))
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	assert.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
