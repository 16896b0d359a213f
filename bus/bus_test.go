package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/eventing"
)

type notePayload struct {
	Body string `json:"body"`
}

func makeEvent(aggregateID string, version uint64) eventing.IEvent {
	return eventing.NewEvent(aggregateID, eventing.AggregateContent, "NoteWasTaken", version, &notePayload{Body: "hi"})
}

func TestMemoryPublisher_DeliversInOrder(t *testing.T) {
	p := NewMemoryPublisher()

	var seen []string
	p.Subscribe(func(ctx context.Context, evt eventing.IEvent) {
		seen = append(seen, evt.GetAggregateID())
	})

	events := []eventing.IEvent{makeEvent("a", 1), makeEvent("a", 2), makeEvent("b", 1)}
	require.NoError(t, p.Publish(context.Background(), events))

	assert.Equal(t, []string{"a", "a", "b"}, seen)
	assert.Len(t, p.Published(), 3)
}

func TestMemoryPublisher_MultipleSubscribers(t *testing.T) {
	p := NewMemoryPublisher()

	var first, second int
	p.Subscribe(func(ctx context.Context, evt eventing.IEvent) { first++ })
	p.Subscribe(func(ctx context.Context, evt eventing.IEvent) { second++ })

	require.NoError(t, p.Publish(context.Background(), []eventing.IEvent{makeEvent("a", 1)}))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestMemoryPublisher_ClosedDropsEvents(t *testing.T) {
	p := NewMemoryPublisher()
	require.NoError(t, p.Close())
	require.NoError(t, p.Publish(context.Background(), []eventing.IEvent{makeEvent("a", 1)}))
	assert.Empty(t, p.Published())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	require.NoError(t, p.Publish(context.Background(), []eventing.IEvent{makeEvent("a", 1)}))
	require.NoError(t, p.Close())
}
