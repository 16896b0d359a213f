package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/eventing"
)

type counterIncremented struct {
	By int `json:"by"`
}

func (e *counterIncremented) EventType() string { return "CounterIncremented" }

// counter 测试用最小聚合
type counter struct {
	*EventSourcedAggregate[string]
	total int
}

func newCounter(id string) *counter {
	return &counter{EventSourcedAggregate: NewEventSourcedAggregate(id, eventing.AggregateContent)}
}

func (c *counter) ApplyEvent(evt eventing.IEvent) error {
	switch e := evt.GetPayload().(type) {
	case *counterIncremented:
		c.total += e.By
	}
	return c.EventSourcedAggregate.ApplyEvent(evt)
}

func (c *counter) Increment(by int) error {
	e := &counterIncremented{By: by}
	evt := eventing.NewEvent(c.GetID(), c.GetAggregateType(), e.EventType(), c.NextVersion(), e)
	return c.ApplyAndRecord(c.ApplyEvent, evt)
}

func TestEventSourcedAggregate_ApplyAndRecord(t *testing.T) {
	c := newCounter("c-1")
	require.NoError(t, c.Increment(2))
	require.NoError(t, c.Increment(3))

	assert.Equal(t, 5, c.total)
	assert.Equal(t, uint64(2), c.GetVersion())

	events := c.GetUncommittedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].GetVersion())
	assert.Equal(t, uint64(2), events[1].GetVersion())
	assert.Equal(t, "c-1", events[0].GetAggregateID())
	assert.Equal(t, "CounterIncremented", events[0].GetType())
}

func TestEventSourcedAggregate_MarkEventsAsCommitted(t *testing.T) {
	c := newCounter("c-1")
	require.NoError(t, c.Increment(1))
	require.Len(t, c.GetUncommittedEvents(), 1)

	c.MarkEventsAsCommitted()
	assert.Empty(t, c.GetUncommittedEvents())
	// 状态与版本不受提交影响
	assert.Equal(t, 1, c.total)
	assert.Equal(t, uint64(1), c.GetVersion())
}

func TestEventSourcedAggregate_ReplayIsDeterministic(t *testing.T) {
	source := newCounter("c-1")
	require.NoError(t, source.Increment(4))
	require.NoError(t, source.Increment(6))
	history := source.GetUncommittedEvents()

	replayed := newCounter("c-1")
	for _, evt := range history {
		require.NoError(t, replayed.ApplyEvent(evt))
	}

	assert.Equal(t, source.total, replayed.total)
	assert.Equal(t, source.GetVersion(), replayed.GetVersion())
	// 重放不产生新的未提交事件
	assert.Empty(t, replayed.GetUncommittedEvents())
}

func TestEventSourcedAggregate_UncommittedEventsCopy(t *testing.T) {
	c := newCounter("c-1")
	require.NoError(t, c.Increment(1))

	events := c.GetUncommittedEvents()
	events[0] = nil
	assert.NotNil(t, c.GetUncommittedEvents()[0])
}
