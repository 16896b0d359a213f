package projection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/eventing"
)

type recordingProjection struct {
	name   string
	types  []string
	seen   []string
	failOn string
}

func (p *recordingProjection) GetName() string                  { return p.name }
func (p *recordingProjection) GetSupportedEventTypes() []string { return p.types }

func (p *recordingProjection) Handle(ctx context.Context, evt eventing.IEvent) error {
	if evt.GetType() == p.failOn {
		return NewError(p.name, evt, errors.New("boom"))
	}
	p.seen = append(p.seen, evt.GetID())
	return nil
}

func makeEvent(id string, eventType string, version uint64) eventing.IEvent {
	e := eventing.NewEvent("agg-1", eventing.AggregateContent, eventType, version, nil)
	e.ID = id
	return e
}

func TestDispatcher_RoutesByEventType(t *testing.T) {
	d := NewDispatcher()
	p1 := &recordingProjection{name: "p1", types: []string{"Created", "Changed"}}
	p2 := &recordingProjection{name: "p2", types: []string{"Deleted"}}
	require.NoError(t, d.Register(p1))
	require.NoError(t, d.Register(p2))

	events := []eventing.IEvent{
		makeEvent("e1", "Created", 1),
		makeEvent("e2", "Changed", 2),
		makeEvent("e3", "Deleted", 3),
	}
	require.NoError(t, d.Dispatch(context.Background(), events))

	// 事件按记录顺序到达各自的投影
	assert.Equal(t, []string{"e1", "e2"}, p1.seen)
	assert.Equal(t, []string{"e3"}, p2.seen)
}

func TestDispatcher_StopsOnFirstError(t *testing.T) {
	d := NewDispatcher()
	p := &recordingProjection{name: "p", types: []string{"Created", "Changed"}, failOn: "Changed"}
	require.NoError(t, d.Register(p))

	events := []eventing.IEvent{
		makeEvent("e1", "Created", 1),
		makeEvent("e2", "Changed", 2),
		makeEvent("e3", "Created", 3),
	}
	err := d.Dispatch(context.Background(), events)
	require.Error(t, err)

	var projErr *Error
	require.True(t, errors.As(err, &projErr))
	assert.Equal(t, "p", projErr.Projection)
	assert.Equal(t, "e2", projErr.EventID)

	// 失败后中断，后续事件不再分发
	assert.Equal(t, []string{"e1"}, p.seen)
}

func TestDispatcher_UnsubscribedTypeIsIgnored(t *testing.T) {
	d := NewDispatcher()
	p := &recordingProjection{name: "p", types: []string{"Created"}}
	require.NoError(t, d.Register(p))

	require.NoError(t, d.Dispatch(context.Background(), []eventing.IEvent{makeEvent("e1", "Other", 1)}))
	assert.Empty(t, p.seen)
}

func TestDispatcher_RegisterValidation(t *testing.T) {
	d := NewDispatcher()
	assert.Error(t, d.Register(nil))
	assert.Error(t, d.Register(&recordingProjection{name: "empty"}))
	assert.Panics(t, func() { d.MustRegister(nil) })
}
