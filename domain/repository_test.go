package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/errors"
	"presskit/eventing"
)

// fakeEventStore 测试用内存事件存储
type fakeEventStore struct {
	streams             map[string][]eventing.IEvent
	lastExpectedVersion uint64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{streams: make(map[string][]eventing.IEvent)}
}

func (s *fakeEventStore) AppendEvents(ctx context.Context, aggregateID string, events []eventing.IEvent, expectedVersion uint64) error {
	s.lastExpectedVersion = expectedVersion
	if uint64(len(s.streams[aggregateID])) != expectedVersion {
		return eventing.NewConcurrencyError(aggregateID, expectedVersion, uint64(len(s.streams[aggregateID])))
	}
	s.streams[aggregateID] = append(s.streams[aggregateID], events...)
	return nil
}

func (s *fakeEventStore) RestoreAggregate(ctx context.Context, aggregateID string, aggregate IEventApplier) (uint64, error) {
	events := s.streams[aggregateID]
	for _, evt := range events {
		if err := aggregate.ApplyEvent(evt); err != nil {
			return 0, err
		}
	}
	return uint64(len(events)), nil
}

func (s *fakeEventStore) Exists(ctx context.Context, aggregateID string) (bool, error) {
	return len(s.streams[aggregateID]) > 0, nil
}

func (s *fakeEventStore) GetAggregateVersion(ctx context.Context, aggregateID string) (uint64, error) {
	return uint64(len(s.streams[aggregateID])), nil
}

var _ IEventStore = (*fakeEventStore)(nil)

func newCounterRepository(t *testing.T, store IEventStore) *EventSourcedRepository[*counter, string] {
	t.Helper()
	repo, err := NewEventSourcedRepository(eventing.AggregateContent, newCounter, store)
	require.NoError(t, err)
	return repo
}

func TestEventSourcedRepository_SaveAndReload(t *testing.T) {
	store := newFakeEventStore()
	repo := newCounterRepository(t, store)
	ctx := context.Background()

	c := newCounter("c-1")
	require.NoError(t, c.Increment(2))
	require.NoError(t, c.Increment(5))
	require.NoError(t, repo.Save(ctx, c))

	// 新建聚合时期望版本为 0
	assert.Equal(t, uint64(0), store.lastExpectedVersion)
	assert.Empty(t, c.GetUncommittedEvents())

	loaded, err := repo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.total)
	assert.Equal(t, uint64(2), loaded.GetVersion())

	// 续写时期望版本为当前已持久化版本
	require.NoError(t, loaded.Increment(1))
	require.NoError(t, repo.Save(ctx, loaded))
	assert.Equal(t, uint64(2), store.lastExpectedVersion)
}

func TestEventSourcedRepository_SaveWithoutEventsIsNoop(t *testing.T) {
	store := newFakeEventStore()
	repo := newCounterRepository(t, store)

	c := newCounter("c-1")
	require.NoError(t, repo.Save(context.Background(), c))
	assert.Empty(t, store.streams["c-1"])
}

func TestEventSourcedRepository_GetByIDNotFound(t *testing.T) {
	store := newFakeEventStore()
	repo := newCounterRepository(t, store)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestEventSourcedRepository_ConcurrencyConflict(t *testing.T) {
	store := newFakeEventStore()
	repo := newCounterRepository(t, store)
	ctx := context.Background()

	c := newCounter("c-1")
	require.NoError(t, c.Increment(1))
	require.NoError(t, repo.Save(ctx, c))

	// 两个并行加载的副本，后保存者冲突
	a, err := repo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, "c-1")
	require.NoError(t, err)

	require.NoError(t, a.Increment(1))
	require.NoError(t, repo.Save(ctx, a))

	require.NoError(t, b.Increment(1))
	err = repo.Save(ctx, b)
	require.Error(t, err)

	var conflict *eventing.ConcurrencyError
	assert.ErrorAs(t, err, &conflict)
	// 冲突保存不清空未提交事件
	assert.Len(t, b.GetUncommittedEvents(), 1)
}

func TestNewEventSourcedRepository_Validation(t *testing.T) {
	store := newFakeEventStore()

	_, err := NewEventSourcedRepository[*counter, string]("bogus", newCounter, store)
	assert.Error(t, err)

	_, err = NewEventSourcedRepository[*counter, string](eventing.AggregateContent, nil, store)
	assert.Error(t, err)

	_, err = NewEventSourcedRepository(eventing.AggregateContent, newCounter, nil)
	assert.Error(t, err)
}
