package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"presskit/eventing"
	"presskit/eventing/registry"
	"presskit/storage/database"
	basicdb "presskit/storage/database/basic"
)

type testPayload struct {
	Value int `json:"value"`
}

// 测试辅助：创建内存数据库与事件存储
func setupStore(t *testing.T) *SQLEventStore {
	t.Helper()
	db, err := basicdb.New(database.DBConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reg := registry.NewRegistry()
	reg.MustRegister("TestEvent", func() any { return &testPayload{} })

	store := NewSQLEventStore(db, "domain_events", reg)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func makeEvent(aggregateID string, version uint64, value int) *eventing.Event {
	return eventing.NewEvent(aggregateID, eventing.AggregateContent, "TestEvent", version, &testPayload{Value: value})
}

func toStorable(events ...*eventing.Event) []eventing.IStorableEvent {
	out := make([]eventing.IStorableEvent, len(events))
	for i, e := range events {
		out[i] = e
	}
	return out
}

func TestSQLEventStore_AppendAndLoad(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.AppendEvents(ctx, "agg-1", toStorable(
		makeEvent("agg-1", 1, 100),
		makeEvent("agg-1", 2, 200),
	), 0)
	require.NoError(t, err)

	loaded, err := store.LoadEvents(ctx, "agg-1", 0)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// 顺序保证
	assert.Equal(t, uint64(1), loaded[0].Version)
	assert.Equal(t, uint64(2), loaded[1].Version)

	// 载荷通过注册表还原为类型化事件
	p0, ok := loaded[0].Payload.(*testPayload)
	require.True(t, ok)
	assert.Equal(t, 100, p0.Value)
	p1 := loaded[1].Payload.(*testPayload)
	assert.Equal(t, 200, p1.Value)
}

func TestSQLEventStore_VersionConflict(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendEvents(ctx, "agg-1", toStorable(makeEvent("agg-1", 1, 1)), 0))

	err := store.AppendEvents(ctx, "agg-1", toStorable(makeEvent("agg-1", 2, 2)), 0)
	var conflict *eventing.ConcurrencyError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, uint64(1), conflict.ActualVersion)
}

func TestSQLEventStore_IdempotentReappend(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	evt := makeEvent("agg-1", 1, 1)
	require.NoError(t, store.AppendEvents(ctx, "agg-1", toStorable(evt), 0))

	// 同一事件重放：当前版本已推进，乐观锁先行拒绝
	err := store.AppendEvents(ctx, "agg-1", toStorable(evt), 0)
	var conflict *eventing.ConcurrencyError
	require.True(t, errors.As(err, &conflict))
}

func TestSQLEventStore_MismatchedAggregateID(t *testing.T) {
	store := setupStore(t)
	err := store.AppendEvents(context.Background(), "agg-1", toStorable(makeEvent("other", 1, 1)), 0)
	assert.Error(t, err)
}

func TestSQLEventStore_NonSequentialVersion(t *testing.T) {
	store := setupStore(t)
	err := store.AppendEvents(context.Background(), "agg-1", toStorable(makeEvent("agg-1", 3, 1)), 0)
	assert.Error(t, err)
}

func TestSQLEventStore_VersionAndExists(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	version, err := store.GetAggregateVersion(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), version)

	exists, err := store.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.AppendEvents(ctx, "agg-1", toStorable(makeEvent("agg-1", 1, 1)), 0))

	version, err = store.GetAggregateVersion(ctx, "agg-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
}

func TestSQLEventStore_IncrementalLoad(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendEvents(ctx, "agg-1", toStorable(
		makeEvent("agg-1", 1, 1),
		makeEvent("agg-1", 2, 2),
		makeEvent("agg-1", 3, 3),
	), 0))

	loaded, err := store.LoadEvents(ctx, "agg-1", 2)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, uint64(3), loaded[0].Version)
}
