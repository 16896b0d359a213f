package store

import (
	"context"
	"sync"

	"presskit/eventing"
)

// MemoryEventStore 内存事件存储
//
// 用于测试与示例。载荷保持类型化实例，不做序列化。
type MemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]eventing.Event // key: aggregateID
}

// NewMemoryEventStore 创建内存事件存储
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		events: make(map[string][]eventing.Event),
	}
}

// AppendEvents 实现 IEventStore
func (m *MemoryEventStore) AppendEvents(ctx context.Context, aggregateID string, events []eventing.IStorableEvent, expectedVersion uint64) error {
	if len(events) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.events[aggregateID]
	var currentVersion uint64
	if len(current) > 0 {
		currentVersion = current[len(current)-1].Version
	}
	if currentVersion != expectedVersion {
		return eventing.NewConcurrencyError(aggregateID, expectedVersion, currentVersion)
	}

	for i, e := range events {
		if err := e.Validate(); err != nil {
			return eventing.NewInvalidEventErrorWithCause(e.GetID(), e.GetType(), "event validation failed", err)
		}
		expectedEventVersion := expectedVersion + uint64(i) + 1
		if e.GetVersion() != expectedEventVersion {
			return eventing.NewInvalidEventError(e.GetID(), e.GetType(), "event version not sequential")
		}
		ev, ok := e.(*eventing.Event)
		if !ok {
			return eventing.NewInvalidEventError(e.GetID(), e.GetType(), "unsupported event implementation")
		}
		current = append(current, *ev)
	}
	m.events[aggregateID] = current
	return nil
}

// LoadEvents 实现 IEventStore
func (m *MemoryEventStore) LoadEvents(ctx context.Context, aggregateID string, afterVersion uint64) ([]eventing.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.events[aggregateID]
	out := make([]eventing.Event, 0, len(all))
	for _, e := range all {
		if e.Version > afterVersion {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetAggregateVersion 实现 IEventStore
func (m *MemoryEventStore) GetAggregateVersion(ctx context.Context, aggregateID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.events[aggregateID]
	if len(all) == 0 {
		return 0, nil
	}
	return all[len(all)-1].Version, nil
}

// Exists 实现 IEventStore
func (m *MemoryEventStore) Exists(ctx context.Context, aggregateID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events[aggregateID]) > 0, nil
}

var _ IEventStore = (*MemoryEventStore)(nil)
