// Package app 组装写侧流水线：命令 → 聚合 → 事件存储 → 投影 → 失效 → 发布
package app

import (
	"context"

	"presskit/domain"
	"presskit/eventing"
	"presskit/eventing/store"
)

// DomainEventStore 将 eventing/store.IEventStore 适配为领域层事件存储
//
// 载荷的类型化还原由底层存储的注册表完成，本层只做信封搬运
// 与聚合归属校验。
type DomainEventStore struct {
	inner store.IEventStore
}

// NewDomainEventStore 创建领域事件存储适配器
func NewDomainEventStore(inner store.IEventStore) *DomainEventStore {
	return &DomainEventStore{inner: inner}
}

// AppendEvents 实现 domain.IEventStore 接口
func (s *DomainEventStore) AppendEvents(ctx context.Context, aggregateID string, events []eventing.IEvent, expectedVersion uint64) error {
	storable := make([]eventing.IStorableEvent, 0, len(events))
	for _, e := range events {
		se, ok := e.(eventing.IStorableEvent)
		if !ok {
			return eventing.NewInvalidEventError(e.GetID(), e.GetType(), "event is not storable")
		}
		storable = append(storable, se)
	}
	return s.inner.AppendEvents(ctx, aggregateID, storable, expectedVersion)
}

// RestoreAggregate 实现 domain.IEventStore 接口
//
// 聚合不存在时返回 (0, nil)，聚合保持初始状态。
func (s *DomainEventStore) RestoreAggregate(ctx context.Context, aggregateID string, aggregate domain.IEventApplier) (uint64, error) {
	events, err := s.inner.LoadEvents(ctx, aggregateID, 0)
	if err != nil {
		return 0, err
	}

	var version uint64
	for i := range events {
		evt := &events[i]
		if evt.AggregateType != aggregate.GetAggregateType() {
			return 0, eventing.NewInvalidEventError(evt.ID, evt.Type, "event belongs to another aggregate type")
		}
		if err := aggregate.ApplyEvent(evt); err != nil {
			return 0, err
		}
		version = evt.Version
	}
	return version, nil
}

// Exists 实现 domain.IEventStore 接口
func (s *DomainEventStore) Exists(ctx context.Context, aggregateID string) (bool, error) {
	return s.inner.Exists(ctx, aggregateID)
}

// GetAggregateVersion 实现 domain.IEventStore 接口
func (s *DomainEventStore) GetAggregateVersion(ctx context.Context, aggregateID string) (uint64, error) {
	return s.inner.GetAggregateVersion(ctx, aggregateID)
}

var _ domain.IEventStore = (*DomainEventStore)(nil)
