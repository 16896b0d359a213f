package domain

import (
	"context"
	"fmt"

	"presskit/errors"
	"presskit/eventing"
)

// IEventSourcedRepository 事件溯源仓储接口
// 保存事件而非状态，读取时通过重放事件重建聚合
type IEventSourcedRepository[T IEventSourcedAggregate[ID], ID ~string] interface {
	// Save 保存聚合的未提交事件。
	Save(ctx context.Context, aggregate T) error

	// GetByID 通过 ID 获取聚合。
	// 聚合不存在时返回 NOT_FOUND 错误。
	GetByID(ctx context.Context, id ID) (T, error)

	// Exists 检查聚合是否存在。
	Exists(ctx context.Context, id ID) (bool, error)

	// GetAggregateVersion 获取聚合的当前版本号。
	// 若聚合不存在，应返回 (0, nil)。
	GetAggregateVersion(ctx context.Context, id ID) (uint64, error)
}

// EventSourcedRepository 领域层默认事件溯源仓储实现。
//
// 该实现仅依赖领域抽象：
//   - IEventSourcedAggregate[ID]：聚合根；
//   - IEventStore：领域事件存储接口。
//
// 具体的事件持久化、注册表反序列化等能力由上层适配器提供。
type EventSourcedRepository[T IEventSourcedAggregate[ID], ID ~string] struct {
	aggregateType eventing.AggregateType
	factory       func(id ID) T
	store         IEventStore
}

// NewEventSourcedRepository 创建领域层默认事件溯源仓储。
func NewEventSourcedRepository[T IEventSourcedAggregate[ID], ID ~string](
	aggregateType eventing.AggregateType,
	factory func(id ID) T,
	store IEventStore,
) (*EventSourcedRepository[T, ID], error) {
	if !aggregateType.Valid() {
		return nil, fmt.Errorf("unknown aggregate type: %q", aggregateType)
	}
	if factory == nil {
		return nil, fmt.Errorf("aggregate factory cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("event store cannot be nil")
	}
	return &EventSourcedRepository[T, ID]{
		aggregateType: aggregateType,
		factory:       factory,
		store:         store,
	}, nil
}

// Save 保存聚合的未提交事件。
//
// 期望版本由当前版本减去未提交事件数推得，提交时由事件存储
// 做比较后追加，版本不匹配即返回并发冲突。
func (r *EventSourcedRepository[T, ID]) Save(ctx context.Context, aggregate T) error {
	events := aggregate.GetUncommittedEvents()
	if len(events) == 0 {
		return nil
	}

	currentVersion := aggregate.GetVersion()
	var expectedVersion uint64
	if currentVersion >= uint64(len(events)) {
		expectedVersion = currentVersion - uint64(len(events))
	}

	if err := r.store.AppendEvents(ctx, string(aggregate.GetID()), events, expectedVersion); err != nil {
		return err
	}

	aggregate.MarkEventsAsCommitted()
	return nil
}

// GetByID 根据 ID 加载聚合（通过重放事件流恢复）。
func (r *EventSourcedRepository[T, ID]) GetByID(ctx context.Context, id ID) (T, error) {
	aggregate := r.factory(id)
	version, err := r.store.RestoreAggregate(ctx, string(id), aggregate)
	if err != nil {
		return aggregate, err
	}
	if version == 0 {
		return aggregate, errors.NewNotFoundError(fmt.Sprintf("%s %s not found", r.aggregateType, id))
	}
	return aggregate, nil
}

// Exists 检查聚合是否存在。
func (r *EventSourcedRepository[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	return r.store.Exists(ctx, string(id))
}

// GetAggregateVersion 获取聚合当前版本。
func (r *EventSourcedRepository[T, ID]) GetAggregateVersion(ctx context.Context, id ID) (uint64, error) {
	return r.store.GetAggregateVersion(ctx, string(id))
}
