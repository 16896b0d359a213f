package domain

import (
	"context"

	"presskit/eventing"
)

// IEventApplier 可从事件流恢复状态的对象
type IEventApplier interface {
	// GetAggregateType 聚合类型标签（用于校验事件归属）
	GetAggregateType() eventing.AggregateType

	// ApplyEvent 应用单个历史事件
	ApplyEvent(evt eventing.IEvent) error
}

// IEventStore 领域层的事件存储抽象。
//
// 该接口以事件信封为中心，不关心具体存储实现，
// 由上层通过适配器对接 eventing/store.IEventStore 与事件注册表。
type IEventStore interface {
	// AppendEvents 追加事件到聚合的事件流中。
	// expectedVersion 为追加前的聚合版本，版本不匹配时返回并发冲突错误。
	AppendEvents(ctx context.Context, aggregateID string, events []eventing.IEvent, expectedVersion uint64) error

	// RestoreAggregate 重放事件流恢复聚合状态。
	// 返回当前聚合版本号；聚合不存在时返回 (0, nil) 并保持聚合为初始状态。
	RestoreAggregate(ctx context.Context, aggregateID string, aggregate IEventApplier) (uint64, error)

	// Exists 检查聚合是否存在。
	Exists(ctx context.Context, aggregateID string) (bool, error)

	// GetAggregateVersion 获取聚合当前版本。
	// 若聚合不存在，应返回 (0, nil)。
	GetAggregateVersion(ctx context.Context, aggregateID string) (uint64, error)
}
