// Package store 定义事件存储接口与内存实现
package store

import (
	"context"

	"presskit/eventing"
)

// IEventStore 定义事件存储的核心接口（最小化设计）
//
// 事件存储是事件溯源架构的核心组件，负责持久化和检索领域事件。
//
// 核心约束：
//   - 同一聚合的事件按版本号严格有序，版本号由追加方分配、连续递增；
//   - AppendEvents 使用乐观锁（expectedVersion）防止并发丢失更新；
//   - 重复追加相同事件应被幂等忽略。
type IEventStore interface {
	// AppendEvents 追加事件到指定聚合的事件流
	//
	// expectedVersion 表示当前持久化事件流的"上一次已提交版本号"，
	// 0 表示新聚合。实现必须与存储中的当前版本做精确比较：
	// 不匹配时返回 ConcurrencyError，调用方应重试整个命令。
	AppendEvents(ctx context.Context, aggregateID string, events []eventing.IStorableEvent, expectedVersion uint64) error

	// LoadEvents 加载聚合的事件历史
	//
	// afterVersion 为起始版本号（不包含该版本），0 表示从头加载。
	// 返回的事件按版本号升序排列。
	LoadEvents(ctx context.Context, aggregateID string, afterVersion uint64) ([]eventing.Event, error)

	// GetAggregateVersion 获取聚合的当前版本号，0 表示聚合不存在
	GetAggregateVersion(ctx context.Context, aggregateID string) (uint64, error)

	// Exists 检查指定聚合是否存在
	Exists(ctx context.Context, aggregateID string) (bool, error)
}
