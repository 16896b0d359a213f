package domain

import (
	"sync"

	"presskit/eventing"
)

// IEventSourcedAggregate 事件溯源聚合根接口
// 状态完全由事件重建，未提交事件由聚合自身持有直至提交
type IEventSourcedAggregate[ID comparable] interface {
	// GetID 聚合唯一标识
	GetID() ID

	// GetVersion 聚合当前版本（已应用事件的数量）
	GetVersion() uint64

	// GetAggregateType 聚合类型标签
	GetAggregateType() eventing.AggregateType

	// ApplyEvent 应用事件到聚合根（修改状态）
	// 重放与新建走同一条路径，实现必须是确定性的
	ApplyEvent(evt eventing.IEvent) error

	// GetUncommittedEvents 获取未提交的事件
	GetUncommittedEvents() []eventing.IEvent

	// MarkEventsAsCommitted 标记事件为已提交
	MarkEventsAsCommitted()
}

// EventSourcedAggregate 事件溯源聚合根基类（泛型实现）
//
// 使用场景:
//   - 状态通过重放事件重建
//   - 支持任意基于 string 的强类型 ID
//   - 并发安全的事件管理
//
// 具体聚合嵌入本类型，并重写 ApplyEvent 用 type switch 分派
// 各自的领域事件，最后调用基类方法推进版本号:
//
//	func (c *Content) ApplyEvent(evt eventing.IEvent) error {
//	    switch e := evt.GetPayload().(type) {
//	    case *ContentWasCreated:
//	        c.title = e.Title
//	    }
//	    return c.EventSourcedAggregate.ApplyEvent(evt)
//	}
type EventSourcedAggregate[ID comparable] struct {
	id                ID
	version           uint64
	uncommittedEvents []eventing.IEvent
	aggregateType     eventing.AggregateType
	mu                sync.RWMutex
}

// NewEventSourcedAggregate 创建事件溯源聚合根基类
func NewEventSourcedAggregate[ID comparable](id ID, aggregateType eventing.AggregateType) *EventSourcedAggregate[ID] {
	return &EventSourcedAggregate[ID]{
		id:                id,
		version:           0,
		uncommittedEvents: make([]eventing.IEvent, 0),
		aggregateType:     aggregateType,
	}
}

// GetID 实现 IEventSourcedAggregate 接口
func (a *EventSourcedAggregate[ID]) GetID() ID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

// GetVersion 实现 IEventSourcedAggregate 接口
func (a *EventSourcedAggregate[ID]) GetVersion() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// GetAggregateType 实现 IEventSourcedAggregate 接口
func (a *EventSourcedAggregate[ID]) GetAggregateType() eventing.AggregateType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.aggregateType
}

// NextVersion 下一个待分配的事件版本号
func (a *EventSourcedAggregate[ID]) NextVersion() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version + 1
}

// GetUncommittedEvents 实现 IEventSourcedAggregate 接口
func (a *EventSourcedAggregate[ID]) GetUncommittedEvents() []eventing.IEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	// 返回副本以保证并发安全
	events := make([]eventing.IEvent, len(a.uncommittedEvents))
	copy(events, a.uncommittedEvents)
	return events
}

// MarkEventsAsCommitted 实现 IEventSourcedAggregate 接口
func (a *EventSourcedAggregate[ID]) MarkEventsAsCommitted() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uncommittedEvents = nil
}

// AddUncommittedEvent 记录一个已应用但未持久化的事件
func (a *EventSourcedAggregate[ID]) AddUncommittedEvent(evt eventing.IEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uncommittedEvents = append(a.uncommittedEvents, evt)
}

// ApplyEvent 实现 IEventSourcedAggregate 接口（子类重写后回调）
//
// 子类在 type switch 处理完具体事件后调用此方法推进版本号。
func (a *EventSourcedAggregate[ID]) ApplyEvent(evt eventing.IEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version++
	return nil
}

// ApplyAndRecord 应用事件并记录为未提交
//
// Go 的嵌入不具备虚分派，基类无法回调子类重写的 ApplyEvent，
// 因此由调用方传入应用函数（通常是聚合自身的 ApplyEvent 方法值）：
//
//	evt := eventing.NewEvent(string(c.GetID()), c.GetAggregateType(), e.EventType(), c.NextVersion(), e)
//	return c.ApplyAndRecord(c.ApplyEvent, evt)
func (a *EventSourcedAggregate[ID]) ApplyAndRecord(apply func(eventing.IEvent) error, evt eventing.IEvent) error {
	if err := apply(evt); err != nil {
		return err
	}
	a.AddUncommittedEvent(evt)
	return nil
}
