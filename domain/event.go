// Package domain 提供事件溯源聚合根基类与仓储抽象
package domain

// IDomainEvent 领域事件接口
//
// 领域事件是类型化的纯数据结构，作为事件信封的 Payload 持久化。
// EventType 返回的名称同时用于事件表的 type 列与投影路由。
type IDomainEvent interface {
	EventType() string
}
