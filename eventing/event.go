// Package eventing 定义领域事件信封与事件存储错误模型
package eventing

import (
	"fmt"
	"time"

	"presskit/idgen"
)

// AggregateType 聚合类型标签
//
// 事件信封携带编译期常量而非自由字符串，保证投影路由与
// 事件表中的聚合类型取值一致。
type AggregateType string

const (
	AggregateContent     AggregateType = "content"
	AggregateContentType AggregateType = "content_type"
	AggregateProduct     AggregateType = "product"
	AggregateSite        AggregateType = "site"
	AggregateUser        AggregateType = "user"
)

// Valid 判断聚合类型是否为已知取值
func (t AggregateType) Valid() bool {
	switch t {
	case AggregateContent, AggregateContentType, AggregateProduct, AggregateSite, AggregateUser:
		return true
	}
	return false
}

// IEvent 基础事件接口（用于事件分发/路由）
type IEvent interface {
	// GetID 事件唯一ID
	GetID() string

	// GetType 事件类型名
	GetType() string

	// GetTimestamp 事件发生时间
	GetTimestamp() time.Time

	// GetPayload 事件数据（类型化的领域事件）
	GetPayload() any

	// 聚合信息（用于路由和关联）
	GetAggregateID() string
	GetAggregateType() AggregateType
	GetVersion() uint64
}

// IStorableEvent 扩展事件接口（用于事件持久化）
type IStorableEvent interface {
	IEvent

	GetSchemaVersion() int
	Validate() error
}

// Event 领域事件信封实现
//
// 同时实现了 IEvent 和 IStorableEvent 接口。
// Version 为聚合内单调递增的序列号，由追加时分配。
type Event struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Timestamp     time.Time     `json:"timestamp"`
	Payload       any           `json:"payload"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	AggregateID   string        `json:"aggregate_id"`
	AggregateType AggregateType `json:"aggregate_type"`
	Version       uint64        `json:"version"`
	SchemaVersion int           `json:"schema_version"`
}

func (e *Event) GetID() string                   { return e.ID }
func (e *Event) GetType() string                 { return e.Type }
func (e *Event) GetTimestamp() time.Time         { return e.Timestamp }
func (e *Event) GetPayload() any                 { return e.Payload }
func (e *Event) GetAggregateID() string          { return e.AggregateID }
func (e *Event) GetAggregateType() AggregateType { return e.AggregateType }
func (e *Event) GetVersion() uint64              { return e.Version }

func (e *Event) GetMetadata() map[string]any {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	return e.Metadata
}

func (e *Event) GetSchemaVersion() int {
	if e.SchemaVersion <= 0 {
		return 1
	}
	return e.SchemaVersion
}

func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id cannot be empty")
	}
	if e.AggregateID == "" {
		return fmt.Errorf("aggregate id cannot be empty")
	}
	if !e.AggregateType.Valid() {
		return fmt.Errorf("unknown aggregate type: %q", e.AggregateType)
	}
	if e.Type == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if e.Version == 0 {
		return fmt.Errorf("event version must be greater than 0")
	}
	return nil
}

// NewEvent 创建事件信封
func NewEvent(aggregateID string, aggregateType AggregateType, eventType string, version uint64, payload any) *Event {
	return &Event{
		ID:            idgen.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		Payload:       payload,
		Metadata:      make(map[string]any),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       version,
		SchemaVersion: 1,
	}
}

var _ IStorableEvent = (*Event)(nil)
