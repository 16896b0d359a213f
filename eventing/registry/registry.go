// Package registry 提供事件类型注册表，用于事件载荷的反序列化
package registry

import (
	"encoding/json"
	"fmt"
	"sync"
)

// EventFactory 事件工厂函数，返回事件载荷的零值实例（指针）
type EventFactory func() any

// Registry 事件注册表
//
// 事件从存储读出时，载荷只剩 JSON 字节；注册表根据事件类型名
// 重建类型化的领域事件实例。
type Registry struct {
	factories map[string]EventFactory
	mutex     sync.RWMutex
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register 注册事件类型
func (r *Registry) Register(eventType string, factory EventFactory) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("event factory cannot be nil for type %s", eventType)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.factories[eventType]; exists {
		return fmt.Errorf("event type already registered: %s", eventType)
	}
	if factory() == nil {
		return fmt.Errorf("event factory returned nil for type %s", eventType)
	}
	r.factories[eventType] = factory
	return nil
}

// MustRegister 注册事件类型（失败 panic）
func (r *Registry) MustRegister(eventType string, factory EventFactory) {
	if err := r.Register(eventType, factory); err != nil {
		panic(err)
	}
}

// IsRegistered 判断事件类型是否已注册
func (r *Registry) IsRegistered(eventType string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.factories[eventType]
	return ok
}

// Types 返回所有已注册的事件类型名
func (r *Registry) Types() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}

// Deserialize 根据事件类型名反序列化事件载荷
func (r *Registry) Deserialize(eventType string, data []byte) (any, error) {
	r.mutex.RLock()
	factory, exists := r.factories[eventType]
	r.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	instance := factory()
	if err := json.Unmarshal(data, instance); err != nil {
		return nil, fmt.Errorf("deserialize event %s failed: %w", eventType, err)
	}
	return instance, nil
}
