// Package bus 在提交边界之后向外发布已提交的领域事件
package bus

import (
	"context"
	"sync"

	"presskit/eventing"
)

// IEventPublisher 事件发布器
//
// 发布发生在提交边界之后：事件已经落盘并完成投影，
// 发布失败不回滚写侧状态。
type IEventPublisher interface {
	Publish(ctx context.Context, events []eventing.IEvent) error
	Close() error
}

// SubscribeFunc 进程内事件订阅回调
type SubscribeFunc func(ctx context.Context, evt eventing.IEvent)

// MemoryPublisher 进程内事件发布器
//
// 按订阅注册顺序同步回调，用于测试与单进程部署。
type MemoryPublisher struct {
	mu        sync.RWMutex
	subs      []SubscribeFunc
	published []eventing.IEvent
	closed    bool
}

// NewMemoryPublisher 创建进程内发布器
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Subscribe 注册订阅回调
func (p *MemoryPublisher) Subscribe(fn SubscribeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Publish 实现 IEventPublisher 接口
func (p *MemoryPublisher) Publish(ctx context.Context, events []eventing.IEvent) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.published = append(p.published, events...)
	subs := make([]SubscribeFunc, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, evt := range events {
		for _, fn := range subs {
			fn(ctx, evt)
		}
	}
	return nil
}

// Published 返回已发布事件的副本
func (p *MemoryPublisher) Published() []eventing.IEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]eventing.IEvent, len(p.published))
	copy(out, p.published)
	return out
}

// Close 实现 IEventPublisher 接口
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// NoopPublisher 丢弃全部事件的发布器
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, events []eventing.IEvent) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }

var (
	_ IEventPublisher = (*MemoryPublisher)(nil)
	_ IEventPublisher = NoopPublisher{}
)
