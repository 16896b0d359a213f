package projection

import (
	"context"
	"fmt"
	"sync"

	"presskit/eventing"
	"presskit/logging"
)

// Dispatcher 同步投影分发器
//
// 命令提交路径上的一环：事件持久化成功后，按记录顺序将事件逐个
// 分发给订阅了该事件类型的投影。任何投影失败立即中断并向上传播，
// 由调用方决定重试（重试是安全的：聚合的幂等空操作语义保证重放
// 同一命令不会产生新事件）。
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]IProjection
	logger   logging.ILogger
}

// NewDispatcher 创建分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]IProjection),
		logger:   logging.ComponentLogger("eventing.projection.dispatcher"),
	}
}

// Register 注册投影，按其声明的事件类型建立路由
func (d *Dispatcher) Register(p IProjection) error {
	if p == nil {
		return fmt.Errorf("projection cannot be nil")
	}
	types := p.GetSupportedEventTypes()
	if len(types) == 0 {
		return fmt.Errorf("projection %s subscribes no event types", p.GetName())
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range types {
		d.handlers[t] = append(d.handlers[t], p)
	}
	return nil
}

// MustRegister 注册投影（失败 panic）
func (d *Dispatcher) MustRegister(p IProjection) {
	if err := d.Register(p); err != nil {
		panic(err)
	}
}

// Dispatch 按顺序分发一批事件
func (d *Dispatcher) Dispatch(ctx context.Context, events []eventing.IEvent) error {
	for _, evt := range events {
		if err := d.dispatchOne(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, evt eventing.IEvent) error {
	d.mu.RLock()
	projections := d.handlers[evt.GetType()]
	d.mu.RUnlock()

	for _, p := range projections {
		if err := p.Handle(ctx, evt); err != nil {
			d.logger.Error(ctx, "projection handle failed",
				logging.String("projection", p.GetName()),
				logging.String("event_id", evt.GetID()),
				logging.String("event_type", evt.GetType()),
				logging.Error(err))
			return err
		}
	}
	return nil
}
