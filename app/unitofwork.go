package app

import (
	"context"
	"sort"

	"presskit/bus"
	"presskit/cache"
	"presskit/eventing"
	"presskit/eventing/projection"
	"presskit/logging"
)

// IEventProducer 持有未提交事件的对象（聚合根）
type IEventProducer interface {
	GetUncommittedEvents() []eventing.IEvent
}

// SaveFunc 将被跟踪聚合的未提交事件落盘（带期望版本比较）
type SaveFunc func(ctx context.Context) error

type trackedAggregate struct {
	producer IEventProducer
	save     SaveFunc
}

// UnitOfWork 显式提交边界
//
// 命令处理器跟踪其变更的聚合，Commit 对每个聚合依次执行：
// 带期望版本的事件追加 → 按序投影 → 收集缓存命名空间；
// 全部落盘后统一失效缓存并对外发布。投影或发布失败不回滚
// 已追加的事件。
type UnitOfWork struct {
	dispatcher  *projection.Dispatcher
	invalidator cache.IInvalidator
	publisher   bus.IEventPublisher
	namespaces  map[eventing.AggregateType]string
	logger      logging.ILogger

	tracked []trackedAggregate
}

// UnitOfWorkConfig 提交边界的协作方
//
// Invalidator 与 Publisher 可为 nil（跳过对应阶段）；
// Namespaces 将聚合类型映射到缓存失效命名空间。
type UnitOfWorkConfig struct {
	Dispatcher  *projection.Dispatcher
	Invalidator cache.IInvalidator
	Publisher   bus.IEventPublisher
	Namespaces  map[eventing.AggregateType]string
}

// NewUnitOfWork 创建一次提交的工作单元
func NewUnitOfWork(cfg UnitOfWorkConfig) *UnitOfWork {
	return &UnitOfWork{
		dispatcher:  cfg.Dispatcher,
		invalidator: cfg.Invalidator,
		publisher:   cfg.Publisher,
		namespaces:  cfg.Namespaces,
		logger:      logging.ComponentLogger("app.unitofwork"),
	}
}

// Track 跟踪聚合；save 负责带期望版本追加其未提交事件
func (u *UnitOfWork) Track(producer IEventProducer, save SaveFunc) {
	u.tracked = append(u.tracked, trackedAggregate{producer: producer, save: save})
}

// Commit 提交全部被跟踪聚合的未提交事件
func (u *UnitOfWork) Commit(ctx context.Context) error {
	var published []eventing.IEvent
	dirty := make(map[string]struct{})

	for _, t := range u.tracked {
		// 事件在 save 之前捕获：save 成功后聚合即被标记为已提交
		events := t.producer.GetUncommittedEvents()
		if len(events) == 0 {
			continue
		}
		if err := t.save(ctx); err != nil {
			return err
		}
		if u.dispatcher != nil {
			if err := u.dispatcher.Dispatch(ctx, events); err != nil {
				return err
			}
		}
		for _, evt := range events {
			if ns, ok := u.namespaces[evt.GetAggregateType()]; ok {
				dirty[ns] = struct{}{}
			}
		}
		published = append(published, events...)
	}

	if err := u.invalidate(ctx, dirty); err != nil {
		return err
	}
	if u.publisher != nil && len(published) > 0 {
		if err := u.publisher.Publish(ctx, published); err != nil {
			u.logger.Error(ctx, "post-commit publish failed", logging.Error(err))
			return err
		}
	}
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) invalidate(ctx context.Context, dirty map[string]struct{}) error {
	if u.invalidator == nil || len(dirty) == 0 {
		return nil
	}
	namespaces := make([]string, 0, len(dirty))
	for ns := range dirty {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	for _, ns := range namespaces {
		if err := u.invalidator.Invalidate(ctx, ns); err != nil {
			u.logger.Error(ctx, "cache invalidation failed",
				logging.String("namespace", ns),
				logging.Error(err))
			return err
		}
	}
	return nil
}
