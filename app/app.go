package app

import (
	"fmt"

	"presskit/bus"
	"presskit/cache"
	"presskit/cms/content"
	"presskit/cms/contenttype"
	"presskit/cms/product"
	"presskit/cms/site"
	"presskit/cms/user"
	"presskit/cms/values"
	"presskit/domain"
	"presskit/eventing"
	"presskit/eventing/projection"
	"presskit/eventing/registry"
)

// Config 应用装配配置
//
// Invalidator、Publisher 与 Namespaces 可选；Store 与 Dispatcher 必填。
type Config struct {
	Store       domain.IEventStore
	Dispatcher  *projection.Dispatcher
	Invalidator cache.IInvalidator
	Publisher   bus.IEventPublisher
	Namespaces  map[eventing.AggregateType]string
}

// App 写侧应用服务
//
// 持有五个聚合的事件溯源仓储与命令总线，每条命令在独立的
// 工作单元内完成加载、变更与提交。
type App struct {
	cfg Config
	bus *CommandBus

	contentRepo     *domain.EventSourcedRepository[*content.Content, values.ContentID]
	contentTypeRepo *domain.EventSourcedRepository[*contenttype.ContentType, values.ContentTypeID]
	productRepo     *domain.EventSourcedRepository[*product.Product, values.ProductID]
	siteRepo        *domain.EventSourcedRepository[*site.Site, values.SiteID]
	userRepo        *domain.EventSourcedRepository[*user.User, values.UserID]
}

// New 装配应用服务并注册全部命令处理器
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("event store cannot be nil")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("projection dispatcher cannot be nil")
	}

	a := &App{cfg: cfg, bus: NewCommandBus()}

	var err error
	if a.contentRepo, err = domain.NewEventSourcedRepository(eventing.AggregateContent, content.NewContent, cfg.Store); err != nil {
		return nil, err
	}
	if a.contentTypeRepo, err = domain.NewEventSourcedRepository(eventing.AggregateContentType, contenttype.NewContentType, cfg.Store); err != nil {
		return nil, err
	}
	if a.productRepo, err = domain.NewEventSourcedRepository(eventing.AggregateProduct, product.NewProduct, cfg.Store); err != nil {
		return nil, err
	}
	if a.siteRepo, err = domain.NewEventSourcedRepository(eventing.AggregateSite, site.NewSite, cfg.Store); err != nil {
		return nil, err
	}
	if a.userRepo, err = domain.NewEventSourcedRepository(eventing.AggregateUser, user.NewUser, cfg.Store); err != nil {
		return nil, err
	}

	a.registerContentHandlers()
	a.registerContentTypeHandlers()
	a.registerProductHandlers()
	a.registerSiteHandlers()
	a.registerUserHandlers()
	return a, nil
}

// Commands 返回命令总线
func (a *App) Commands() *CommandBus { return a.bus }

func (a *App) newUnitOfWork() *UnitOfWork {
	return NewUnitOfWork(UnitOfWorkConfig{
		Dispatcher:  a.cfg.Dispatcher,
		Invalidator: a.cfg.Invalidator,
		Publisher:   a.cfg.Publisher,
		Namespaces:  a.cfg.Namespaces,
	})
}

// RegisterAllEvents 将全部聚合的事件类型注册到反序列化注册表
func RegisterAllEvents(r *registry.Registry) error {
	registrars := []func(*registry.Registry) error{
		content.RegisterEvents,
		contenttype.RegisterEvents,
		product.RegisterEvents,
		site.RegisterEvents,
		user.RegisterEvents,
	}
	for _, register := range registrars {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}
