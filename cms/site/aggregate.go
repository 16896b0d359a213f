package site

import (
	"presskit/cms/values"
	"presskit/domain"
	"presskit/errors"
	"presskit/eventing"
	"presskit/validation"
)

// CreateParams 创建站点所需的领域值
//
// Registered 为零值时取当前时间，Modified 为零值时取 Registered。
type CreateParams struct {
	Key        string
	Name       string
	Slug       string
	Domain     string
	Mapping    string
	Path       string
	Owner      values.UserID
	Status     string
	Registered values.DateTime
	Modified   values.DateTime
}

// Site 站点聚合
//
// key 与 registered 在创建时固定，其余字段可独立变更。
type Site struct {
	*domain.EventSourcedAggregate[values.SiteID]

	key        string
	name       string
	slug       string
	domain     string
	mapping    string
	path       string
	owner      values.UserID
	status     string
	registered values.DateTime
	modified   values.DateTime
	deleted    bool
}

// NewSite 创建空聚合（用于从事件历史重放）
func NewSite(id values.SiteID) *Site {
	return &Site{
		EventSourcedAggregate: domain.NewEventSourcedAggregate(id, eventing.AggregateSite),
	}
}

// Create 创建站点聚合并记录创建事件
func Create(id values.SiteID, p CreateParams) (*Site, error) {
	if id.IsZero() {
		return nil, errors.NewValidationError("site id cannot be empty")
	}
	if err := validation.ValidateRequired(p.Key, "key"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired(p.Name, "name"); err != nil {
		return nil, err
	}
	if err := validation.ValidateSlug(p.Slug, "slug"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired(p.Domain, "domain"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired(p.Path, "path"); err != nil {
		return nil, err
	}
	if p.Owner.IsZero() {
		return nil, errors.NewValidationError("owner cannot be empty")
	}
	if err := validation.ValidateRequired(p.Status, "status"); err != nil {
		return nil, err
	}
	if p.Registered.IsZero() {
		p.Registered = values.Now()
	}
	if p.Modified.IsZero() {
		p.Modified = p.Registered
	}

	s := NewSite(id)
	if err := s.record(NewSiteWasCreated(id, p)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Site) Key() string                 { return s.key }
func (s *Site) Name() string                { return s.name }
func (s *Site) Slug() string                { return s.slug }
func (s *Site) Domain() string              { return s.domain }
func (s *Site) Mapping() string             { return s.mapping }
func (s *Site) Path() string                { return s.path }
func (s *Site) Owner() values.UserID        { return s.owner }
func (s *Site) Status() string              { return s.status }
func (s *Site) Registered() values.DateTime { return s.registered }
func (s *Site) Modified() values.DateTime   { return s.modified }
func (s *Site) IsDeleted() bool             { return s.deleted }

// ChangeName 变更名称；值未变化时静默返回
func (s *Site) ChangeName(name string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(name, "name"); err != nil {
		return err
	}
	if s.name == name {
		return nil
	}
	return s.record(NewSiteNameWasChanged(s.GetID(), name))
}

// ChangeSlug 变更别名
func (s *Site) ChangeSlug(slug string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateSlug(slug, "slug"); err != nil {
		return err
	}
	if s.slug == slug {
		return nil
	}
	return s.record(NewSiteSlugWasChanged(s.GetID(), slug))
}

// ChangeDomain 变更域名
func (s *Site) ChangeDomain(domain string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(domain, "domain"); err != nil {
		return err
	}
	if s.domain == domain {
		return nil
	}
	return s.record(NewSiteDomainWasChanged(s.GetID(), domain))
}

// ChangeMapping 变更域名映射（可选字段，空值合法）
func (s *Site) ChangeMapping(mapping string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.mapping == mapping {
		return nil
	}
	return s.record(NewSiteMappingWasChanged(s.GetID(), mapping))
}

// ChangePath 变更路径
func (s *Site) ChangePath(path string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(path, "path"); err != nil {
		return err
	}
	if s.path == path {
		return nil
	}
	return s.record(NewSitePathWasChanged(s.GetID(), path))
}

// ChangeOwner 变更所有者
func (s *Site) ChangeOwner(owner values.UserID) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if owner.IsZero() {
		return errors.NewValidationError("owner cannot be empty")
	}
	if s.owner == owner {
		return nil
	}
	return s.record(NewSiteOwnerWasChanged(s.GetID(), owner))
}

// ChangeStatus 变更状态
func (s *Site) ChangeStatus(status string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(status, "status"); err != nil {
		return err
	}
	if s.status == status {
		return nil
	}
	return s.record(NewSiteStatusWasChanged(s.GetID(), status))
}

// ChangeModified 变更修改时间（秒级精度比较）
func (s *Site) ChangeModified(modified values.DateTime) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if modified.IsZero() {
		return errors.NewValidationError("modified cannot be empty")
	}
	if s.modified.Equal(modified) {
		return nil
	}
	return s.record(NewSiteModifiedWasChanged(s.GetID(), modified))
}

// Delete 删除站点；传入的 id 必须与聚合自身一致
func (s *Site) Delete(id values.SiteID) error {
	if id != s.GetID() {
		return errors.NewValidationError("site id mismatch on delete")
	}
	if s.GetVersion() == 0 {
		return errors.NewValidationError("site does not exist")
	}
	if s.deleted {
		return nil
	}
	return s.record(NewSiteWasDeleted(s.GetID()))
}

func (s *Site) ensureMutable() error {
	if s.GetVersion() == 0 {
		return errors.NewValidationError("site does not exist")
	}
	if s.deleted {
		return errors.NewValidationError("site has been deleted")
	}
	return nil
}

func (s *Site) record(e domain.IDomainEvent) error {
	evt := eventing.NewEvent(s.GetID().String(), s.GetAggregateType(), e.EventType(), s.NextVersion(), e)
	return s.ApplyAndRecord(s.ApplyEvent, evt)
}

// ApplyEvent 将事件负载应用到聚合状态
//
// 创建事件的时间字段从载荷字符串解析，保证实时状态与重放状态一致。
func (s *Site) ApplyEvent(evt eventing.IEvent) error {
	switch e := evt.GetPayload().(type) {
	case *SiteWasCreated:
		if err := s.applyCreated(e); err != nil {
			return err
		}
	case *SiteNameWasChanged:
		s.name = e.Name
	case *SiteSlugWasChanged:
		s.slug = e.Slug
	case *SiteDomainWasChanged:
		s.domain = e.Domain
	case *SiteMappingWasChanged:
		s.mapping = e.Mapping
	case *SitePathWasChanged:
		s.path = e.Path
	case *SiteOwnerWasChanged:
		owner, err := e.OwnerID()
		if err != nil {
			return err
		}
		s.owner = owner
	case *SiteStatusWasChanged:
		s.status = e.Status
	case *SiteModifiedWasChanged:
		modified, err := e.ModifiedAt()
		if err != nil {
			return err
		}
		s.modified = modified
	case *SiteWasDeleted:
		s.deleted = true
	}
	return s.EventSourcedAggregate.ApplyEvent(evt)
}

func (s *Site) applyCreated(e *SiteWasCreated) error {
	owner, err := e.OwnerID()
	if err != nil {
		return err
	}
	registered, err := e.RegisteredAt()
	if err != nil {
		return err
	}
	modified, err := e.ModifiedAt()
	if err != nil {
		return err
	}
	s.key = e.Key
	s.name = e.Name
	s.slug = e.Slug
	s.domain = e.Domain
	s.mapping = e.Mapping
	s.path = e.Path
	s.owner = owner
	s.status = e.Status
	s.registered = registered
	s.modified = modified
	s.deleted = false
	return nil
}
