// Package site 实现站点聚合：事件、状态变更、读模型投影与查询
package site

import (
	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
)

// 站点聚合的事件类型名
const (
	EventSiteWasCreated         = "SiteWasCreated"
	EventSiteNameWasChanged     = "SiteNameWasChanged"
	EventSiteSlugWasChanged     = "SiteSlugWasChanged"
	EventSiteDomainWasChanged   = "SiteDomainWasChanged"
	EventSiteMappingWasChanged  = "SiteMappingWasChanged"
	EventSitePathWasChanged     = "SitePathWasChanged"
	EventSiteOwnerWasChanged    = "SiteOwnerWasChanged"
	EventSiteStatusWasChanged   = "SiteStatusWasChanged"
	EventSiteModifiedWasChanged = "SiteModifiedWasChanged"
	EventSiteWasDeleted         = "SiteWasDeleted"
)

// SiteWasCreated 站点创建事件
//
// key 在创建时固定，后续不可变更。
type SiteWasCreated struct {
	ID         string `json:"id"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Domain     string `json:"domain"`
	Mapping    string `json:"mapping"`
	Path       string `json:"path"`
	Owner      string `json:"owner"`
	Status     string `json:"status"`
	Registered string `json:"registered"`
	Modified   string `json:"modified"`
}

// NewSiteWasCreated 由已校验的领域值构造创建事件
func NewSiteWasCreated(id values.SiteID, p CreateParams) *SiteWasCreated {
	return &SiteWasCreated{
		ID:         id.String(),
		Key:        p.Key,
		Name:       p.Name,
		Slug:       p.Slug,
		Domain:     p.Domain,
		Mapping:    p.Mapping,
		Path:       p.Path,
		Owner:      p.Owner.String(),
		Status:     p.Status,
		Registered: p.Registered.String(),
		Modified:   p.Modified.String(),
	}
}

func (e *SiteWasCreated) EventType() string { return EventSiteWasCreated }

// SiteID 反序列化聚合标识
func (e *SiteWasCreated) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// OwnerID 反序列化所有者标识
func (e *SiteWasCreated) OwnerID() (values.UserID, error) {
	if e.Owner == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty owner payload")
	}
	return values.UserID(e.Owner), nil
}

// RegisteredAt 反序列化注册时间
func (e *SiteWasCreated) RegisteredAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Registered)
}

// ModifiedAt 反序列化修改时间
func (e *SiteWasCreated) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// SiteNameWasChanged 名称变更事件
type SiteNameWasChanged struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewSiteNameWasChanged(id values.SiteID, name string) *SiteNameWasChanged {
	return &SiteNameWasChanged{ID: id.String(), Name: name}
}

func (e *SiteNameWasChanged) EventType() string { return EventSiteNameWasChanged }

func (e *SiteNameWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// SiteSlugWasChanged 别名变更事件
type SiteSlugWasChanged struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func NewSiteSlugWasChanged(id values.SiteID, slug string) *SiteSlugWasChanged {
	return &SiteSlugWasChanged{ID: id.String(), Slug: slug}
}

func (e *SiteSlugWasChanged) EventType() string { return EventSiteSlugWasChanged }

func (e *SiteSlugWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// SiteDomainWasChanged 域名变更事件
type SiteDomainWasChanged struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
}

func NewSiteDomainWasChanged(id values.SiteID, domain string) *SiteDomainWasChanged {
	return &SiteDomainWasChanged{ID: id.String(), Domain: domain}
}

func (e *SiteDomainWasChanged) EventType() string { return EventSiteDomainWasChanged }

func (e *SiteDomainWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// SiteMappingWasChanged 域名映射变更事件（可选字段，空值合法）
type SiteMappingWasChanged struct {
	ID      string `json:"id"`
	Mapping string `json:"mapping"`
}

func NewSiteMappingWasChanged(id values.SiteID, mapping string) *SiteMappingWasChanged {
	return &SiteMappingWasChanged{ID: id.String(), Mapping: mapping}
}

func (e *SiteMappingWasChanged) EventType() string { return EventSiteMappingWasChanged }

func (e *SiteMappingWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// SitePathWasChanged 路径变更事件
type SitePathWasChanged struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func NewSitePathWasChanged(id values.SiteID, path string) *SitePathWasChanged {
	return &SitePathWasChanged{ID: id.String(), Path: path}
}

func (e *SitePathWasChanged) EventType() string { return EventSitePathWasChanged }

func (e *SitePathWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// SiteOwnerWasChanged 所有者变更事件
type SiteOwnerWasChanged struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

func NewSiteOwnerWasChanged(id values.SiteID, owner values.UserID) *SiteOwnerWasChanged {
	return &SiteOwnerWasChanged{ID: id.String(), Owner: owner.String()}
}

func (e *SiteOwnerWasChanged) EventType() string { return EventSiteOwnerWasChanged }

func (e *SiteOwnerWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// OwnerID 反序列化所有者标识
func (e *SiteOwnerWasChanged) OwnerID() (values.UserID, error) {
	if e.Owner == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty owner payload")
	}
	return values.UserID(e.Owner), nil
}

// SiteStatusWasChanged 状态变更事件
type SiteStatusWasChanged struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewSiteStatusWasChanged(id values.SiteID, status string) *SiteStatusWasChanged {
	return &SiteStatusWasChanged{ID: id.String(), Status: status}
}

func (e *SiteStatusWasChanged) EventType() string { return EventSiteStatusWasChanged }

func (e *SiteStatusWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// SiteModifiedWasChanged 修改时间变更事件
type SiteModifiedWasChanged struct {
	ID       string `json:"id"`
	Modified string `json:"modified"`
}

func NewSiteModifiedWasChanged(id values.SiteID, modified values.DateTime) *SiteModifiedWasChanged {
	return &SiteModifiedWasChanged{ID: id.String(), Modified: modified.String()}
}

func (e *SiteModifiedWasChanged) EventType() string { return EventSiteModifiedWasChanged }

func (e *SiteModifiedWasChanged) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// ModifiedAt 反序列化修改时间
func (e *SiteModifiedWasChanged) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// SiteWasDeleted 站点删除事件（终态）
type SiteWasDeleted struct {
	ID string `json:"id"`
}

func NewSiteWasDeleted(id values.SiteID) *SiteWasDeleted {
	return &SiteWasDeleted{ID: id.String()}
}

func (e *SiteWasDeleted) EventType() string { return EventSiteWasDeleted }

func (e *SiteWasDeleted) SiteID() (values.SiteID, error) { return parseSiteID(e.ID) }

// RegisterEvents 将站点聚合的全部事件类型注册到反序列化注册表
func RegisterEvents(r *registry.Registry) error {
	factories := map[string]registry.EventFactory{
		EventSiteWasCreated:         func() any { return &SiteWasCreated{} },
		EventSiteNameWasChanged:     func() any { return &SiteNameWasChanged{} },
		EventSiteSlugWasChanged:     func() any { return &SiteSlugWasChanged{} },
		EventSiteDomainWasChanged:   func() any { return &SiteDomainWasChanged{} },
		EventSiteMappingWasChanged:  func() any { return &SiteMappingWasChanged{} },
		EventSitePathWasChanged:     func() any { return &SitePathWasChanged{} },
		EventSiteOwnerWasChanged:    func() any { return &SiteOwnerWasChanged{} },
		EventSiteStatusWasChanged:   func() any { return &SiteStatusWasChanged{} },
		EventSiteModifiedWasChanged: func() any { return &SiteModifiedWasChanged{} },
		EventSiteWasDeleted:         func() any { return &SiteWasDeleted{} },
	}
	for eventType, factory := range factories {
		if err := r.Register(eventType, factory); err != nil {
			return err
		}
	}
	return nil
}

func parseSiteID(s string) (values.SiteID, error) {
	if s == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty site id payload")
	}
	return values.SiteID(s), nil
}
