// Package content 实现内容聚合：事件、状态变更、读模型投影与查询
package content

import (
	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
)

// 内容聚合的事件类型名
const (
	EventContentWasCreated              = "ContentWasCreated"
	EventContentTitleWasChanged         = "ContentTitleWasChanged"
	EventContentSlugWasChanged          = "ContentSlugWasChanged"
	EventContentBodyWasChanged          = "ContentBodyWasChanged"
	EventContentAuthorWasChanged        = "ContentAuthorWasChanged"
	EventContentTypeWasChanged          = "ContentTypeWasChanged"
	EventContentParentWasChanged        = "ContentParentWasChanged"
	EventContentParentWasRemoved        = "ContentParentWasRemoved"
	EventContentSidebarWasChanged       = "ContentSidebarWasChanged"
	EventContentShowInMenuWasChanged    = "ContentShowInMenuWasChanged"
	EventContentShowInSearchWasChanged  = "ContentShowInSearchWasChanged"
	EventContentFeaturedImageWasChanged = "ContentFeaturedImageWasChanged"
	EventContentStatusWasChanged        = "ContentStatusWasChanged"
	EventContentPublishedWasChanged     = "ContentPublishedWasChanged"
	EventContentModifiedWasChanged      = "ContentModifiedWasChanged"
	EventContentMetaWasChanged          = "ContentMetaWasChanged"
	EventContentWasDeleted              = "ContentWasDeleted"
)

// ContentWasCreated 内容创建事件
//
// 负载字段均为原生类型；时间戳按 values.DateTimeLayout 序列化，
// 可空引用序列化为显式 null。
type ContentWasCreated struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Body          string            `json:"body"`
	Author        string            `json:"author"`
	Type          string            `json:"type"`
	Parent        *string           `json:"parent"`
	Sidebar       int               `json:"sidebar"`
	ShowInMenu    int               `json:"show_in_menu"`
	ShowInSearch  int               `json:"show_in_search"`
	FeaturedImage string            `json:"featured_image"`
	Status        string            `json:"status"`
	Created       string            `json:"created"`
	CreatedGMT    string            `json:"created_gmt"`
	Published     string            `json:"published"`
	PublishedGMT  string            `json:"published_gmt"`
	Modified      string            `json:"modified"`
	ModifiedGMT   string            `json:"modified_gmt"`
	Meta          map[string]string `json:"meta,omitempty"`
}

// NewContentWasCreated 由已校验的领域值构造创建事件
func NewContentWasCreated(id values.ContentID, p CreateParams) *ContentWasCreated {
	e := &ContentWasCreated{
		ID:            id.String(),
		Title:         p.Title,
		Slug:          p.Slug,
		Body:          p.Body,
		Author:        p.Author.String(),
		Type:          p.Type,
		Sidebar:       p.Sidebar.Int(),
		ShowInMenu:    p.ShowInMenu.Int(),
		ShowInSearch:  p.ShowInSearch.Int(),
		FeaturedImage: p.FeaturedImage,
		Status:        p.Status,
		Created:       p.Created.String(),
		CreatedGMT:    p.Created.GMT().String(),
		Published:     p.Published.String(),
		PublishedGMT:  p.Published.GMT().String(),
		Modified:      p.Modified.String(),
		ModifiedGMT:   p.Modified.GMT().String(),
		Meta:          copyMeta(p.Meta),
	}
	if p.Parent != nil {
		s := p.Parent.String()
		e.Parent = &s
	}
	return e
}

func (e *ContentWasCreated) EventType() string { return EventContentWasCreated }

// ContentID 反序列化聚合标识
func (e *ContentWasCreated) ContentID() (values.ContentID, error) {
	return parseContentID(e.ID)
}

// ParentID 反序列化可空的父级标识；负载为 null 时返回 nil
func (e *ContentWasCreated) ParentID() (*values.ContentID, error) {
	return parseOptionalContentID(e.Parent)
}

// AuthorID 反序列化作者标识
func (e *ContentWasCreated) AuthorID() (values.UserID, error) {
	if e.Author == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty author payload")
	}
	return values.UserID(e.Author), nil
}

// CreatedAt 反序列化创建时间
func (e *ContentWasCreated) CreatedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Created)
}

// PublishedAt 反序列化发布时间
func (e *ContentWasCreated) PublishedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Published)
}

// ModifiedAt 反序列化修改时间
func (e *ContentWasCreated) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// SidebarFlag 反序列化侧边栏标记
func (e *ContentWasCreated) SidebarFlag() (values.IntFlag, error) {
	return values.ParseIntFlag(e.Sidebar)
}

// ShowInMenuFlag 反序列化菜单可见标记
func (e *ContentWasCreated) ShowInMenuFlag() (values.IntFlag, error) {
	return values.ParseIntFlag(e.ShowInMenu)
}

// ShowInSearchFlag 反序列化搜索可见标记
func (e *ContentWasCreated) ShowInSearchFlag() (values.IntFlag, error) {
	return values.ParseIntFlag(e.ShowInSearch)
}

// ContentTitleWasChanged 标题变更事件
type ContentTitleWasChanged struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func NewContentTitleWasChanged(id values.ContentID, title string) *ContentTitleWasChanged {
	return &ContentTitleWasChanged{ID: id.String(), Title: title}
}

func (e *ContentTitleWasChanged) EventType() string { return EventContentTitleWasChanged }

func (e *ContentTitleWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentSlugWasChanged 别名变更事件
type ContentSlugWasChanged struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func NewContentSlugWasChanged(id values.ContentID, slug string) *ContentSlugWasChanged {
	return &ContentSlugWasChanged{ID: id.String(), Slug: slug}
}

func (e *ContentSlugWasChanged) EventType() string { return EventContentSlugWasChanged }

func (e *ContentSlugWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentBodyWasChanged 正文变更事件
type ContentBodyWasChanged struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func NewContentBodyWasChanged(id values.ContentID, body string) *ContentBodyWasChanged {
	return &ContentBodyWasChanged{ID: id.String(), Body: body}
}

func (e *ContentBodyWasChanged) EventType() string { return EventContentBodyWasChanged }

func (e *ContentBodyWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentAuthorWasChanged 作者变更事件
type ContentAuthorWasChanged struct {
	ID     string `json:"id"`
	Author string `json:"author"`
}

func NewContentAuthorWasChanged(id values.ContentID, author values.UserID) *ContentAuthorWasChanged {
	return &ContentAuthorWasChanged{ID: id.String(), Author: author.String()}
}

func (e *ContentAuthorWasChanged) EventType() string { return EventContentAuthorWasChanged }

func (e *ContentAuthorWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// AuthorID 反序列化作者标识
func (e *ContentAuthorWasChanged) AuthorID() (values.UserID, error) {
	if e.Author == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty author payload")
	}
	return values.UserID(e.Author), nil
}

// ContentTypeWasChanged 内容类型变更事件（按类型别名关联）
type ContentTypeWasChanged struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func NewContentTypeWasChanged(id values.ContentID, contentType string) *ContentTypeWasChanged {
	return &ContentTypeWasChanged{ID: id.String(), Type: contentType}
}

func (e *ContentTypeWasChanged) EventType() string { return EventContentTypeWasChanged }

func (e *ContentTypeWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentParentWasChanged 父级变更事件
type ContentParentWasChanged struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
}

func NewContentParentWasChanged(id values.ContentID, parent values.ContentID) *ContentParentWasChanged {
	return &ContentParentWasChanged{ID: id.String(), Parent: parent.String()}
}

func (e *ContentParentWasChanged) EventType() string { return EventContentParentWasChanged }

func (e *ContentParentWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ParentID 反序列化父级标识
func (e *ContentParentWasChanged) ParentID() (values.ContentID, error) {
	if e.Parent == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty parent payload")
	}
	return values.ContentID(e.Parent), nil
}

// ContentParentWasRemoved 父级移除事件
//
// 与"从未设置父级"是两种不同的事实，保留为独立事件类型。
type ContentParentWasRemoved struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
}

func NewContentParentWasRemoved(id values.ContentID, parent values.ContentID) *ContentParentWasRemoved {
	return &ContentParentWasRemoved{ID: id.String(), Parent: parent.String()}
}

func (e *ContentParentWasRemoved) EventType() string { return EventContentParentWasRemoved }

func (e *ContentParentWasRemoved) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentSidebarWasChanged 侧边栏标记变更事件
type ContentSidebarWasChanged struct {
	ID      string `json:"id"`
	Sidebar int    `json:"sidebar"`
}

func NewContentSidebarWasChanged(id values.ContentID, sidebar values.IntFlag) *ContentSidebarWasChanged {
	return &ContentSidebarWasChanged{ID: id.String(), Sidebar: sidebar.Int()}
}

func (e *ContentSidebarWasChanged) EventType() string { return EventContentSidebarWasChanged }

func (e *ContentSidebarWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// Flag 反序列化标记值
func (e *ContentSidebarWasChanged) Flag() (values.IntFlag, error) {
	return values.ParseIntFlag(e.Sidebar)
}

// ContentShowInMenuWasChanged 菜单可见标记变更事件
type ContentShowInMenuWasChanged struct {
	ID         string `json:"id"`
	ShowInMenu int    `json:"show_in_menu"`
}

func NewContentShowInMenuWasChanged(id values.ContentID, flag values.IntFlag) *ContentShowInMenuWasChanged {
	return &ContentShowInMenuWasChanged{ID: id.String(), ShowInMenu: flag.Int()}
}

func (e *ContentShowInMenuWasChanged) EventType() string { return EventContentShowInMenuWasChanged }

func (e *ContentShowInMenuWasChanged) ContentID() (values.ContentID, error) {
	return parseContentID(e.ID)
}

// Flag 反序列化标记值
func (e *ContentShowInMenuWasChanged) Flag() (values.IntFlag, error) {
	return values.ParseIntFlag(e.ShowInMenu)
}

// ContentShowInSearchWasChanged 搜索可见标记变更事件
type ContentShowInSearchWasChanged struct {
	ID           string `json:"id"`
	ShowInSearch int    `json:"show_in_search"`
}

func NewContentShowInSearchWasChanged(id values.ContentID, flag values.IntFlag) *ContentShowInSearchWasChanged {
	return &ContentShowInSearchWasChanged{ID: id.String(), ShowInSearch: flag.Int()}
}

func (e *ContentShowInSearchWasChanged) EventType() string { return EventContentShowInSearchWasChanged }

func (e *ContentShowInSearchWasChanged) ContentID() (values.ContentID, error) {
	return parseContentID(e.ID)
}

// Flag 反序列化标记值
func (e *ContentShowInSearchWasChanged) Flag() (values.IntFlag, error) {
	return values.ParseIntFlag(e.ShowInSearch)
}

// ContentFeaturedImageWasChanged 特色图片变更事件
type ContentFeaturedImageWasChanged struct {
	ID            string `json:"id"`
	FeaturedImage string `json:"featured_image"`
}

func NewContentFeaturedImageWasChanged(id values.ContentID, image string) *ContentFeaturedImageWasChanged {
	return &ContentFeaturedImageWasChanged{ID: id.String(), FeaturedImage: image}
}

func (e *ContentFeaturedImageWasChanged) EventType() string {
	return EventContentFeaturedImageWasChanged
}

func (e *ContentFeaturedImageWasChanged) ContentID() (values.ContentID, error) {
	return parseContentID(e.ID)
}

// ContentStatusWasChanged 状态变更事件
type ContentStatusWasChanged struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewContentStatusWasChanged(id values.ContentID, status string) *ContentStatusWasChanged {
	return &ContentStatusWasChanged{ID: id.String(), Status: status}
}

func (e *ContentStatusWasChanged) EventType() string { return EventContentStatusWasChanged }

func (e *ContentStatusWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentPublishedWasChanged 发布时间变更事件
type ContentPublishedWasChanged struct {
	ID           string `json:"id"`
	Published    string `json:"published"`
	PublishedGMT string `json:"published_gmt"`
}

func NewContentPublishedWasChanged(id values.ContentID, published values.DateTime) *ContentPublishedWasChanged {
	return &ContentPublishedWasChanged{
		ID:           id.String(),
		Published:    published.String(),
		PublishedGMT: published.GMT().String(),
	}
}

func (e *ContentPublishedWasChanged) EventType() string { return EventContentPublishedWasChanged }

func (e *ContentPublishedWasChanged) ContentID() (values.ContentID, error) {
	return parseContentID(e.ID)
}

// PublishedAt 反序列化发布时间
func (e *ContentPublishedWasChanged) PublishedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Published)
}

// ContentModifiedWasChanged 修改时间变更事件
type ContentModifiedWasChanged struct {
	ID          string `json:"id"`
	Modified    string `json:"modified"`
	ModifiedGMT string `json:"modified_gmt"`
}

func NewContentModifiedWasChanged(id values.ContentID, modified values.DateTime) *ContentModifiedWasChanged {
	return &ContentModifiedWasChanged{
		ID:          id.String(),
		Modified:    modified.String(),
		ModifiedGMT: modified.GMT().String(),
	}
}

func (e *ContentModifiedWasChanged) EventType() string { return EventContentModifiedWasChanged }

func (e *ContentModifiedWasChanged) ContentID() (values.ContentID, error) {
	return parseContentID(e.ID)
}

// ModifiedAt 反序列化修改时间
func (e *ContentModifiedWasChanged) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// ContentMetaWasChanged 元数据整体变更事件
//
// 负载携带完整的新 map，而非逐键差分。
type ContentMetaWasChanged struct {
	ID   string            `json:"id"`
	Meta map[string]string `json:"meta"`
}

func NewContentMetaWasChanged(id values.ContentID, meta map[string]string) *ContentMetaWasChanged {
	return &ContentMetaWasChanged{ID: id.String(), Meta: copyMeta(meta)}
}

func (e *ContentMetaWasChanged) EventType() string { return EventContentMetaWasChanged }

func (e *ContentMetaWasChanged) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// ContentWasDeleted 内容删除事件（终态）
type ContentWasDeleted struct {
	ID string `json:"id"`
}

func NewContentWasDeleted(id values.ContentID) *ContentWasDeleted {
	return &ContentWasDeleted{ID: id.String()}
}

func (e *ContentWasDeleted) EventType() string { return EventContentWasDeleted }

func (e *ContentWasDeleted) ContentID() (values.ContentID, error) { return parseContentID(e.ID) }

// RegisterEvents 将内容聚合的全部事件类型注册到反序列化注册表
func RegisterEvents(r *registry.Registry) error {
	factories := map[string]registry.EventFactory{
		EventContentWasCreated:              func() any { return &ContentWasCreated{} },
		EventContentTitleWasChanged:         func() any { return &ContentTitleWasChanged{} },
		EventContentSlugWasChanged:          func() any { return &ContentSlugWasChanged{} },
		EventContentBodyWasChanged:          func() any { return &ContentBodyWasChanged{} },
		EventContentAuthorWasChanged:        func() any { return &ContentAuthorWasChanged{} },
		EventContentTypeWasChanged:          func() any { return &ContentTypeWasChanged{} },
		EventContentParentWasChanged:        func() any { return &ContentParentWasChanged{} },
		EventContentParentWasRemoved:        func() any { return &ContentParentWasRemoved{} },
		EventContentSidebarWasChanged:       func() any { return &ContentSidebarWasChanged{} },
		EventContentShowInMenuWasChanged:    func() any { return &ContentShowInMenuWasChanged{} },
		EventContentShowInSearchWasChanged:  func() any { return &ContentShowInSearchWasChanged{} },
		EventContentFeaturedImageWasChanged: func() any { return &ContentFeaturedImageWasChanged{} },
		EventContentStatusWasChanged:        func() any { return &ContentStatusWasChanged{} },
		EventContentPublishedWasChanged:     func() any { return &ContentPublishedWasChanged{} },
		EventContentModifiedWasChanged:      func() any { return &ContentModifiedWasChanged{} },
		EventContentMetaWasChanged:          func() any { return &ContentMetaWasChanged{} },
		EventContentWasDeleted:              func() any { return &ContentWasDeleted{} },
	}
	for eventType, factory := range factories {
		if err := r.Register(eventType, factory); err != nil {
			return err
		}
	}
	return nil
}

func parseContentID(s string) (values.ContentID, error) {
	if s == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty content id payload")
	}
	return values.ContentID(s), nil
}

func parseOptionalContentID(s *string) (*values.ContentID, error) {
	if s == nil {
		return nil, nil
	}
	if *s == "" {
		return nil, errors.NewError(errors.ErrCodeSerialization, "empty parent id payload")
	}
	id := values.ContentID(*s)
	return &id, nil
}

func copyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
