package content

import (
	"presskit/cms/values"
	"presskit/domain"
	"presskit/errors"
	"presskit/eventing"
	"presskit/validation"
)

// CreateParams 创建内容所需的领域值
type CreateParams struct {
	Title         string
	Slug          string
	Body          string
	Author        values.UserID
	Type          string
	Parent        *values.ContentID
	Sidebar       values.IntFlag
	ShowInMenu    values.IntFlag
	ShowInSearch  values.IntFlag
	FeaturedImage string
	Status        string
	Created       values.DateTime
	Published     values.DateTime
	Modified      values.DateTime
	Meta          map[string]string
}

// Content 内容聚合
//
// 状态只能在 ApplyEvent 中赋值：实时变更与历史重放走同一条
// 应用路径，保证重放确定性。
type Content struct {
	*domain.EventSourcedAggregate[values.ContentID]

	title         string
	slug          string
	body          string
	author        values.UserID
	contentType   string
	parent        *values.ContentID
	sidebar       values.IntFlag
	showInMenu    values.IntFlag
	showInSearch  values.IntFlag
	featuredImage string
	status        string
	created       values.DateTime
	published     values.DateTime
	modified      values.DateTime
	meta          map[string]string
	deleted       bool
}

// NewContent 创建空聚合（用于从事件历史重放）
func NewContent(id values.ContentID) *Content {
	return &Content{
		EventSourcedAggregate: domain.NewEventSourcedAggregate(id, eventing.AggregateContent),
	}
}

// Create 创建内容聚合并记录创建事件
func Create(id values.ContentID, p CreateParams) (*Content, error) {
	if id.IsZero() {
		return nil, errors.NewValidationError("content id cannot be empty")
	}
	if err := validateCreateParams(&p); err != nil {
		return nil, err
	}

	c := NewContent(id)
	if err := c.record(NewContentWasCreated(id, p)); err != nil {
		return nil, err
	}
	return c, nil
}

func validateCreateParams(p *CreateParams) error {
	if err := validation.ValidateRequired(p.Title, "title"); err != nil {
		return err
	}
	if err := validation.ValidateSlug(p.Slug, "slug"); err != nil {
		return err
	}
	if p.Author.IsZero() {
		return errors.NewValidationError("author cannot be empty")
	}
	if err := validation.ValidateRequired(p.Type, "type"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(p.Status, "status"); err != nil {
		return err
	}
	if p.Parent != nil && p.Parent.IsZero() {
		return errors.NewValidationError("parent cannot be empty when set")
	}

	// 时间戳缺省依次回退：created → 当前时间，published/modified → created
	if p.Created.IsZero() {
		p.Created = values.Now()
	}
	if p.Published.IsZero() {
		p.Published = p.Created
	}
	if p.Modified.IsZero() {
		p.Modified = p.Created
	}
	return nil
}

// 只读访问器

func (c *Content) Title() string                { return c.title }
func (c *Content) Slug() string                 { return c.slug }
func (c *Content) Body() string                 { return c.body }
func (c *Content) Author() values.UserID        { return c.author }
func (c *Content) Type() string                 { return c.contentType }
func (c *Content) Sidebar() values.IntFlag      { return c.sidebar }
func (c *Content) ShowInMenu() values.IntFlag   { return c.showInMenu }
func (c *Content) ShowInSearch() values.IntFlag { return c.showInSearch }
func (c *Content) FeaturedImage() string        { return c.featuredImage }
func (c *Content) Status() string               { return c.status }
func (c *Content) Created() values.DateTime     { return c.created }
func (c *Content) Published() values.DateTime   { return c.published }
func (c *Content) Modified() values.DateTime    { return c.modified }
func (c *Content) IsDeleted() bool              { return c.deleted }

// Parent 当前父级标识；未设置时返回 nil
func (c *Content) Parent() *values.ContentID {
	if c.parent == nil {
		return nil
	}
	id := *c.parent
	return &id
}

// Meta 元数据副本
func (c *Content) Meta() map[string]string { return copyMeta(c.meta) }

// ChangeTitle 变更标题；值未变化时静默返回
func (c *Content) ChangeTitle(title string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(title, "title"); err != nil {
		return err
	}
	if c.title == title {
		return nil
	}
	return c.record(NewContentTitleWasChanged(c.GetID(), title))
}

// ChangeSlug 变更别名
func (c *Content) ChangeSlug(slug string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateSlug(slug, "slug"); err != nil {
		return err
	}
	if c.slug == slug {
		return nil
	}
	return c.record(NewContentSlugWasChanged(c.GetID(), slug))
}

// ChangeBody 变更正文（可选字段，空值合法）
func (c *Content) ChangeBody(body string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if c.body == body {
		return nil
	}
	return c.record(NewContentBodyWasChanged(c.GetID(), body))
}

// ChangeAuthor 变更作者
func (c *Content) ChangeAuthor(author values.UserID) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if author.IsZero() {
		return errors.NewValidationError("author cannot be empty")
	}
	if c.author == author {
		return nil
	}
	return c.record(NewContentAuthorWasChanged(c.GetID(), author))
}

// ChangeType 变更内容类型（按类型别名）
func (c *Content) ChangeType(contentType string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(contentType, "type"); err != nil {
		return err
	}
	if c.contentType == contentType {
		return nil
	}
	return c.record(NewContentTypeWasChanged(c.GetID(), contentType))
}

// ChangeParent 变更父级
func (c *Content) ChangeParent(parent values.ContentID) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if parent.IsZero() {
		return errors.NewValidationError("parent cannot be empty")
	}
	if parent == c.GetID() {
		return errors.NewValidationError("content cannot be its own parent")
	}
	if c.parent != nil && *c.parent == parent {
		return nil
	}
	return c.record(NewContentParentWasChanged(c.GetID(), parent))
}

// RemoveParent 移除父级链接
//
// 仅对当前设置的父级有效：父级本就不存在，或请求的父级
// 与当前父级不一致时，静默返回不产生事件。
func (c *Content) RemoveParent(parent values.ContentID) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if c.parent == nil {
		return nil
	}
	if *c.parent != parent {
		return nil
	}
	return c.record(NewContentParentWasRemoved(c.GetID(), parent))
}

// ChangeSidebar 变更侧边栏标记
func (c *Content) ChangeSidebar(flag values.IntFlag) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if c.sidebar == flag {
		return nil
	}
	return c.record(NewContentSidebarWasChanged(c.GetID(), flag))
}

// ChangeShowInMenu 变更菜单可见标记
func (c *Content) ChangeShowInMenu(flag values.IntFlag) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if c.showInMenu == flag {
		return nil
	}
	return c.record(NewContentShowInMenuWasChanged(c.GetID(), flag))
}

// ChangeShowInSearch 变更搜索可见标记
func (c *Content) ChangeShowInSearch(flag values.IntFlag) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if c.showInSearch == flag {
		return nil
	}
	return c.record(NewContentShowInSearchWasChanged(c.GetID(), flag))
}

// ChangeFeaturedImage 变更特色图片（可选字段，空值合法）
func (c *Content) ChangeFeaturedImage(image string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if c.featuredImage == image {
		return nil
	}
	return c.record(NewContentFeaturedImageWasChanged(c.GetID(), image))
}

// ChangeStatus 变更状态
func (c *Content) ChangeStatus(status string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(status, "status"); err != nil {
		return err
	}
	if c.status == status {
		return nil
	}
	return c.record(NewContentStatusWasChanged(c.GetID(), status))
}

// ChangePublished 变更发布时间（秒级比较）
func (c *Content) ChangePublished(published values.DateTime) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if published.IsZero() {
		return errors.NewValidationError("published cannot be empty")
	}
	if c.published.Equal(published) {
		return nil
	}
	return c.record(NewContentPublishedWasChanged(c.GetID(), published))
}

// ChangeModified 变更修改时间（秒级比较）
func (c *Content) ChangeModified(modified values.DateTime) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if modified.IsZero() {
		return errors.NewValidationError("modified cannot be empty")
	}
	if c.modified.Equal(modified) {
		return nil
	}
	return c.record(NewContentModifiedWasChanged(c.GetID(), modified))
}

// ChangeMeta 变更元数据
//
// 整个 map 作为一个单元比较，任何差异都产生一个携带完整
// 新 map 的事件。
func (c *Content) ChangeMeta(meta map[string]string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if metaEqual(c.meta, meta) {
		return nil
	}
	return c.record(NewContentMetaWasChanged(c.GetID(), meta))
}

// Delete 删除内容
//
// 传入的 id 必须与聚合自身的 id 一致，防止跨聚合误删。
// 已删除的聚合重复删除是静默无操作，保证命令重试安全。
func (c *Content) Delete(id values.ContentID) error {
	if id != c.GetID() {
		return errors.NewValidationError("content id mismatch on delete")
	}
	if c.GetVersion() == 0 {
		return errors.NewValidationError("content does not exist")
	}
	if c.deleted {
		return nil
	}
	return c.record(NewContentWasDeleted(c.GetID()))
}

func (c *Content) ensureMutable() error {
	if c.GetVersion() == 0 {
		return errors.NewValidationError("content does not exist")
	}
	if c.deleted {
		return errors.NewValidationError("content has been deleted")
	}
	return nil
}

func (c *Content) record(e domain.IDomainEvent) error {
	evt := eventing.NewEvent(c.GetID().String(), c.GetAggregateType(), e.EventType(), c.NextVersion(), e)
	return c.ApplyAndRecord(c.ApplyEvent, evt)
}

// ApplyEvent 将事件负载应用到聚合状态
//
// 处理器不做校验：重放信任过去已校验的事件。创建处理器
// 初始化全部字段，后续处理器只触碰各自关心的字段。
func (c *Content) ApplyEvent(evt eventing.IEvent) error {
	switch e := evt.GetPayload().(type) {
	case *ContentWasCreated:
		if err := c.applyCreated(e); err != nil {
			return err
		}
	case *ContentTitleWasChanged:
		c.title = e.Title
	case *ContentSlugWasChanged:
		c.slug = e.Slug
	case *ContentBodyWasChanged:
		c.body = e.Body
	case *ContentAuthorWasChanged:
		c.author = values.UserID(e.Author)
	case *ContentTypeWasChanged:
		c.contentType = e.Type
	case *ContentParentWasChanged:
		parent := values.ContentID(e.Parent)
		c.parent = &parent
	case *ContentParentWasRemoved:
		c.parent = nil
	case *ContentSidebarWasChanged:
		c.sidebar = values.IntFlag(e.Sidebar)
	case *ContentShowInMenuWasChanged:
		c.showInMenu = values.IntFlag(e.ShowInMenu)
	case *ContentShowInSearchWasChanged:
		c.showInSearch = values.IntFlag(e.ShowInSearch)
	case *ContentFeaturedImageWasChanged:
		c.featuredImage = e.FeaturedImage
	case *ContentStatusWasChanged:
		c.status = e.Status
	case *ContentPublishedWasChanged:
		published, err := e.PublishedAt()
		if err != nil {
			return err
		}
		c.published = published
	case *ContentModifiedWasChanged:
		modified, err := e.ModifiedAt()
		if err != nil {
			return err
		}
		c.modified = modified
	case *ContentMetaWasChanged:
		c.meta = copyMeta(e.Meta)
	case *ContentWasDeleted:
		c.deleted = true
	}
	return c.EventSourcedAggregate.ApplyEvent(evt)
}

func (c *Content) applyCreated(e *ContentWasCreated) error {
	created, err := e.CreatedAt()
	if err != nil {
		return err
	}
	published, err := e.PublishedAt()
	if err != nil {
		return err
	}
	modified, err := e.ModifiedAt()
	if err != nil {
		return err
	}
	parent, err := e.ParentID()
	if err != nil {
		return err
	}

	c.title = e.Title
	c.slug = e.Slug
	c.body = e.Body
	c.author = values.UserID(e.Author)
	c.contentType = e.Type
	c.parent = parent
	c.sidebar = values.IntFlag(e.Sidebar)
	c.showInMenu = values.IntFlag(e.ShowInMenu)
	c.showInSearch = values.IntFlag(e.ShowInSearch)
	c.featuredImage = e.FeaturedImage
	c.status = e.Status
	c.created = created
	c.published = published
	c.modified = modified
	c.meta = copyMeta(e.Meta)
	c.deleted = false
	return nil
}

func metaEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
