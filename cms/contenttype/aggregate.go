package contenttype

import (
	"presskit/cms/values"
	"presskit/domain"
	"presskit/errors"
	"presskit/eventing"
	"presskit/validation"
)

// CreateParams 创建内容类型所需的领域值
type CreateParams struct {
	Title       string
	Slug        string
	Description string
}

// ContentType 内容类型聚合
//
// 内容按类型别名关联到内容类型，别名是读侧的查询键。
type ContentType struct {
	*domain.EventSourcedAggregate[values.ContentTypeID]

	title       string
	slug        string
	description string
	deleted     bool
}

// NewContentType 创建空聚合（用于从事件历史重放）
func NewContentType(id values.ContentTypeID) *ContentType {
	return &ContentType{
		EventSourcedAggregate: domain.NewEventSourcedAggregate(id, eventing.AggregateContentType),
	}
}

// Create 创建内容类型聚合并记录创建事件
func Create(id values.ContentTypeID, p CreateParams) (*ContentType, error) {
	if id.IsZero() {
		return nil, errors.NewValidationError("content type id cannot be empty")
	}
	if err := validation.ValidateRequired(p.Title, "title"); err != nil {
		return nil, err
	}
	if err := validation.ValidateSlug(p.Slug, "slug"); err != nil {
		return nil, err
	}

	t := NewContentType(id)
	if err := t.record(NewContentTypeWasCreated(id, p)); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ContentType) Title() string       { return t.title }
func (t *ContentType) Slug() string        { return t.slug }
func (t *ContentType) Description() string { return t.description }
func (t *ContentType) IsDeleted() bool     { return t.deleted }

// ChangeTitle 变更标题；值未变化时静默返回
func (t *ContentType) ChangeTitle(title string) error {
	if err := t.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(title, "title"); err != nil {
		return err
	}
	if t.title == title {
		return nil
	}
	return t.record(NewContentTypeTitleWasChanged(t.GetID(), title))
}

// ChangeSlug 变更别名
func (t *ContentType) ChangeSlug(slug string) error {
	if err := t.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateSlug(slug, "slug"); err != nil {
		return err
	}
	if t.slug == slug {
		return nil
	}
	return t.record(NewContentTypeSlugWasChanged(t.GetID(), slug))
}

// ChangeDescription 变更描述（可选字段，空值合法）
func (t *ContentType) ChangeDescription(description string) error {
	if err := t.ensureMutable(); err != nil {
		return err
	}
	if t.description == description {
		return nil
	}
	return t.record(NewContentTypeDescriptionWasChanged(t.GetID(), description))
}

// Delete 删除内容类型；传入的 id 必须与聚合自身一致
func (t *ContentType) Delete(id values.ContentTypeID) error {
	if id != t.GetID() {
		return errors.NewValidationError("content type id mismatch on delete")
	}
	if t.GetVersion() == 0 {
		return errors.NewValidationError("content type does not exist")
	}
	if t.deleted {
		return nil
	}
	return t.record(NewContentTypeWasDeleted(t.GetID()))
}

func (t *ContentType) ensureMutable() error {
	if t.GetVersion() == 0 {
		return errors.NewValidationError("content type does not exist")
	}
	if t.deleted {
		return errors.NewValidationError("content type has been deleted")
	}
	return nil
}

func (t *ContentType) record(e domain.IDomainEvent) error {
	evt := eventing.NewEvent(t.GetID().String(), t.GetAggregateType(), e.EventType(), t.NextVersion(), e)
	return t.ApplyAndRecord(t.ApplyEvent, evt)
}

// ApplyEvent 将事件负载应用到聚合状态
func (t *ContentType) ApplyEvent(evt eventing.IEvent) error {
	switch e := evt.GetPayload().(type) {
	case *ContentTypeWasCreated:
		t.title = e.Title
		t.slug = e.Slug
		t.description = e.Description
		t.deleted = false
	case *ContentTypeTitleWasChanged:
		t.title = e.Title
	case *ContentTypeSlugWasChanged:
		t.slug = e.Slug
	case *ContentTypeDescriptionWasChanged:
		t.description = e.Description
	case *ContentTypeWasDeleted:
		t.deleted = true
	}
	return t.EventSourcedAggregate.ApplyEvent(evt)
}
