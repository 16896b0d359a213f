// Package contenttype 实现内容类型聚合：事件、状态变更、投影与查询
package contenttype

import (
	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
)

// 内容类型聚合的事件类型名
const (
	EventContentTypeWasCreated            = "ContentTypeWasCreated"
	EventContentTypeTitleWasChanged       = "ContentTypeTitleWasChanged"
	EventContentTypeSlugWasChanged        = "ContentTypeSlugWasChanged"
	EventContentTypeDescriptionWasChanged = "ContentTypeDescriptionWasChanged"
	EventContentTypeWasDeleted            = "ContentTypeWasDeleted"
)

// ContentTypeWasCreated 内容类型创建事件
type ContentTypeWasCreated struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func NewContentTypeWasCreated(id values.ContentTypeID, p CreateParams) *ContentTypeWasCreated {
	return &ContentTypeWasCreated{
		ID:          id.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
	}
}

func (e *ContentTypeWasCreated) EventType() string { return EventContentTypeWasCreated }

// ContentTypeID 反序列化聚合标识
func (e *ContentTypeWasCreated) ContentTypeID() (values.ContentTypeID, error) {
	return parseContentTypeID(e.ID)
}

// ContentTypeTitleWasChanged 标题变更事件
type ContentTypeTitleWasChanged struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func NewContentTypeTitleWasChanged(id values.ContentTypeID, title string) *ContentTypeTitleWasChanged {
	return &ContentTypeTitleWasChanged{ID: id.String(), Title: title}
}

func (e *ContentTypeTitleWasChanged) EventType() string { return EventContentTypeTitleWasChanged }

func (e *ContentTypeTitleWasChanged) ContentTypeID() (values.ContentTypeID, error) {
	return parseContentTypeID(e.ID)
}

// ContentTypeSlugWasChanged 别名变更事件
type ContentTypeSlugWasChanged struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func NewContentTypeSlugWasChanged(id values.ContentTypeID, slug string) *ContentTypeSlugWasChanged {
	return &ContentTypeSlugWasChanged{ID: id.String(), Slug: slug}
}

func (e *ContentTypeSlugWasChanged) EventType() string { return EventContentTypeSlugWasChanged }

func (e *ContentTypeSlugWasChanged) ContentTypeID() (values.ContentTypeID, error) {
	return parseContentTypeID(e.ID)
}

// ContentTypeDescriptionWasChanged 描述变更事件
type ContentTypeDescriptionWasChanged struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func NewContentTypeDescriptionWasChanged(id values.ContentTypeID, description string) *ContentTypeDescriptionWasChanged {
	return &ContentTypeDescriptionWasChanged{ID: id.String(), Description: description}
}

func (e *ContentTypeDescriptionWasChanged) EventType() string {
	return EventContentTypeDescriptionWasChanged
}

func (e *ContentTypeDescriptionWasChanged) ContentTypeID() (values.ContentTypeID, error) {
	return parseContentTypeID(e.ID)
}

// ContentTypeWasDeleted 内容类型删除事件（终态）
type ContentTypeWasDeleted struct {
	ID string `json:"id"`
}

func NewContentTypeWasDeleted(id values.ContentTypeID) *ContentTypeWasDeleted {
	return &ContentTypeWasDeleted{ID: id.String()}
}

func (e *ContentTypeWasDeleted) EventType() string { return EventContentTypeWasDeleted }

func (e *ContentTypeWasDeleted) ContentTypeID() (values.ContentTypeID, error) {
	return parseContentTypeID(e.ID)
}

// RegisterEvents 将内容类型聚合的全部事件类型注册到反序列化注册表
func RegisterEvents(r *registry.Registry) error {
	factories := map[string]registry.EventFactory{
		EventContentTypeWasCreated:            func() any { return &ContentTypeWasCreated{} },
		EventContentTypeTitleWasChanged:       func() any { return &ContentTypeTitleWasChanged{} },
		EventContentTypeSlugWasChanged:        func() any { return &ContentTypeSlugWasChanged{} },
		EventContentTypeDescriptionWasChanged: func() any { return &ContentTypeDescriptionWasChanged{} },
		EventContentTypeWasDeleted:            func() any { return &ContentTypeWasDeleted{} },
	}
	for eventType, factory := range factories {
		if err := r.Register(eventType, factory); err != nil {
			return err
		}
	}
	return nil
}

func parseContentTypeID(s string) (values.ContentTypeID, error) {
	if s == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty content type id payload")
	}
	return values.ContentTypeID(s), nil
}
