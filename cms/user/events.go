// Package user 实现用户聚合：事件、状态变更、读模型投影与查询
package user

import (
	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
)

// 用户聚合的事件类型名
const (
	EventUserWasCreated            = "UserWasCreated"
	EventUserLoginWasChanged       = "UserLoginWasChanged"
	EventUserNameWasChanged        = "UserNameWasChanged"
	EventUserEmailWasChanged       = "UserEmailWasChanged"
	EventUserUrlWasChanged         = "UserUrlWasChanged"
	EventUserTimezoneWasChanged    = "UserTimezoneWasChanged"
	EventUserLocaleWasChanged      = "UserLocaleWasChanged"
	EventUserModifiedWasChanged    = "UserModifiedWasChanged"
	EventUserActivationKeyWasReset = "UserActivationKeyWasReset"
	EventUserMetaWasChanged        = "UserMetaWasChanged"
	EventUserWasDeleted            = "UserWasDeleted"
)

// UserWasCreated 用户创建事件
//
// Modified 与 ActivationKey 为可选字段，空串表示未设置。
type UserWasCreated struct {
	ID            string            `json:"id"`
	Login         string            `json:"login"`
	Fname         string            `json:"fname"`
	Lname         string            `json:"lname"`
	Email         string            `json:"email"`
	Url           string            `json:"url"`
	Timezone      string            `json:"timezone"`
	Locale        string            `json:"locale"`
	Registered    string            `json:"registered"`
	Modified      string            `json:"modified"`
	ActivationKey string            `json:"activation_key"`
	Meta          map[string]string `json:"meta,omitempty"`
}

// NewUserWasCreated 由已校验的领域值构造创建事件
func NewUserWasCreated(id values.UserID, p CreateParams) *UserWasCreated {
	modified := ""
	if !p.Modified.IsZero() {
		modified = p.Modified.String()
	}
	return &UserWasCreated{
		ID:            id.String(),
		Login:         p.Login,
		Fname:         p.Fname,
		Lname:         p.Lname,
		Email:         p.Email,
		Url:           p.Url,
		Timezone:      p.Timezone,
		Locale:        p.Locale,
		Registered:    p.Registered.String(),
		Modified:      modified,
		ActivationKey: p.ActivationKey,
		Meta:          copyMeta(p.Meta),
	}
}

func (e *UserWasCreated) EventType() string { return EventUserWasCreated }

// UserID 反序列化聚合标识
func (e *UserWasCreated) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// RegisteredAt 反序列化注册时间
func (e *UserWasCreated) RegisteredAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Registered)
}

// ModifiedAt 反序列化修改时间；空串表示未设置
func (e *UserWasCreated) ModifiedAt() (values.DateTime, error) {
	if e.Modified == "" {
		return values.DateTime{}, nil
	}
	return values.ParseDateTime(e.Modified)
}

// UserLoginWasChanged 登录名变更事件
type UserLoginWasChanged struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

func NewUserLoginWasChanged(id values.UserID, login string) *UserLoginWasChanged {
	return &UserLoginWasChanged{ID: id.String(), Login: login}
}

func (e *UserLoginWasChanged) EventType() string { return EventUserLoginWasChanged }

func (e *UserLoginWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserNameWasChanged 姓名变更事件（名与姓作为一个整体变更）
type UserNameWasChanged struct {
	ID    string `json:"id"`
	Fname string `json:"fname"`
	Lname string `json:"lname"`
}

func NewUserNameWasChanged(id values.UserID, fname, lname string) *UserNameWasChanged {
	return &UserNameWasChanged{ID: id.String(), Fname: fname, Lname: lname}
}

func (e *UserNameWasChanged) EventType() string { return EventUserNameWasChanged }

func (e *UserNameWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserEmailWasChanged 邮箱变更事件
type UserEmailWasChanged struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewUserEmailWasChanged(id values.UserID, email string) *UserEmailWasChanged {
	return &UserEmailWasChanged{ID: id.String(), Email: email}
}

func (e *UserEmailWasChanged) EventType() string { return EventUserEmailWasChanged }

func (e *UserEmailWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserUrlWasChanged 主页地址变更事件（可选字段，空值合法）
type UserUrlWasChanged struct {
	ID  string `json:"id"`
	Url string `json:"url"`
}

func NewUserUrlWasChanged(id values.UserID, url string) *UserUrlWasChanged {
	return &UserUrlWasChanged{ID: id.String(), Url: url}
}

func (e *UserUrlWasChanged) EventType() string { return EventUserUrlWasChanged }

func (e *UserUrlWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserTimezoneWasChanged 时区变更事件
type UserTimezoneWasChanged struct {
	ID       string `json:"id"`
	Timezone string `json:"timezone"`
}

func NewUserTimezoneWasChanged(id values.UserID, timezone string) *UserTimezoneWasChanged {
	return &UserTimezoneWasChanged{ID: id.String(), Timezone: timezone}
}

func (e *UserTimezoneWasChanged) EventType() string { return EventUserTimezoneWasChanged }

func (e *UserTimezoneWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserLocaleWasChanged 区域设置变更事件
type UserLocaleWasChanged struct {
	ID     string `json:"id"`
	Locale string `json:"locale"`
}

func NewUserLocaleWasChanged(id values.UserID, locale string) *UserLocaleWasChanged {
	return &UserLocaleWasChanged{ID: id.String(), Locale: locale}
}

func (e *UserLocaleWasChanged) EventType() string { return EventUserLocaleWasChanged }

func (e *UserLocaleWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserModifiedWasChanged 修改时间变更事件
type UserModifiedWasChanged struct {
	ID       string `json:"id"`
	Modified string `json:"modified"`
}

func NewUserModifiedWasChanged(id values.UserID, modified values.DateTime) *UserModifiedWasChanged {
	return &UserModifiedWasChanged{ID: id.String(), Modified: modified.String()}
}

func (e *UserModifiedWasChanged) EventType() string { return EventUserModifiedWasChanged }

func (e *UserModifiedWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// ModifiedAt 反序列化修改时间
func (e *UserModifiedWasChanged) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// UserActivationKeyWasReset 激活密钥重置事件（空串表示清除）
type UserActivationKeyWasReset struct {
	ID            string `json:"id"`
	ActivationKey string `json:"activation_key"`
}

func NewUserActivationKeyWasReset(id values.UserID, key string) *UserActivationKeyWasReset {
	return &UserActivationKeyWasReset{ID: id.String(), ActivationKey: key}
}

func (e *UserActivationKeyWasReset) EventType() string { return EventUserActivationKeyWasReset }

func (e *UserActivationKeyWasReset) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserMetaWasChanged 元数据整体变更事件
type UserMetaWasChanged struct {
	ID   string            `json:"id"`
	Meta map[string]string `json:"meta"`
}

func NewUserMetaWasChanged(id values.UserID, meta map[string]string) *UserMetaWasChanged {
	return &UserMetaWasChanged{ID: id.String(), Meta: copyMeta(meta)}
}

func (e *UserMetaWasChanged) EventType() string { return EventUserMetaWasChanged }

func (e *UserMetaWasChanged) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// UserWasDeleted 用户删除事件（终态）
type UserWasDeleted struct {
	ID string `json:"id"`
}

func NewUserWasDeleted(id values.UserID) *UserWasDeleted {
	return &UserWasDeleted{ID: id.String()}
}

func (e *UserWasDeleted) EventType() string { return EventUserWasDeleted }

func (e *UserWasDeleted) UserID() (values.UserID, error) { return parseUserID(e.ID) }

// RegisterEvents 将用户聚合的全部事件类型注册到反序列化注册表
func RegisterEvents(r *registry.Registry) error {
	factories := map[string]registry.EventFactory{
		EventUserWasCreated:            func() any { return &UserWasCreated{} },
		EventUserLoginWasChanged:       func() any { return &UserLoginWasChanged{} },
		EventUserNameWasChanged:        func() any { return &UserNameWasChanged{} },
		EventUserEmailWasChanged:       func() any { return &UserEmailWasChanged{} },
		EventUserUrlWasChanged:         func() any { return &UserUrlWasChanged{} },
		EventUserTimezoneWasChanged:    func() any { return &UserTimezoneWasChanged{} },
		EventUserLocaleWasChanged:      func() any { return &UserLocaleWasChanged{} },
		EventUserModifiedWasChanged:    func() any { return &UserModifiedWasChanged{} },
		EventUserActivationKeyWasReset: func() any { return &UserActivationKeyWasReset{} },
		EventUserMetaWasChanged:        func() any { return &UserMetaWasChanged{} },
		EventUserWasDeleted:            func() any { return &UserWasDeleted{} },
	}
	for eventType, factory := range factories {
		if err := r.Register(eventType, factory); err != nil {
			return err
		}
	}
	return nil
}

func parseUserID(s string) (values.UserID, error) {
	if s == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty user id payload")
	}
	return values.UserID(s), nil
}

func copyMeta(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
