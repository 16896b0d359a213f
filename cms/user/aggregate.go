package user

import (
	"presskit/cms/values"
	"presskit/domain"
	"presskit/errors"
	"presskit/eventing"
	"presskit/validation"
)

// CreateParams 创建用户所需的领域值
//
// Registered 为零值时取当前时间；Timezone 与 Locale 为空时取缺省值。
// Modified 与 ActivationKey 可选。
type CreateParams struct {
	Login         string
	Fname         string
	Lname         string
	Email         string
	Url           string
	Timezone      string
	Locale        string
	Registered    values.DateTime
	Modified      values.DateTime
	ActivationKey string
	Meta          map[string]string
}

// 未显式指定时的缺省时区与区域设置
const (
	DefaultTimezone = "UTC"
	DefaultLocale   = "en_US"
)

// User 用户聚合
type User struct {
	*domain.EventSourcedAggregate[values.UserID]

	login         string
	fname         string
	lname         string
	email         string
	url           string
	timezone      string
	locale        string
	registered    values.DateTime
	modified      values.DateTime
	activationKey string
	meta          map[string]string
	deleted       bool
}

// NewUser 创建空聚合（用于从事件历史重放）
func NewUser(id values.UserID) *User {
	return &User{
		EventSourcedAggregate: domain.NewEventSourcedAggregate(id, eventing.AggregateUser),
	}
}

// Create 创建用户聚合并记录创建事件
func Create(id values.UserID, p CreateParams) (*User, error) {
	if id.IsZero() {
		return nil, errors.NewValidationError("user id cannot be empty")
	}
	if err := validation.ValidateRequired(p.Login, "login"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired(p.Fname, "fname"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired(p.Lname, "lname"); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(p.Email, "email"); err != nil {
		return nil, err
	}
	if p.Timezone == "" {
		p.Timezone = DefaultTimezone
	}
	if p.Locale == "" {
		p.Locale = DefaultLocale
	}
	if p.Registered.IsZero() {
		p.Registered = values.Now()
	}

	u := NewUser(id)
	if err := u.record(NewUserWasCreated(id, p)); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Login() string               { return u.login }
func (u *User) Fname() string               { return u.fname }
func (u *User) Lname() string               { return u.lname }
func (u *User) Email() string               { return u.email }
func (u *User) Url() string                 { return u.url }
func (u *User) Timezone() string            { return u.timezone }
func (u *User) Locale() string              { return u.locale }
func (u *User) Registered() values.DateTime { return u.registered }
func (u *User) Modified() values.DateTime   { return u.modified }
func (u *User) ActivationKey() string       { return u.activationKey }
func (u *User) Meta() map[string]string     { return copyMeta(u.meta) }
func (u *User) IsDeleted() bool             { return u.deleted }

// ChangeLogin 变更登录名；值未变化时静默返回
func (u *User) ChangeLogin(login string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(login, "login"); err != nil {
		return err
	}
	if u.login == login {
		return nil
	}
	return u.record(NewUserLoginWasChanged(u.GetID(), login))
}

// ChangeName 变更姓名（名与姓作为一个整体）
func (u *User) ChangeName(fname, lname string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(fname, "fname"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(lname, "lname"); err != nil {
		return err
	}
	if u.fname == fname && u.lname == lname {
		return nil
	}
	return u.record(NewUserNameWasChanged(u.GetID(), fname, lname))
}

// ChangeEmail 变更邮箱
func (u *User) ChangeEmail(email string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateEmail(email, "email"); err != nil {
		return err
	}
	if u.email == email {
		return nil
	}
	return u.record(NewUserEmailWasChanged(u.GetID(), email))
}

// ChangeUrl 变更主页地址（可选字段，空值合法）
func (u *User) ChangeUrl(url string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if u.url == url {
		return nil
	}
	return u.record(NewUserUrlWasChanged(u.GetID(), url))
}

// ChangeTimezone 变更时区
func (u *User) ChangeTimezone(timezone string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(timezone, "timezone"); err != nil {
		return err
	}
	if u.timezone == timezone {
		return nil
	}
	return u.record(NewUserTimezoneWasChanged(u.GetID(), timezone))
}

// ChangeLocale 变更区域设置
func (u *User) ChangeLocale(locale string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(locale, "locale"); err != nil {
		return err
	}
	if u.locale == locale {
		return nil
	}
	return u.record(NewUserLocaleWasChanged(u.GetID(), locale))
}

// ChangeModified 变更修改时间（秒级精度比较）
func (u *User) ChangeModified(modified values.DateTime) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if modified.IsZero() {
		return errors.NewValidationError("modified cannot be empty")
	}
	if !u.modified.IsZero() && u.modified.Equal(modified) {
		return nil
	}
	return u.record(NewUserModifiedWasChanged(u.GetID(), modified))
}

// ResetActivationKey 重置激活密钥；空串表示清除
func (u *User) ResetActivationKey(key string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if u.activationKey == key {
		return nil
	}
	return u.record(NewUserActivationKeyWasReset(u.GetID(), key))
}

// ChangeMeta 整体替换元数据；内容未变化时静默返回
func (u *User) ChangeMeta(meta map[string]string) error {
	if err := u.ensureMutable(); err != nil {
		return err
	}
	if metaEqual(u.meta, meta) {
		return nil
	}
	return u.record(NewUserMetaWasChanged(u.GetID(), meta))
}

// Delete 删除用户；传入的 id 必须与聚合自身一致
func (u *User) Delete(id values.UserID) error {
	if id != u.GetID() {
		return errors.NewValidationError("user id mismatch on delete")
	}
	if u.GetVersion() == 0 {
		return errors.NewValidationError("user does not exist")
	}
	if u.deleted {
		return nil
	}
	return u.record(NewUserWasDeleted(u.GetID()))
}

func (u *User) ensureMutable() error {
	if u.GetVersion() == 0 {
		return errors.NewValidationError("user does not exist")
	}
	if u.deleted {
		return errors.NewValidationError("user has been deleted")
	}
	return nil
}

func (u *User) record(e domain.IDomainEvent) error {
	evt := eventing.NewEvent(u.GetID().String(), u.GetAggregateType(), e.EventType(), u.NextVersion(), e)
	return u.ApplyAndRecord(u.ApplyEvent, evt)
}

// ApplyEvent 将事件负载应用到聚合状态
//
// 创建事件的时间字段从载荷字符串解析，保证实时状态与重放状态一致。
func (u *User) ApplyEvent(evt eventing.IEvent) error {
	switch e := evt.GetPayload().(type) {
	case *UserWasCreated:
		if err := u.applyCreated(e); err != nil {
			return err
		}
	case *UserLoginWasChanged:
		u.login = e.Login
	case *UserNameWasChanged:
		u.fname = e.Fname
		u.lname = e.Lname
	case *UserEmailWasChanged:
		u.email = e.Email
	case *UserUrlWasChanged:
		u.url = e.Url
	case *UserTimezoneWasChanged:
		u.timezone = e.Timezone
	case *UserLocaleWasChanged:
		u.locale = e.Locale
	case *UserModifiedWasChanged:
		modified, err := e.ModifiedAt()
		if err != nil {
			return err
		}
		u.modified = modified
	case *UserActivationKeyWasReset:
		u.activationKey = e.ActivationKey
	case *UserMetaWasChanged:
		u.meta = copyMeta(e.Meta)
	case *UserWasDeleted:
		u.deleted = true
	}
	return u.EventSourcedAggregate.ApplyEvent(evt)
}

func (u *User) applyCreated(e *UserWasCreated) error {
	registered, err := e.RegisteredAt()
	if err != nil {
		return err
	}
	modified, err := e.ModifiedAt()
	if err != nil {
		return err
	}
	u.login = e.Login
	u.fname = e.Fname
	u.lname = e.Lname
	u.email = e.Email
	u.url = e.Url
	u.timezone = e.Timezone
	u.locale = e.Locale
	u.registered = registered
	u.modified = modified
	u.activationKey = e.ActivationKey
	u.meta = copyMeta(e.Meta)
	u.deleted = false
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
