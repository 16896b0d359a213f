// Package values 定义 CMS 领域的值对象
//
// 值对象不可变，按值比较相等性。事件负载只保存其原生表示
// （字符串、整数），读取时由事件访问器重新构造。
package values

import (
	"presskit/errors"
	"presskit/idgen"
)

// ContentID 内容聚合标识
type ContentID string

// NewContentID 生成新的内容 ID
func NewContentID() ContentID { return ContentID(idgen.New()) }

// ParseContentID 从字符串构造内容 ID
func ParseContentID(s string) (ContentID, error) {
	if s == "" {
		return "", errors.NewValidationError("content id cannot be empty")
	}
	return ContentID(s), nil
}

func (id ContentID) String() string { return string(id) }
func (id ContentID) IsZero() bool   { return id == "" }

// ContentTypeID 内容类型聚合标识
type ContentTypeID string

// NewContentTypeID 生成新的内容类型 ID
func NewContentTypeID() ContentTypeID { return ContentTypeID(idgen.New()) }

// ParseContentTypeID 从字符串构造内容类型 ID
func ParseContentTypeID(s string) (ContentTypeID, error) {
	if s == "" {
		return "", errors.NewValidationError("content type id cannot be empty")
	}
	return ContentTypeID(s), nil
}

func (id ContentTypeID) String() string { return string(id) }
func (id ContentTypeID) IsZero() bool   { return id == "" }

// ProductID 产品聚合标识
type ProductID string

// NewProductID 生成新的产品 ID
func NewProductID() ProductID { return ProductID(idgen.New()) }

// ParseProductID 从字符串构造产品 ID
func ParseProductID(s string) (ProductID, error) {
	if s == "" {
		return "", errors.NewValidationError("product id cannot be empty")
	}
	return ProductID(s), nil
}

func (id ProductID) String() string { return string(id) }
func (id ProductID) IsZero() bool   { return id == "" }

// SiteID 站点聚合标识
type SiteID string

// NewSiteID 生成新的站点 ID
func NewSiteID() SiteID { return SiteID(idgen.New()) }

// ParseSiteID 从字符串构造站点 ID
func ParseSiteID(s string) (SiteID, error) {
	if s == "" {
		return "", errors.NewValidationError("site id cannot be empty")
	}
	return SiteID(s), nil
}

func (id SiteID) String() string { return string(id) }
func (id SiteID) IsZero() bool   { return id == "" }

// UserID 用户聚合标识
type UserID string

// NewUserID 生成新的用户 ID
func NewUserID() UserID { return UserID(idgen.New()) }

// ParseUserID 从字符串构造用户 ID
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", errors.NewValidationError("user id cannot be empty")
	}
	return UserID(s), nil
}

func (id UserID) String() string { return string(id) }
func (id UserID) IsZero() bool   { return id == "" }
