// Package idgen 提供聚合 ID 生成
//
// 聚合 ID 使用稳定的字符串形式（UUID），在创建时分配，之后不可变。
package idgen

import (
	"github.com/google/uuid"
)

// New 生成一个新的聚合 ID
func New() string {
	return uuid.NewString()
}

// IsValid 判断给定字符串是否为合法 ID
func IsValid(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
