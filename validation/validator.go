// Package validation 提供领域层通用的输入验证helpers
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"presskit/errors"
)

var (
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	decimalRegex  = regexp.MustCompile(`^\d+(\.\d{1,4})?$`)
)

// ValidateRequired 验证必填字段非空
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateSlug 验证 slug 格式（小写字母、数字、连字符）
func ValidateSlug(value, fieldName string) error {
	if err := ValidateRequired(value, fieldName); err != nil {
		return err
	}
	if !slugRegex.MatchString(value) {
		return errors.NewValidationError(fmt.Sprintf("%s is not a valid slug: %s", fieldName, value))
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(value, fieldName string) error {
	if err := ValidateRequired(value, fieldName); err != nil {
		return err
	}
	if !emailRegex.MatchString(value) {
		return errors.NewValidationError(fmt.Sprintf("%s is not a valid email: %s", fieldName, value))
	}
	return nil
}

// ValidateNonNegative 验证非负整数
func ValidateNonNegative(value int, fieldName string) error {
	if value < 0 {
		return errors.NewValidationError(fmt.Sprintf("%s cannot be negative (got %d)", fieldName, value))
	}
	return nil
}

// ValidateCurrencyCode 验证 ISO 4217 货币代码格式
func ValidateCurrencyCode(value string) error {
	if !currencyRegex.MatchString(value) {
		return errors.NewValidationError(fmt.Sprintf("invalid currency code: %q", value))
	}
	return nil
}

// ValidateDecimalAmount 验证十进制金额字符串（非负，最多四位小数）
func ValidateDecimalAmount(value string) error {
	if !decimalRegex.MatchString(value) {
		return errors.NewValidationError(fmt.Sprintf("invalid decimal amount: %q", value))
	}
	return nil
}

// ValidateStringLength 验证字符串长度范围
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return errors.NewValidationError(
			fmt.Sprintf("%s must be at least %d characters (got %d)", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewValidationError(
			fmt.Sprintf("%s must be at most %d characters (got %d)", fieldName, max, length))
	}
	return nil
}
