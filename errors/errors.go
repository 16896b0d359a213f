// Package errors 提供统一的应用错误模型与错误代码
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 预定义错误代码
const (
	// 通用错误代码
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"

	// 业务错误代码
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDuplicate     ErrorCode = "DUPLICATE_ERROR"
	ErrCodeDependency    ErrorCode = "DEPENDENCY_ERROR"
	ErrCodeConcurrency   ErrorCode = "CONCURRENCY_ERROR"
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
	ErrCodeProjection    ErrorCode = "PROJECTION_ERROR"

	// 基础设施错误代码
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
	ErrCodeCache    ErrorCode = "CACHE_ERROR"
	ErrCodeQueue    ErrorCode = "QUEUE_ERROR"
)

// IError 错误接口
type IError interface {
	error

	// Code 获取错误代码
	Code() ErrorCode

	// Message 获取错误消息
	Message() string

	// Cause 获取原始错误
	Cause() error

	// Details 获取错误详情
	Details() map[string]any

	// WithDetails 添加详情，返回自身便于链式调用
	WithDetails(details map[string]any) IError

	// WithContext 添加单个详情项
	WithContext(key string, value any) IError
}

// AppError 应用错误实现
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	details map[string]any
}

// NewError 创建新错误
func NewError(code ErrorCode, message string) IError {
	return &AppError{code: code, message: message}
}

// NewErrorWithCause 创建带原因的错误
func NewErrorWithCause(code ErrorCode, message string, cause error) IError {
	return &AppError{code: code, message: message, cause: cause}
}

// WrapError 包装已有错误
//
// 若 err 已经是 IError，则保留其代码与详情，仅叠加消息前缀；
// 否则以给定代码新建一个包装错误。
func WrapError(err error, code ErrorCode, message string) IError {
	if err == nil {
		return NewError(code, message)
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return &AppError{
			code:    appErr.code,
			message: message + ": " + appErr.message,
			cause:   appErr,
			details: appErr.details,
		}
	}
	return &AppError{code: code, message: message, cause: err}
}

// NewValidationError 创建验证错误
func NewValidationError(message string) IError {
	return NewError(ErrCodeValidation, message)
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string) IError {
	return NewError(ErrCodeNotFound, message)
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *AppError) Code() ErrorCode { return e.code }

func (e *AppError) Message() string { return e.message }

func (e *AppError) Cause() error { return e.cause }

func (e *AppError) Unwrap() error { return e.cause }

func (e *AppError) Details() map[string]any {
	if e.details == nil {
		return map[string]any{}
	}
	return e.details
}

func (e *AppError) WithDetails(details map[string]any) IError {
	if e.details == nil {
		e.details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.details[k] = v
	}
	return e
}

func (e *AppError) WithContext(key string, value any) IError {
	if e.details == nil {
		e.details = make(map[string]any, 1)
	}
	e.details[key] = value
	return e
}

// GetCode 提取错误代码；若非应用错误返回 ErrCodeInternal
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code
	}
	return ErrCodeInternal
}

// IsCode 判断错误链中是否存在指定代码的应用错误
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// IsValidation 判断是否为验证错误
func IsValidation(err error) bool { return IsCode(err, ErrCodeValidation) }

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool { return IsCode(err, ErrCodeNotFound) }

// IsConcurrency 判断是否为并发冲突错误
func IsConcurrency(err error) bool { return IsCode(err, ErrCodeConcurrency) }

var _ IError = (*AppError)(nil)
