package eventing

import (
	"errors"
	"fmt"
)

// 错误代码常量
const (
	ErrCodeAggregateNotFound = "AGGREGATE_NOT_FOUND"
	ErrCodeInvalidEvent      = "INVALID_EVENT"
	ErrCodeStoreFailed       = "STORE_FAILED"
	ErrCodeSerializePayload  = "SERIALIZE_PAYLOAD_FAILED"
	ErrCodeHydratePayload    = "HYDRATE_PAYLOAD_FAILED"
)

// EventStoreError 事件存储错误基类
type EventStoreError struct {
	Code      string
	Message   string
	Cause     error
	EventID   string
	EventType string
}

func (e *EventStoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EventStoreError) Unwrap() error { return e.Cause }

// Is 支持 errors.Is 按错误代码匹配预定义错误值
func (e *EventStoreError) Is(target error) bool {
	t, ok := target.(*EventStoreError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 预定义错误值（按 Code 匹配）
var (
	ErrAggregateNotFound = &EventStoreError{Code: ErrCodeAggregateNotFound, Message: "aggregate not found"}
	ErrInvalidEvent      = &EventStoreError{Code: ErrCodeInvalidEvent, Message: "invalid event"}
	ErrStoreFailed       = &EventStoreError{Code: ErrCodeStoreFailed, Message: "event store operation failed"}
)

// NewStoreFailedError 创建存储失败错误
func NewStoreFailedError(message string, cause error) *EventStoreError {
	return &EventStoreError{Code: ErrCodeStoreFailed, Message: message, Cause: cause}
}

// NewStoreFailedErrorWithEvent 创建带事件信息的存储失败错误
func NewStoreFailedErrorWithEvent(message string, cause error, eventID, eventType string) *EventStoreError {
	return &EventStoreError{Code: ErrCodeStoreFailed, Message: message, Cause: cause, EventID: eventID, EventType: eventType}
}

// NewInvalidEventError 创建无效事件错误
func NewInvalidEventError(eventID, eventType, message string) *EventStoreError {
	return &EventStoreError{Code: ErrCodeInvalidEvent, Message: message, EventID: eventID, EventType: eventType}
}

// NewInvalidEventErrorWithCause 创建带原因的无效事件错误
func NewInvalidEventErrorWithCause(eventID, eventType, message string, cause error) *EventStoreError {
	return &EventStoreError{Code: ErrCodeInvalidEvent, Message: message, Cause: cause, EventID: eventID, EventType: eventType}
}

// ConcurrencyError 并发冲突错误
//
// ConcurrencyError 本身就是业务错误的最终形态，不再包裹下层错误；
// 调用方应通过 errors.As 识别并发冲突并重试整个 load-mutate-append 流程。
type ConcurrencyError struct {
	AggregateID     string
	ExpectedVersion uint64
	ActualVersion   uint64
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency conflict: aggregate %s expected version %d, actual version %d",
		e.AggregateID, e.ExpectedVersion, e.ActualVersion)
}

func NewConcurrencyError(aggregateID string, expected, actual uint64) *ConcurrencyError {
	return &ConcurrencyError{AggregateID: aggregateID, ExpectedVersion: expected, ActualVersion: actual}
}

// IsConcurrencyError 判断错误链中是否存在并发冲突
func IsConcurrencyError(err error) bool {
	var ce *ConcurrencyError
	return errors.As(err, &ce)
}

// EventAlreadyExistsError 事件重复追加错误
type EventAlreadyExistsError struct {
	EventID     string
	AggregateID string
	Version     uint64
}

func (e *EventAlreadyExistsError) Error() string {
	return fmt.Sprintf("event %s already exists for aggregate %s version %d", e.EventID, e.AggregateID, e.Version)
}

func NewEventAlreadyExistsError(eventID, aggregateID string, version uint64) *EventAlreadyExistsError {
	return &EventAlreadyExistsError{EventID: eventID, AggregateID: aggregateID, Version: version}
}
