// Package projection 定义读模型投影接口与同步分发器
package projection

import (
	"context"
	"fmt"

	"presskit/eventing"
)

// IProjection 投影接口
//
// 投影将领域事件镜像到查询优化的读模型表。
// 每个投影声明其订阅的事件类型集合；Handle 对每个事件执行一次
// 读模型写入（创建事件整行插入、变更事件按列修补、删除事件删行）。
type IProjection interface {
	// GetName 投影名称（用于日志与错误归因）
	GetName() string

	// GetSupportedEventTypes 返回订阅的事件类型名
	GetSupportedEventTypes() []string

	// Handle 处理单个事件
	//
	// 任何底层存储错误都应包装为 *Error 返回，
	// 使命令处理层只需捕获一种投影错误族。
	Handle(ctx context.Context, evt eventing.IEvent) error
}

// Error 投影错误
//
// 所有读模型写入失败的统一包装：调用方无需关心具体是哪张表、
// 哪种操作失败。
type Error struct {
	Projection string
	EventID    string
	EventType  string
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("projection %s failed on event %s (%s): %v", e.Projection, e.EventID, e.EventType, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError 创建投影错误
func NewError(projection string, evt eventing.IEvent, cause error) *Error {
	return &Error{
		Projection: projection,
		EventID:    evt.GetID(),
		EventType:  evt.GetType(),
		Cause:      cause,
	}
}
