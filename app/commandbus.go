package app

import (
	"context"
	"fmt"
	"sync"

	"presskit/errors"
	"presskit/eventing"
	"presskit/logging"
	"presskit/retry"
)

// ICommand 命令标记接口
type ICommand interface {
	CommandName() string
}

// CommandHandlerFunc 命令处理函数
type CommandHandlerFunc func(ctx context.Context, cmd ICommand) error

// CommandBus 同步命令总线
//
// 每个命令名精确绑定一个处理器，分发在调用方 goroutine 内完成。
type CommandBus struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandlerFunc
	logger   logging.ILogger
}

// NewCommandBus 创建命令总线
func NewCommandBus() *CommandBus {
	return &CommandBus{
		handlers: make(map[string]CommandHandlerFunc),
		logger:   logging.ComponentLogger("app.commandbus"),
	}
}

// Register 绑定命令名到处理器；重复绑定返回错误
func (b *CommandBus) Register(name string, handler CommandHandlerFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("command handler cannot be nil for %s", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}
	b.handlers[name] = handler
	return nil
}

// MustRegister 绑定命令名到处理器（失败 panic）
func (b *CommandBus) MustRegister(name string, handler CommandHandlerFunc) {
	if err := b.Register(name, handler); err != nil {
		panic(err)
	}
}

// Dispatch 分发命令到绑定的处理器
func (b *CommandBus) Dispatch(ctx context.Context, cmd ICommand) error {
	b.mu.RLock()
	handler, ok := b.handlers[cmd.CommandName()]
	b.mu.RUnlock()
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("no handler registered for command %s", cmd.CommandName()))
	}

	if err := handler(ctx, cmd); err != nil {
		b.logger.Warn(ctx, "command rejected",
			logging.String("command", cmd.CommandName()),
			logging.Error(err))
		return err
	}
	return nil
}

// DispatchWithRetry 分发命令，版本冲突时重放整个 load-mutate-commit 流程
func (b *CommandBus) DispatchWithRetry(ctx context.Context, cmd ICommand, cfg retry.Config) error {
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = eventing.IsConcurrencyError
	}
	return retry.Do(ctx, func(ctx context.Context) error {
		return b.Dispatch(ctx, cmd)
	}, cfg)
}
