// Package retry 提供带指数退避的重试执行
//
// 乐观并发下的版本冲突通过重放整个 load-mutate-commit 流程解决，
// 本包是该重试循环的通用载体。
package retry

import (
	"context"
	"time"
)

// Operation 可重试的操作
type Operation func(ctx context.Context) error

// Config 重试配置
//
// IsRetryable 为空时重试全部错误。
type Config struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64
	MaxDelay      time.Duration
	IsRetryable   func(error) bool
}

// DefaultConfig 面向短时写冲突的缺省配置：共 3 次尝试，2ms 起步指数退避
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  2 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      1 * time.Second,
	}
}

// Do 执行操作，失败且可重试时按指数退避重试
//
// 返回首个不可重试的错误，或最后一次尝试的错误。
func Do(ctx context.Context, op Operation, cfg Config) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if cfg.IsRetryable != nil && !cfg.IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}
		if delay > 0 {
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		}
	}
	return lastErr
}
