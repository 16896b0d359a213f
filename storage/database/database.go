// Package database 提供通用的数据库抽象接口
//
// 设计目标：
// 1. 隔离具体的 SQL 驱动
// 2. 提供统一的数据库操作接口
// 3. 支持事务操作
// 4. 便于单元测试（Mock）
package database

import (
	"context"
	"database/sql"
)

// IDatabase 通用数据库接口
type IDatabase interface {
	// 查询操作
	Query(ctx context.Context, query string, args ...any) (IRows, error)
	QueryRow(ctx context.Context, query string, args ...any) IRow

	// 执行操作
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// 事务操作
	Begin(ctx context.Context) (ITransaction, error)

	// 连接管理
	Ping(ctx context.Context) error
	Close() error

	// Raw 获取原始连接（用于特殊场景）
	Raw() any
}

// IDialectNameProvider 可选接口：提供底层数据库方言名称
//
// 实现方应返回诸如 "mysql"、"sqlite"、"postgres" 等 driver 名，
// 供上层推断方言能力（占位符形式、唯一键错误识别等）。
type IDialectNameProvider interface {
	// GetDialectName 返回底层数据库方言名称
	GetDialectName() string
}

// ITransaction 事务接口
type ITransaction interface {
	IDatabase

	// 事务控制
	Commit() error
	Rollback() error
}

// IRows 查询结果集接口
type IRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// IRow 单行结果接口
type IRow interface {
	Scan(dest ...any) error
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver   string // sqlite, mysql, postgres
	Database string // DSN 或文件路径

	// 连接池配置（可选，0 表示使用驱动默认值）
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}
