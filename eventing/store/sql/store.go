// Package sql 基于通用 SQL 接口的事件存储实现
package sql

import (
	"context"
	"fmt"

	"presskit/eventing"
	"presskit/eventing/registry"
	"presskit/eventing/store"
	"presskit/storage/database"
)

var _ store.IEventStore = (*SQLEventStore)(nil)

// SQLEventStore 基于通用 SQL 接口的事件存储
//
// 表结构（见 Schema）：每个事件一行，(aggregate_id, version) 唯一，
// 版本号为聚合内的追加序列号。载荷以 JSON 存储，读取时通过事件
// 注册表还原为类型化的领域事件。
type SQLEventStore struct {
	db        database.IDatabase
	tableName string
	registry  *registry.Registry
}

// NewSQLEventStore 创建 SQL 事件存储
func NewSQLEventStore(db database.IDatabase, tableName string, reg *registry.Registry) *SQLEventStore {
	if tableName == "" {
		tableName = "domain_events"
	}
	return &SQLEventStore{db: db, tableName: tableName, registry: reg}
}

// Init 检查底层连接可用性
func (s *SQLEventStore) Init(ctx context.Context) error { return s.db.Ping(ctx) }

// GetTableName 返回事件表名
func (s *SQLEventStore) GetTableName() string { return s.tableName }

// Schema 返回事件表的建表语句（SQLite/MySQL 兼容的保守子集）
func (s *SQLEventStore) Schema() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    aggregate_id TEXT NOT NULL,
    aggregate_type TEXT NOT NULL,
    version INTEGER NOT NULL,
    schema_version INTEGER NOT NULL,
    timestamp TEXT NOT NULL,
    payload TEXT NOT NULL,
    metadata TEXT NOT NULL,
    UNIQUE(aggregate_id, version)
)`, s.tableName)
}

// EnsureSchema 创建事件表（若不存在）
func (s *SQLEventStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, s.Schema()); err != nil {
		return eventing.NewStoreFailedError("create event table failed", err)
	}
	return nil
}
