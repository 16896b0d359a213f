package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	core "presskit/storage/database"
	"presskit/storage/database/dialect"
)

// upsertBuilder 以 insert-then-update 的方式实现跨方言 UPSERT：
// 先尝试 INSERT，唯一键冲突时改为按 Key 列 UPDATE 其余列。
type upsertBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table      string
	columns    []string
	values     []any
	keyColumns []string
}

func (b *upsertBuilder) Columns(cols ...string) IUpsertBuilder {
	b.columns = cols
	return b
}

func (b *upsertBuilder) Values(vals ...any) IUpsertBuilder {
	b.values = vals
	return b
}

func (b *upsertBuilder) Key(cols ...string) IUpsertBuilder {
	b.keyColumns = cols
	return b
}

func (b *upsertBuilder) Exec(ctx context.Context) (sql.Result, error) {
	if len(b.columns) == 0 {
		return nil, fmt.Errorf("upsert: Columns is required")
	}
	if len(b.values) != len(b.columns) {
		return nil, fmt.Errorf("upsert: values length mismatch columns length")
	}
	if len(b.keyColumns) == 0 {
		return nil, fmt.Errorf("upsert: Key is required")
	}

	ins := &insertBuilder{db: b.db, table: b.table, columns: b.columns, rows: [][]any{b.values}}
	insertSQL, insertArgs := ins.Build()
	res, err := b.db.Exec(ctx, insertSQL, insertArgs...)
	if err == nil {
		return res, nil
	}
	if !b.dialect.IsUniqueViolation(err) {
		return nil, err
	}

	colIndex := func(col string) int {
		for i, c := range b.columns {
			if c == col {
				return i
			}
		}
		return -1
	}

	whereParts := make([]string, 0, len(b.keyColumns))
	whereArgs := make([]any, 0, len(b.keyColumns))
	for _, key := range b.keyColumns {
		idx := colIndex(key)
		if idx < 0 {
			return nil, fmt.Errorf("upsert: key column %s not found in Columns", key)
		}
		whereParts = append(whereParts, key+" = ?")
		whereArgs = append(whereArgs, b.values[idx])
	}

	upd := &updateBuilder{db: b.db, table: b.table}
	for i, col := range b.columns {
		isKey := false
		for _, key := range b.keyColumns {
			if key == col {
				isKey = true
				break
			}
		}
		if isKey {
			continue
		}
		upd.Set(col, b.values[i])
	}
	upd.Where(strings.Join(whereParts, " AND "), whereArgs...)

	updateSQL, updateArgs := upd.Build()
	return b.db.Exec(ctx, updateSQL, updateArgs...)
}
