package sql

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	core "presskit/storage/database"
)

type updateBuilder struct {
	db core.IDatabase

	table     string
	setCols   []string
	setArgs   []any
	where     []string
	whereArgs []any
}

func (b *updateBuilder) Set(column string, val any) IUpdateBuilder {
	b.setCols = append(b.setCols, column)
	b.setArgs = append(b.setArgs, val)
	return b
}

// SetMap 批量设置列，顺序按列名排序以保证生成 SQL 的确定性
func (b *updateBuilder) SetMap(values map[string]any) IUpdateBuilder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

func (b *updateBuilder) Where(cond string, args ...any) IUpdateBuilder {
	b.where = append(b.where, cond)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

func (b *updateBuilder) Build() (string, []any) {
	if len(b.setCols) == 0 {
		panic("updateBuilder: Set is required")
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")

	for i, col := range b.setCols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col)
		sb.WriteString(" = ?")
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}

	args := make([]any, 0, len(b.setArgs)+len(b.whereArgs))
	args = append(args, b.setArgs...)
	args = append(args, b.whereArgs...)
	return sb.String(), args
}

func (b *updateBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args := b.Build()
	return b.db.Exec(ctx, q, args...)
}
