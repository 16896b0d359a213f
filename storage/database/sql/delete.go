package sql

import (
	"context"
	"database/sql"
	"strings"

	core "presskit/storage/database"
)

type deleteBuilder struct {
	db core.IDatabase

	table string
	where []string
	args  []any
}

func (b *deleteBuilder) Where(cond string, args ...any) IDeleteBuilder {
	b.where = append(b.where, cond)
	b.args = append(b.args, args...)
	return b
}

func (b *deleteBuilder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	return sb.String(), b.args
}

func (b *deleteBuilder) Exec(ctx context.Context) (sql.Result, error) {
	if len(b.where) == 0 {
		// 全表删除必须显式写 SQL，避免误删
		panic("deleteBuilder: Where is required")
	}
	q, args := b.Build()
	return b.db.Exec(ctx, q, args...)
}
