package contenttype

import (
	"context"
	"database/sql"
	stderrors "errors"

	"presskit/cache"
	"presskit/cms/values"
	"presskit/errors"
	core "presskit/storage/database"
	sqlbuilder "presskit/storage/database/sql"
)

// Row 内容类型读模型行
type Row struct {
	ID          string
	Title       string
	Slug        string
	Description string
}

// Queries 内容类型查询
type Queries struct {
	sqlc   sqlbuilder.ISql
	prefix string
	cache  *cache.Cache[string, *Row]
}

// NewQueries 创建内容类型查询；cache 可为 nil
func NewQueries(db core.IDatabase, prefix string, c *cache.Cache[string, *Row]) *Queries {
	return &Queries{sqlc: sqlbuilder.New(db), prefix: prefix, cache: c}
}

// Table 主表名
func (q *Queries) Table() string { return q.prefix + "content_type" }

// FindByID 按 ID 查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByID(ctx context.Context, id values.ContentTypeID) (*Row, error) {
	return q.findOne(ctx, "id:"+id.String(), "content_type_id = ?", id.String())
}

// FindBySlug 按类型别名查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindBySlug(ctx context.Context, slug string) (*Row, error) {
	return q.findOne(ctx, "slug:"+slug, "content_type_slug = ?", slug)
}

func (q *Queries) findOne(ctx context.Context, cacheKey, cond string, arg any) (*Row, error) {
	if q.cache != nil {
		if row, ok := q.cache.Get(cacheKey); ok {
			return row, nil
		}
	}

	var row Row
	err := q.sqlc.Select("content_type_id", "content_type_title", "content_type_slug", "content_type_description").
		From(q.Table()).
		Where(cond, arg).
		QueryRow(ctx).
		Scan(&row.ID, &row.Title, &row.Slug, &row.Description)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("content type not found")
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan content type row")
	}

	if q.cache != nil {
		q.cache.Set(cacheKey, &row)
	}
	return &row, nil
}
