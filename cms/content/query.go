package content

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

// Row 内容读模型行
type Row struct {
	ID            string
	Title         string
	Slug          string
	Body          string
	Author        string
	Type          string
	Parent        *string
	Sidebar       int
	ShowInMenu    int
	ShowInSearch  int
	FeaturedImage string
	Status        string
	Created       string
	CreatedGMT    string
	Published     string
	PublishedGMT  string
	Modified      string
	ModifiedGMT   string
}

// Queries 内容查询（只读，绕过事件日志直查投影表）
type Queries struct {
	sqlc   sqlbuilder.ISql
	prefix string
	cache  *cache.Cache[string, *Row]
}

// NewQueries 创建内容查询；cache 可为 nil（无缓存直查）
func NewQueries(db core.IDatabase, prefix string, c *cache.Cache[string, *Row]) *Queries {
	return &Queries{sqlc: sqlbuilder.New(db), prefix: prefix, cache: c}
}

// Table 主表名
func (q *Queries) Table() string { return q.prefix + "content" }

// MetaTable 元数据表名
func (q *Queries) MetaTable() string { return q.prefix + "contentmeta" }

var rowColumns = []string{
	"content_id", "content_title", "content_slug", "content_body",
	"content_author", "content_type", "content_parent",
	"content_sidebar", "content_show_in_menu", "content_show_in_search",
	"content_featured_image", "content_status",
	"content_created", "content_created_gmt",
	"content_published", "content_published_gmt",
	"content_modified", "content_modified_gmt",
}

// FindByID 按 ID 查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByID(ctx context.Context, id values.ContentID) (*Row, error) {
	return q.findOne(ctx, "id:"+id.String(), "content_id = ?", id.String())
}

// FindBySlug 按别名查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindBySlug(ctx context.Context, slug string) (*Row, error) {
	return q.findOne(ctx, "slug:"+slug, "content_slug = ?", slug)
}

func (q *Queries) findOne(ctx context.Context, cacheKey, cond string, arg any) (*Row, error) {
	if q.cache != nil {
		if row, ok := q.cache.Get(cacheKey); ok {
			return row, nil
		}
	}

	row, err := scanRow(q.sqlc.Select(rowColumns...).From(q.Table()).Where(cond, arg).QueryRow(ctx))
	if err != nil {
		return nil, err
	}

	if q.cache != nil {
		q.cache.Set(cacheKey, row)
	}
	return row, nil
}

// FindMeta 返回实体的全部元数据键值
func (q *Queries) FindMeta(ctx context.Context, id values.ContentID) (map[string]string, error) {
	rows, err := q.sqlc.Select("meta_key", "meta_value").
		From(q.MetaTable()).
		Where("content_id = ?", id.String()).
		OrderBy("meta_key ASC").
		Query(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query content meta")
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan content meta row")
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to iterate content meta rows")
	}
	return meta, nil
}

func scanRow(r core.IRow) (*Row, error) {
	var row Row
	var parent sql.NullString
	err := r.Scan(
		&row.ID, &row.Title, &row.Slug, &row.Body,
		&row.Author, &row.Type, &parent,
		&row.Sidebar, &row.ShowInMenu, &row.ShowInSearch,
		&row.FeaturedImage, &row.Status,
		&row.Created, &row.CreatedGMT,
		&row.Published, &row.PublishedGMT,
		&row.Modified, &row.ModifiedGMT,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("content not found")
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan content row")
	}
	if parent.Valid {
		row.Parent = &parent.String
	}
	return &row, nil
}
