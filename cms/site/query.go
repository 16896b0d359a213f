package site

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

// Row 站点读模型行
type Row struct {
	ID         string
	Key        string
	Name       string
	Slug       string
	Domain     string
	Mapping    string
	Path       string
	Owner      string
	Status     string
	Registered string
	Modified   string
}

// Queries 站点查询
type Queries struct {
	sqlc   sqlbuilder.ISql
	prefix string
	cache  *cache.Cache[string, *Row]
}

// NewQueries 创建站点查询；cache 可为 nil
func NewQueries(db core.IDatabase, prefix string, c *cache.Cache[string, *Row]) *Queries {
	return &Queries{sqlc: sqlbuilder.New(db), prefix: prefix, cache: c}
}

// Table 主表名
func (q *Queries) Table() string { return q.prefix + "site" }

// FindByID 按 ID 查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByID(ctx context.Context, id values.SiteID) (*Row, error) {
	return q.findOne(ctx, "id:"+id.String(), "site_id = ?", id.String())
}

// FindByKey 按站点键查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByKey(ctx context.Context, key string) (*Row, error) {
	return q.findOne(ctx, "key:"+key, "site_key = ?", key)
}

// FindBySlug 按别名查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindBySlug(ctx context.Context, slug string) (*Row, error) {
	return q.findOne(ctx, "slug:"+slug, "site_slug = ?", slug)
}

func (q *Queries) findOne(ctx context.Context, cacheKey, cond string, arg any) (*Row, error) {
	if q.cache != nil {
		if row, ok := q.cache.Get(cacheKey); ok {
			return row, nil
		}
	}

	var row Row
	err := q.sqlc.Select("site_id", "site_key", "site_name", "site_slug", "site_domain",
		"site_mapping", "site_path", "site_owner", "site_status",
		"site_registered", "site_modified").
		From(q.Table()).
		Where(cond, arg).
		QueryRow(ctx).
		Scan(&row.ID, &row.Key, &row.Name, &row.Slug, &row.Domain,
			&row.Mapping, &row.Path, &row.Owner, &row.Status,
			&row.Registered, &row.Modified)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("site not found")
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan site row")
	}

	if q.cache != nil {
		q.cache.Set(cacheKey, &row)
	}
	return &row, nil
}
