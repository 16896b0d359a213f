package product

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

// Row 产品读模型行
type Row struct {
	ID            string
	Title         string
	Slug          string
	Body          string
	Author        string
	Sku           string
	Price         string
	Currency      string
	PurchaseURL   string
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

// Queries 产品查询
type Queries struct {
	sqlc   sqlbuilder.ISql
	prefix string
	cache  *cache.Cache[string, *Row]
}

// NewQueries 创建产品查询；cache 可为 nil
func NewQueries(db core.IDatabase, prefix string, c *cache.Cache[string, *Row]) *Queries {
	return &Queries{sqlc: sqlbuilder.New(db), prefix: prefix, cache: c}
}

// Table 主表名
func (q *Queries) Table() string { return q.prefix + "product" }

// MetaTable 元数据表名
func (q *Queries) MetaTable() string { return q.prefix + "productmeta" }

var rowColumns = []string{
	"product_id", "product_title", "product_slug", "product_body",
	"product_author", "product_sku", "product_price", "product_currency",
	"product_purchase_url", "product_show_in_menu", "product_show_in_search",
	"product_featured_image", "product_status",
	"product_created", "product_created_gmt",
	"product_published", "product_published_gmt",
	"product_modified", "product_modified_gmt",
}

// FindByID 按 ID 查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByID(ctx context.Context, id values.ProductID) (*Row, error) {
	return q.findOne(ctx, "id:"+id.String(), "product_id = ?", id.String())
}

// FindBySlug 按别名查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindBySlug(ctx context.Context, slug string) (*Row, error) {
	return q.findOne(ctx, "slug:"+slug, "product_slug = ?", slug)
}

func (q *Queries) findOne(ctx context.Context, cacheKey, cond string, arg any) (*Row, error) {
	if q.cache != nil {
		if row, ok := q.cache.Get(cacheKey); ok {
			return row, nil
		}
	}

	var row Row
	err := q.sqlc.Select(rowColumns...).
		From(q.Table()).
		Where(cond, arg).
		QueryRow(ctx).
		Scan(
			&row.ID, &row.Title, &row.Slug, &row.Body,
			&row.Author, &row.Sku, &row.Price, &row.Currency,
			&row.PurchaseURL, &row.ShowInMenu, &row.ShowInSearch,
			&row.FeaturedImage, &row.Status,
			&row.Created, &row.CreatedGMT,
			&row.Published, &row.PublishedGMT,
			&row.Modified, &row.ModifiedGMT,
		)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("product not found")
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan product row")
	}

	if q.cache != nil {
		q.cache.Set(cacheKey, &row)
	}
	return &row, nil
}

// FindMeta 返回实体的全部元数据键值
func (q *Queries) FindMeta(ctx context.Context, id values.ProductID) (map[string]string, error) {
	rows, err := q.sqlc.Select("meta_key", "meta_value").
		From(q.MetaTable()).
		Where("product_id = ?", id.String()).
		OrderBy("meta_key ASC").
		Query(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query product meta")
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan product meta row")
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to iterate product meta rows")
	}
	return meta, nil
}
