package product

import (
	"context"
	"fmt"
	"sort"

	"presskit/eventing"
	"presskit/eventing/projection"
	"presskit/idgen"
	"presskit/logging"
	core "presskit/storage/database"
	sqlbuilder "presskit/storage/database/sql"
)

// Projection 产品读模型投影
type Projection struct {
	sqlc   sqlbuilder.ISql
	prefix string
	logger logging.ILogger
}

// NewProjection 创建产品投影
func NewProjection(db core.IDatabase, prefix string) *Projection {
	return &Projection{
		sqlc:   sqlbuilder.New(db),
		prefix: prefix,
		logger: logging.ComponentLogger("cms.product.projection"),
	}
}

// Table 主表名
func (p *Projection) Table() string { return p.prefix + "product" }

// MetaTable 元数据表名
func (p *Projection) MetaTable() string { return p.prefix + "productmeta" }

// Namespace 缓存失效命名空间
func (p *Projection) Namespace() string { return p.Table() }

// Schema 读模型建表语句
func (p *Projection) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + p.Table() + ` (
			product_id TEXT PRIMARY KEY,
			product_title TEXT NOT NULL,
			product_slug TEXT NOT NULL,
			product_body TEXT NOT NULL DEFAULT '',
			product_author TEXT NOT NULL,
			product_sku TEXT NOT NULL,
			product_price TEXT NOT NULL,
			product_currency TEXT NOT NULL,
			product_purchase_url TEXT NOT NULL DEFAULT '',
			product_show_in_menu INTEGER NOT NULL DEFAULT 0,
			product_show_in_search INTEGER NOT NULL DEFAULT 0,
			product_featured_image TEXT NOT NULL DEFAULT '',
			product_status TEXT NOT NULL,
			product_created TEXT NOT NULL,
			product_created_gmt TEXT NOT NULL,
			product_published TEXT NOT NULL,
			product_published_gmt TEXT NOT NULL,
			product_modified TEXT NOT NULL,
			product_modified_gmt TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + p.MetaTable() + ` (
			meta_id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			meta_key TEXT NOT NULL,
			meta_value TEXT NOT NULL,
			UNIQUE (product_id, meta_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p.prefix + `product_slug ON ` + p.Table() + ` (product_slug)`,
	}
}

// EnsureSchema 创建读模型表（幂等）
func (p *Projection) EnsureSchema(ctx context.Context) error {
	db := p.sqlc.GetDB()
	for _, stmt := range p.Schema() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure product read model schema: %w", err)
		}
	}
	return nil
}

// GetName 实现 IProjection 接口
func (p *Projection) GetName() string { return "cms.product" }

// GetSupportedEventTypes 实现 IProjection 接口
func (p *Projection) GetSupportedEventTypes() []string {
	return []string{
		EventProductWasCreated,
		EventProductTitleWasChanged,
		EventProductSlugWasChanged,
		EventProductBodyWasChanged,
		EventProductAuthorWasChanged,
		EventProductSkuWasChanged,
		EventProductPriceWasChanged,
		EventProductPurchaseURLWasChanged,
		EventProductShowInMenuWasChanged,
		EventProductShowInSearchWasChanged,
		EventProductFeaturedImageWasChanged,
		EventProductStatusWasChanged,
		EventProductPublishedWasChanged,
		EventProductModifiedWasChanged,
		EventProductMetaWasChanged,
		EventProductWasDeleted,
	}
}

// Handle 实现 IProjection 接口
func (p *Projection) Handle(ctx context.Context, evt eventing.IEvent) error {
	var err error
	switch e := evt.GetPayload().(type) {
	case *ProductWasCreated:
		err = p.insertRow(ctx, e)
	case *ProductTitleWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_title": e.Title})
	case *ProductSlugWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_slug": e.Slug})
	case *ProductBodyWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_body": e.Body})
	case *ProductAuthorWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_author": e.Author})
	case *ProductSkuWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_sku": e.Sku})
	case *ProductPriceWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{
			"product_price":    e.Price,
			"product_currency": e.Currency,
		})
	case *ProductPurchaseURLWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_purchase_url": e.PurchaseURL})
	case *ProductShowInMenuWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_show_in_menu": e.ShowInMenu})
	case *ProductShowInSearchWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_show_in_search": e.ShowInSearch})
	case *ProductFeaturedImageWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_featured_image": e.FeaturedImage})
	case *ProductStatusWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"product_status": e.Status})
	case *ProductPublishedWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{
			"product_published":     e.Published,
			"product_published_gmt": e.PublishedGMT,
		})
	case *ProductModifiedWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{
			"product_modified":     e.Modified,
			"product_modified_gmt": e.ModifiedGMT,
		})
	case *ProductMetaWasChanged:
		err = p.upsertMeta(ctx, e.ID, e.Meta)
	case *ProductWasDeleted:
		err = p.deleteRow(ctx, e.ID)
	default:
		err = fmt.Errorf("unexpected payload type %T for event %s", e, evt.GetType())
	}

	if err != nil {
		p.logger.Error(ctx, "product projection write failed",
			logging.String("event_type", evt.GetType()),
			logging.String("aggregate_id", evt.GetAggregateID()),
			logging.Error(err))
		return projection.NewError(p.GetName(), evt, err)
	}
	return nil
}

func (p *Projection) insertRow(ctx context.Context, e *ProductWasCreated) error {
	_, err := p.sqlc.InsertInto(p.Table()).
		Columns(
			"product_id", "product_title", "product_slug", "product_body",
			"product_author", "product_sku", "product_price", "product_currency",
			"product_purchase_url", "product_show_in_menu", "product_show_in_search",
			"product_featured_image", "product_status",
			"product_created", "product_created_gmt",
			"product_published", "product_published_gmt",
			"product_modified", "product_modified_gmt",
		).
		Values(
			e.ID, e.Title, e.Slug, e.Body,
			e.Author, e.Sku, e.Price, e.Currency,
			e.PurchaseURL, e.ShowInMenu, e.ShowInSearch,
			e.FeaturedImage, e.Status,
			e.Created, e.CreatedGMT,
			e.Published, e.PublishedGMT,
			e.Modified, e.ModifiedGMT,
		).
		Exec(ctx)
	if err != nil {
		return err
	}
	if len(e.Meta) > 0 {
		return p.upsertMeta(ctx, e.ID, e.Meta)
	}
	return nil
}

func (p *Projection) patch(ctx context.Context, id string, columns map[string]any) error {
	_, err := p.sqlc.Update(p.Table()).
		SetMap(columns).
		Where("product_id = ?", id).
		Exec(ctx)
	return err
}

// upsertMeta 逐键 update-or-insert；按键名排序保证写入顺序确定
func (p *Projection) upsertMeta(ctx context.Context, id string, meta map[string]string) error {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		_, err := p.sqlc.UpsertInto(p.MetaTable()).
			Columns("meta_id", "product_id", "meta_key", "meta_value").
			Values(idgen.New(), id, key, meta[key]).
			Key("product_id", "meta_key").
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// deleteRow 删除主表行并级联清理元数据行
func (p *Projection) deleteRow(ctx context.Context, id string) error {
	if _, err := p.sqlc.DeleteFrom(p.MetaTable()).Where("product_id = ?", id).Exec(ctx); err != nil {
		return err
	}
	_, err := p.sqlc.DeleteFrom(p.Table()).Where("product_id = ?", id).Exec(ctx)
	return err
}

var _ projection.IProjection = (*Projection)(nil)
