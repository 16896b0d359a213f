package content

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

// Projection 内容读模型投影
//
// 每类事件对应一次写入：创建事件整行插入，字段变更事件按列
// 补丁，删除事件删行并级联清理元数据表。所有存储错误包装为
// 统一的投影错误族。
type Projection struct {
	sqlc   sqlbuilder.ISql
	prefix string
	logger logging.ILogger
}

// NewProjection 创建内容投影
func NewProjection(db core.IDatabase, prefix string) *Projection {
	return &Projection{
		sqlc:   sqlbuilder.New(db),
		prefix: prefix,
		logger: logging.ComponentLogger("cms.content.projection"),
	}
}

// Table 主表名
func (p *Projection) Table() string { return p.prefix + "content" }

// MetaTable 元数据表名
func (p *Projection) MetaTable() string { return p.prefix + "contentmeta" }

// Namespace 缓存失效命名空间
func (p *Projection) Namespace() string { return p.Table() }

// Schema 读模型建表语句
func (p *Projection) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + p.Table() + ` (
			content_id TEXT PRIMARY KEY,
			content_title TEXT NOT NULL,
			content_slug TEXT NOT NULL,
			content_body TEXT NOT NULL DEFAULT '',
			content_author TEXT NOT NULL,
			content_type TEXT NOT NULL,
			content_parent TEXT,
			content_sidebar INTEGER NOT NULL DEFAULT 0,
			content_show_in_menu INTEGER NOT NULL DEFAULT 0,
			content_show_in_search INTEGER NOT NULL DEFAULT 0,
			content_featured_image TEXT NOT NULL DEFAULT '',
			content_status TEXT NOT NULL,
			content_created TEXT NOT NULL,
			content_created_gmt TEXT NOT NULL,
			content_published TEXT NOT NULL,
			content_published_gmt TEXT NOT NULL,
			content_modified TEXT NOT NULL,
			content_modified_gmt TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + p.MetaTable() + ` (
			meta_id TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			meta_key TEXT NOT NULL,
			meta_value TEXT NOT NULL,
			UNIQUE (content_id, meta_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p.prefix + `content_slug ON ` + p.Table() + ` (content_slug)`,
	}
}

// EnsureSchema 创建读模型表（幂等）
func (p *Projection) EnsureSchema(ctx context.Context) error {
	db := p.sqlc.GetDB()
	for _, stmt := range p.Schema() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure content read model schema: %w", err)
		}
	}
	return nil
}

// GetName 实现 IProjection 接口
func (p *Projection) GetName() string { return "cms.content" }

// GetSupportedEventTypes 实现 IProjection 接口
func (p *Projection) GetSupportedEventTypes() []string {
	return []string{
		EventContentWasCreated,
		EventContentTitleWasChanged,
		EventContentSlugWasChanged,
		EventContentBodyWasChanged,
		EventContentAuthorWasChanged,
		EventContentTypeWasChanged,
		EventContentParentWasChanged,
		EventContentParentWasRemoved,
		EventContentSidebarWasChanged,
		EventContentShowInMenuWasChanged,
		EventContentShowInSearchWasChanged,
		EventContentFeaturedImageWasChanged,
		EventContentStatusWasChanged,
		EventContentPublishedWasChanged,
		EventContentModifiedWasChanged,
		EventContentMetaWasChanged,
		EventContentWasDeleted,
	}
}

// Handle 实现 IProjection 接口
func (p *Projection) Handle(ctx context.Context, evt eventing.IEvent) error {
	var err error
	switch e := evt.GetPayload().(type) {
	case *ContentWasCreated:
		err = p.insertRow(ctx, e)
	case *ContentTitleWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_title": e.Title})
	case *ContentSlugWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_slug": e.Slug})
	case *ContentBodyWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_body": e.Body})
	case *ContentAuthorWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_author": e.Author})
	case *ContentTypeWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_type": e.Type})
	case *ContentParentWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_parent": e.Parent})
	case *ContentParentWasRemoved:
		err = p.patch(ctx, e.ID, map[string]any{"content_parent": nil})
	case *ContentSidebarWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_sidebar": e.Sidebar})
	case *ContentShowInMenuWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_show_in_menu": e.ShowInMenu})
	case *ContentShowInSearchWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_show_in_search": e.ShowInSearch})
	case *ContentFeaturedImageWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_featured_image": e.FeaturedImage})
	case *ContentStatusWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_status": e.Status})
	case *ContentPublishedWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{
			"content_published":     e.Published,
			"content_published_gmt": e.PublishedGMT,
		})
	case *ContentModifiedWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{
			"content_modified":     e.Modified,
			"content_modified_gmt": e.ModifiedGMT,
		})
	case *ContentMetaWasChanged:
		err = p.upsertMeta(ctx, e.ID, e.Meta)
	case *ContentWasDeleted:
		err = p.deleteRow(ctx, e.ID)
	default:
		err = fmt.Errorf("unexpected payload type %T for event %s", e, evt.GetType())
	}

	if err != nil {
		p.logger.Error(ctx, "content projection write failed",
			logging.String("event_type", evt.GetType()),
			logging.String("aggregate_id", evt.GetAggregateID()),
			logging.Error(err))
		return projection.NewError(p.GetName(), evt, err)
	}
	return nil
}

func (p *Projection) insertRow(ctx context.Context, e *ContentWasCreated) error {
	_, err := p.sqlc.InsertInto(p.Table()).
		Columns(
			"content_id", "content_title", "content_slug", "content_body",
			"content_author", "content_type", "content_parent",
			"content_sidebar", "content_show_in_menu", "content_show_in_search",
			"content_featured_image", "content_status",
			"content_created", "content_created_gmt",
			"content_published", "content_published_gmt",
			"content_modified", "content_modified_gmt",
		).
		Values(
			e.ID, e.Title, e.Slug, e.Body,
			e.Author, e.Type, e.Parent,
			e.Sidebar, e.ShowInMenu, e.ShowInSearch,
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
		Where("content_id = ?", id).
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
			Columns("meta_id", "content_id", "meta_key", "meta_value").
			Values(idgen.New(), id, key, meta[key]).
			Key("content_id", "meta_key").
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// deleteRow 删除主表行并级联清理元数据行
func (p *Projection) deleteRow(ctx context.Context, id string) error {
	if _, err := p.sqlc.DeleteFrom(p.MetaTable()).Where("content_id = ?", id).Exec(ctx); err != nil {
		return err
	}
	_, err := p.sqlc.DeleteFrom(p.Table()).Where("content_id = ?", id).Exec(ctx)
	return err
}

var _ projection.IProjection = (*Projection)(nil)
