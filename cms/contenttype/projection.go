package contenttype

import (
	"context"
	"fmt"

	"presskit/eventing"
	"presskit/eventing/projection"
	"presskit/logging"
	core "presskit/storage/database"
	sqlbuilder "presskit/storage/database/sql"
)

// Projection 内容类型读模型投影
type Projection struct {
	sqlc   sqlbuilder.ISql
	prefix string
	logger logging.ILogger
}

// NewProjection 创建内容类型投影
func NewProjection(db core.IDatabase, prefix string) *Projection {
	return &Projection{
		sqlc:   sqlbuilder.New(db),
		prefix: prefix,
		logger: logging.ComponentLogger("cms.contenttype.projection"),
	}
}

// Table 主表名
func (p *Projection) Table() string { return p.prefix + "content_type" }

// Namespace 缓存失效命名空间
func (p *Projection) Namespace() string { return p.Table() }

// Schema 读模型建表语句
func (p *Projection) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + p.Table() + ` (
			content_type_id TEXT PRIMARY KEY,
			content_type_title TEXT NOT NULL,
			content_type_slug TEXT NOT NULL,
			content_type_description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p.prefix + `content_type_slug ON ` + p.Table() + ` (content_type_slug)`,
	}
}

// EnsureSchema 创建读模型表（幂等）
func (p *Projection) EnsureSchema(ctx context.Context) error {
	db := p.sqlc.GetDB()
	for _, stmt := range p.Schema() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure content type read model schema: %w", err)
		}
	}
	return nil
}

// GetName 实现 IProjection 接口
func (p *Projection) GetName() string { return "cms.contenttype" }

// GetSupportedEventTypes 实现 IProjection 接口
func (p *Projection) GetSupportedEventTypes() []string {
	return []string{
		EventContentTypeWasCreated,
		EventContentTypeTitleWasChanged,
		EventContentTypeSlugWasChanged,
		EventContentTypeDescriptionWasChanged,
		EventContentTypeWasDeleted,
	}
}

// Handle 实现 IProjection 接口
func (p *Projection) Handle(ctx context.Context, evt eventing.IEvent) error {
	var err error
	switch e := evt.GetPayload().(type) {
	case *ContentTypeWasCreated:
		_, err = p.sqlc.InsertInto(p.Table()).
			Columns("content_type_id", "content_type_title", "content_type_slug", "content_type_description").
			Values(e.ID, e.Title, e.Slug, e.Description).
			Exec(ctx)
	case *ContentTypeTitleWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_type_title": e.Title})
	case *ContentTypeSlugWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_type_slug": e.Slug})
	case *ContentTypeDescriptionWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"content_type_description": e.Description})
	case *ContentTypeWasDeleted:
		_, err = p.sqlc.DeleteFrom(p.Table()).Where("content_type_id = ?", e.ID).Exec(ctx)
	default:
		err = fmt.Errorf("unexpected payload type %T for event %s", e, evt.GetType())
	}

	if err != nil {
		p.logger.Error(ctx, "content type projection write failed",
			logging.String("event_type", evt.GetType()),
			logging.String("aggregate_id", evt.GetAggregateID()),
			logging.Error(err))
		return projection.NewError(p.GetName(), evt, err)
	}
	return nil
}

func (p *Projection) patch(ctx context.Context, id string, columns map[string]any) error {
	_, err := p.sqlc.Update(p.Table()).
		SetMap(columns).
		Where("content_type_id = ?", id).
		Exec(ctx)
	return err
}

var _ projection.IProjection = (*Projection)(nil)
