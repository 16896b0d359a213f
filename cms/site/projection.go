package site

import (
	"context"
	"fmt"

	"presskit/eventing"
	"presskit/eventing/projection"
	"presskit/logging"
	core "presskit/storage/database"
	sqlbuilder "presskit/storage/database/sql"
)

// Projection 站点读模型投影
type Projection struct {
	sqlc   sqlbuilder.ISql
	prefix string
	logger logging.ILogger
}

// NewProjection 创建站点投影
func NewProjection(db core.IDatabase, prefix string) *Projection {
	return &Projection{
		sqlc:   sqlbuilder.New(db),
		prefix: prefix,
		logger: logging.ComponentLogger("cms.site.projection"),
	}
}

// Table 主表名
func (p *Projection) Table() string { return p.prefix + "site" }

// Namespace 缓存失效命名空间
func (p *Projection) Namespace() string { return p.Table() }

// Schema 读模型建表语句
func (p *Projection) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + p.Table() + ` (
			site_id TEXT PRIMARY KEY,
			site_key TEXT NOT NULL,
			site_name TEXT NOT NULL,
			site_slug TEXT NOT NULL,
			site_domain TEXT NOT NULL,
			site_mapping TEXT NOT NULL DEFAULT '',
			site_path TEXT NOT NULL,
			site_owner TEXT NOT NULL,
			site_status TEXT NOT NULL,
			site_registered TEXT NOT NULL,
			site_modified TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + p.prefix + `site_key ON ` + p.Table() + ` (site_key)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p.prefix + `site_slug ON ` + p.Table() + ` (site_slug)`,
	}
}

// EnsureSchema 创建读模型表（幂等）
func (p *Projection) EnsureSchema(ctx context.Context) error {
	db := p.sqlc.GetDB()
	for _, stmt := range p.Schema() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure site read model schema: %w", err)
		}
	}
	return nil
}

// GetName 实现 IProjection 接口
func (p *Projection) GetName() string { return "cms.site" }

// GetSupportedEventTypes 实现 IProjection 接口
func (p *Projection) GetSupportedEventTypes() []string {
	return []string{
		EventSiteWasCreated,
		EventSiteNameWasChanged,
		EventSiteSlugWasChanged,
		EventSiteDomainWasChanged,
		EventSiteMappingWasChanged,
		EventSitePathWasChanged,
		EventSiteOwnerWasChanged,
		EventSiteStatusWasChanged,
		EventSiteModifiedWasChanged,
		EventSiteWasDeleted,
	}
}

// Handle 实现 IProjection 接口
func (p *Projection) Handle(ctx context.Context, evt eventing.IEvent) error {
	var err error
	switch e := evt.GetPayload().(type) {
	case *SiteWasCreated:
		_, err = p.sqlc.InsertInto(p.Table()).
			Columns("site_id", "site_key", "site_name", "site_slug", "site_domain",
				"site_mapping", "site_path", "site_owner", "site_status",
				"site_registered", "site_modified").
			Values(e.ID, e.Key, e.Name, e.Slug, e.Domain,
				e.Mapping, e.Path, e.Owner, e.Status,
				e.Registered, e.Modified).
			Exec(ctx)
	case *SiteNameWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_name": e.Name})
	case *SiteSlugWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_slug": e.Slug})
	case *SiteDomainWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_domain": e.Domain})
	case *SiteMappingWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_mapping": e.Mapping})
	case *SitePathWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_path": e.Path})
	case *SiteOwnerWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_owner": e.Owner})
	case *SiteStatusWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_status": e.Status})
	case *SiteModifiedWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"site_modified": e.Modified})
	case *SiteWasDeleted:
		_, err = p.sqlc.DeleteFrom(p.Table()).Where("site_id = ?", e.ID).Exec(ctx)
	default:
		err = fmt.Errorf("unexpected payload type %T for event %s", e, evt.GetType())
	}

	if err != nil {
		p.logger.Error(ctx, "site projection write failed",
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
		Where("site_id = ?", id).
		Exec(ctx)
	return err
}

var _ projection.IProjection = (*Projection)(nil)
