package user

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

// Projection 用户读模型投影
type Projection struct {
	sqlc   sqlbuilder.ISql
	prefix string
	logger logging.ILogger
}

// NewProjection 创建用户投影
func NewProjection(db core.IDatabase, prefix string) *Projection {
	return &Projection{
		sqlc:   sqlbuilder.New(db),
		prefix: prefix,
		logger: logging.ComponentLogger("cms.user.projection"),
	}
}

// Table 主表名
func (p *Projection) Table() string { return p.prefix + "user" }

// MetaTable 元数据表名
func (p *Projection) MetaTable() string { return p.prefix + "usermeta" }

// Namespace 缓存失效命名空间
func (p *Projection) Namespace() string { return p.Table() }

// Schema 读模型建表语句
func (p *Projection) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + p.Table() + ` (
			user_id TEXT PRIMARY KEY,
			user_login TEXT NOT NULL,
			user_fname TEXT NOT NULL,
			user_lname TEXT NOT NULL,
			user_email TEXT NOT NULL,
			user_url TEXT NOT NULL DEFAULT '',
			user_timezone TEXT NOT NULL,
			user_locale TEXT NOT NULL,
			user_registered TEXT NOT NULL,
			user_modified TEXT NOT NULL DEFAULT '',
			user_activation_key TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS ` + p.MetaTable() + ` (
			meta_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			meta_key TEXT NOT NULL,
			meta_value TEXT NOT NULL,
			UNIQUE (user_id, meta_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p.prefix + `user_login ON ` + p.Table() + ` (user_login)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p.prefix + `user_email ON ` + p.Table() + ` (user_email)`,
	}
}

// EnsureSchema 创建读模型表（幂等）
func (p *Projection) EnsureSchema(ctx context.Context) error {
	db := p.sqlc.GetDB()
	for _, stmt := range p.Schema() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure user read model schema: %w", err)
		}
	}
	return nil
}

// GetName 实现 IProjection 接口
func (p *Projection) GetName() string { return "cms.user" }

// GetSupportedEventTypes 实现 IProjection 接口
func (p *Projection) GetSupportedEventTypes() []string {
	return []string{
		EventUserWasCreated,
		EventUserLoginWasChanged,
		EventUserNameWasChanged,
		EventUserEmailWasChanged,
		EventUserUrlWasChanged,
		EventUserTimezoneWasChanged,
		EventUserLocaleWasChanged,
		EventUserModifiedWasChanged,
		EventUserActivationKeyWasReset,
		EventUserMetaWasChanged,
		EventUserWasDeleted,
	}
}

// Handle 实现 IProjection 接口
func (p *Projection) Handle(ctx context.Context, evt eventing.IEvent) error {
	var err error
	switch e := evt.GetPayload().(type) {
	case *UserWasCreated:
		err = p.insertRow(ctx, e)
	case *UserLoginWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"user_login": e.Login})
	case *UserNameWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{
			"user_fname": e.Fname,
			"user_lname": e.Lname,
		})
	case *UserEmailWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"user_email": e.Email})
	case *UserUrlWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"user_url": e.Url})
	case *UserTimezoneWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"user_timezone": e.Timezone})
	case *UserLocaleWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"user_locale": e.Locale})
	case *UserModifiedWasChanged:
		err = p.patch(ctx, e.ID, map[string]any{"user_modified": e.Modified})
	case *UserActivationKeyWasReset:
		err = p.patch(ctx, e.ID, map[string]any{"user_activation_key": e.ActivationKey})
	case *UserMetaWasChanged:
		err = p.upsertMeta(ctx, e.ID, e.Meta)
	case *UserWasDeleted:
		err = p.deleteRow(ctx, e.ID)
	default:
		err = fmt.Errorf("unexpected payload type %T for event %s", e, evt.GetType())
	}

	if err != nil {
		p.logger.Error(ctx, "user projection write failed",
			logging.String("event_type", evt.GetType()),
			logging.String("aggregate_id", evt.GetAggregateID()),
			logging.Error(err))
		return projection.NewError(p.GetName(), evt, err)
	}
	return nil
}

func (p *Projection) insertRow(ctx context.Context, e *UserWasCreated) error {
	_, err := p.sqlc.InsertInto(p.Table()).
		Columns(
			"user_id", "user_login", "user_fname", "user_lname", "user_email",
			"user_url", "user_timezone", "user_locale",
			"user_registered", "user_modified", "user_activation_key",
		).
		Values(
			e.ID, e.Login, e.Fname, e.Lname, e.Email,
			e.Url, e.Timezone, e.Locale,
			e.Registered, e.Modified, e.ActivationKey,
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
		Where("user_id = ?", id).
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
			Columns("meta_id", "user_id", "meta_key", "meta_value").
			Values(idgen.New(), id, key, meta[key]).
			Key("user_id", "meta_key").
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// deleteRow 删除主表行并级联清理元数据行
func (p *Projection) deleteRow(ctx context.Context, id string) error {
	if _, err := p.sqlc.DeleteFrom(p.MetaTable()).Where("user_id = ?", id).Exec(ctx); err != nil {
		return err
	}
	_, err := p.sqlc.DeleteFrom(p.Table()).Where("user_id = ?", id).Exec(ctx)
	return err
}

var _ projection.IProjection = (*Projection)(nil)
