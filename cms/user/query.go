package user

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

// Row 用户读模型行
type Row struct {
	ID            string
	Login         string
	Fname         string
	Lname         string
	Email         string
	Url           string
	Timezone      string
	Locale        string
	Registered    string
	Modified      string
	ActivationKey string
}

// Queries 用户查询
type Queries struct {
	sqlc   sqlbuilder.ISql
	prefix string
	cache  *cache.Cache[string, *Row]
}

// NewQueries 创建用户查询；cache 可为 nil
func NewQueries(db core.IDatabase, prefix string, c *cache.Cache[string, *Row]) *Queries {
	return &Queries{sqlc: sqlbuilder.New(db), prefix: prefix, cache: c}
}

// Table 主表名
func (q *Queries) Table() string { return q.prefix + "user" }

// MetaTable 元数据表名
func (q *Queries) MetaTable() string { return q.prefix + "usermeta" }

var rowColumns = []string{
	"user_id", "user_login", "user_fname", "user_lname", "user_email",
	"user_url", "user_timezone", "user_locale",
	"user_registered", "user_modified", "user_activation_key",
}

// FindByID 按 ID 查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByID(ctx context.Context, id values.UserID) (*Row, error) {
	return q.findOne(ctx, "id:"+id.String(), "user_id = ?", id.String())
}

// FindByLogin 按登录名查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByLogin(ctx context.Context, login string) (*Row, error) {
	return q.findOne(ctx, "login:"+login, "user_login = ?", login)
}

// FindByEmail 按邮箱查询；行不存在时返回 NOT_FOUND
func (q *Queries) FindByEmail(ctx context.Context, email string) (*Row, error) {
	return q.findOne(ctx, "email:"+email, "user_email = ?", email)
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
			&row.ID, &row.Login, &row.Fname, &row.Lname, &row.Email,
			&row.Url, &row.Timezone, &row.Locale,
			&row.Registered, &row.Modified, &row.ActivationKey,
		)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan user row")
	}

	if q.cache != nil {
		q.cache.Set(cacheKey, &row)
	}
	return &row, nil
}

// FindMeta 返回实体的全部元数据键值
func (q *Queries) FindMeta(ctx context.Context, id values.UserID) (map[string]string, error) {
	rows, err := q.sqlc.Select("meta_key", "meta_value").
		From(q.MetaTable()).
		Where("user_id = ?", id.String()).
		OrderBy("meta_key ASC").
		Query(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query user meta")
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan user meta row")
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to iterate user meta rows")
	}
	return meta, nil
}
