// Package dialect 抽象数据库方言差异
package dialect

import (
	"strconv"
	"strings"

	core "presskit/storage/database"
)

// Name 标准化的数据库方言名称
type Name string

const (
	NameMySQL    Name = "mysql"
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameUnknown  Name = ""
)

// Dialect 表示当前数据库的方言能力
//
// 目前只抽象项目实际用到的能力：
//   - Rebind: 占位符转换
//   - IsUniqueViolation: 唯一键/主键冲突错误识别
type Dialect struct {
	name Name
}

// New 根据字符串构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return Dialect{name: NameMySQL}
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql":
		return Dialect{name: NamePostgres}
	default:
		return Dialect{name: NameUnknown}
	}
}

// FromDatabase 从 IDatabase 实例推断方言
//
// 需要 IDatabase 可选实现 IDialectNameProvider 接口；否则返回 Unknown。
func FromDatabase(db core.IDatabase) Dialect {
	if db == nil {
		return Dialect{name: NameUnknown}
	}
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 返回标准化方言名
func (d Dialect) Name() Name {
	return d.name
}

// Rebind 将通用占位符 ? 转换为方言特定形式。
//
// 目前仅对 Postgres 做替换，将 ? 依次替换为 $1、$2...；
// 其他方言保持原样。
//
// 限制：使用简单的字符扫描，不解析 SQL 语法，调用方应避免在
// SQL 字符串字面量中使用 ? 字符。
func (d Dialect) Rebind(query string) string {
	if d.name != NamePostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// IsUniqueViolation 判断错误是否为唯一键/主键冲突
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	switch d.name {
	case NameMySQL:
		return strings.Contains(msg, "Duplicate entry")
	case NamePostgres:
		return strings.Contains(msg, "duplicate key")
	case NameSQLite:
		return strings.Contains(msg, "UNIQUE constraint failed") ||
			strings.Contains(msg, "constraint failed")
	default:
		return strings.Contains(msg, "Duplicate entry") ||
			strings.Contains(msg, "duplicate key") ||
			strings.Contains(msg, "UNIQUE constraint failed")
	}
}
