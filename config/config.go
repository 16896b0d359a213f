// Package config 提供基于环境变量的配置加载
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 应用配置
type Config struct {
	// 数据库（事件存储与读模型共用一个关系库）
	DBDriver string `env:"PRESSKIT_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"PRESSKIT_DB_DSN"    envDefault:"presskit.db"`

	// TablePrefix 读模型与事件表的表名前缀
	TablePrefix string `env:"PRESSKIT_TABLE_PREFIX" envDefault:"pk_"`

	// EventTable 事件存储表名（不含前缀）
	EventTable string `env:"PRESSKIT_EVENT_TABLE" envDefault:"domain_events"`

	// Redis 缓存失效使用的 Redis 地址，为空时禁用
	RedisAddr string `env:"PRESSKIT_REDIS_ADDR" envDefault:""`

	// NATS 事件发布使用的 NATS 地址，为空时禁用
	NatsURL    string `env:"PRESSKIT_NATS_URL"    envDefault:""`
	NatsStream string `env:"PRESSKIT_NATS_STREAM" envDefault:"PRESSKIT"`

	// 查询侧缓存
	CacheMaxSize int           `env:"PRESSKIT_CACHE_MAX_SIZE" envDefault:"1024"`
	CacheTTL     time.Duration `env:"PRESSKIT_CACHE_TTL"      envDefault:"5m"`

	LogLevel string `env:"PRESSKIT_LOG_LEVEL" envDefault:"info"`
}

// Load 从环境变量解析配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
