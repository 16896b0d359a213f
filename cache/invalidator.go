package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	apperrors "presskit/errors"
	"presskit/logging"
)

// IInvalidator 命名空间失效点
//
// 投影写入成功后按 (表前缀 + 实体类型) 命名空间失效，
// 让查询侧不再提供过期行。
type IInvalidator interface {
	Invalidate(ctx context.Context, namespace string) error
}

// IFlushable 可整体清空的缓存（*Cache[K, V] 天然满足）
type IFlushable interface {
	Name() string
	Flush()
}

// LocalInvalidator 进程内失效器
//
// 按命名空间注册查询缓存，Invalidate 时整体清空。
type LocalInvalidator struct {
	mu     sync.RWMutex
	caches map[string][]IFlushable
}

// NewLocalInvalidator 创建进程内失效器
func NewLocalInvalidator() *LocalInvalidator {
	return &LocalInvalidator{caches: make(map[string][]IFlushable)}
}

// Register 将缓存挂到其名称对应的命名空间下
func (i *LocalInvalidator) Register(c IFlushable) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.caches[c.Name()] = append(i.caches[c.Name()], c)
}

// Invalidate 实现 IInvalidator 接口
func (i *LocalInvalidator) Invalidate(ctx context.Context, namespace string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, c := range i.caches[namespace] {
		c.Flush()
	}
	return nil
}

// redisClient 只声明用到的 go-redis 命令子集（便于测试替身）
type redisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Close() error
}

// RedisInvalidator 跨进程失效器
//
// 每个命名空间对应一个版本键，失效即 INCR。其他进程的查询侧
// 将版本号纳入缓存键，版本跳变后旧条目自然失配。
type RedisInvalidator struct {
	client    redisClient
	ownClient bool
	keyPrefix string
	logger    logging.ILogger
}

// RedisConfig Redis 失效器配置
type RedisConfig struct {
	// Client 已有连接；为空时按 Addr 自建
	Client redis.UniversalClient
	Addr   string

	// KeyPrefix 版本键前缀，默认 "cache:ns:"
	KeyPrefix string
}

// NewRedisInvalidator 创建跨进程失效器
func NewRedisInvalidator(cfg RedisConfig) (*RedisInvalidator, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "cache:ns:"
	}

	var cl redisClient
	var own bool
	if cfg.Client != nil {
		cl = cfg.Client
	} else if cfg.Addr != "" {
		cl = redis.NewClient(&redis.Options{Addr: cfg.Addr})
		own = true
	}
	if cl == nil {
		return nil, errors.New("redis client not configured")
	}

	return &RedisInvalidator{
		client:    cl,
		ownClient: own,
		keyPrefix: cfg.KeyPrefix,
		logger:    logging.ComponentLogger("cache.invalidator.redis"),
	}, nil
}

// Invalidate 实现 IInvalidator 接口
func (i *RedisInvalidator) Invalidate(ctx context.Context, namespace string) error {
	key := i.keyPrefix + namespace
	if err := i.client.Incr(ctx, key).Err(); err != nil {
		i.logger.Error(ctx, "cache namespace invalidation failed",
			logging.String("namespace", namespace), logging.Error(err))
		return apperrors.WrapError(err, apperrors.ErrCodeCache,
			"failed to invalidate cache namespace "+namespace)
	}
	i.logger.Debug(ctx, "cache namespace invalidated", logging.String("namespace", namespace))
	return nil
}

// Close 关闭自建的连接
func (i *RedisInvalidator) Close() error {
	if i.ownClient {
		return i.client.Close()
	}
	return nil
}

// NoopInvalidator 不做任何事的失效器（无缓存部署）
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(ctx context.Context, namespace string) error { return nil }

// MultiInvalidator 顺序委派给多个失效器，返回第一个错误
type MultiInvalidator []IInvalidator

func (m MultiInvalidator) Invalidate(ctx context.Context, namespace string) error {
	for _, inv := range m {
		if err := inv.Invalidate(ctx, namespace); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ IInvalidator = (*LocalInvalidator)(nil)
	_ IInvalidator = (*RedisInvalidator)(nil)
	_ IInvalidator = NoopInvalidator{}
	_ IInvalidator = MultiInvalidator{}
)
