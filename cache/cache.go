// Package cache 提供查询侧的进程内缓存与命名空间失效
//
// 读模型每个实体类型对应一个命名空间（表前缀 + 实体类型），
// 投影写入成功后按命名空间整体失效，避免返回过期行。
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config 缓存配置
type Config struct {
	// Name 缓存名称，同时作为失效命名空间
	Name string

	// MaxSize 最大条目数，超出时按 LRU 驱逐；0 表示不限制
	MaxSize int

	// TTL 条目存活时间，基于最近访问；0 表示永不过期
	TTL time.Duration
}

// Stats 缓存统计
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	accessedAt time.Time
	element    *list.Element
}

// Cache 泛型 LRU + TTL 缓存（并发安全）
type Cache[K comparable, V any] struct {
	config Config

	mu    sync.Mutex
	items map[K]*entry[K, V]
	lru   *list.List
	stats Stats
}

// New 创建缓存实例
func New[K comparable, V any](config Config) *Cache[K, V] {
	if config.Name == "" {
		config.Name = "unnamed"
	}
	return &Cache[K, V]{
		config: config,
		items:  make(map[K]*entry[K, V]),
		lru:    list.New(),
	}
}

// Name 缓存名称（失效命名空间）
func (c *Cache[K, V]) Name() string { return c.config.Name }

// Get 获取缓存值；过期条目按未命中处理并被移除
func (c *Cache[K, V]) Get(key K) (V, bool) {
	// Get 会更新 LRU 位置与统计信息，持写锁
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	if c.expired(e) {
		c.remove(e)
		c.stats.Misses++
		return zero, false
	}

	e.accessedAt = time.Now()
	c.lru.MoveToFront(e.element)
	c.stats.Hits++
	return e.value, true
}

// Set 写入缓存值，必要时驱逐最久未使用的条目
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.accessedAt = time.Now()
		c.lru.MoveToFront(e.element)
		return
	}

	if c.config.MaxSize > 0 && len(c.items) >= c.config.MaxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest.Value.(*entry[K, V]))
			c.stats.Evictions++
		}
	}

	e := &entry[K, V]{key: key, value: value, accessedAt: time.Now()}
	e.element = c.lru.PushFront(e)
	c.items[key] = e
}

// Delete 删除单个条目
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(e)
	return true
}

// Flush 清空整个缓存（命名空间失效入口）
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*entry[K, V])
	c.lru = list.New()
}

// Len 当前条目数
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats 统计信息副本
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.items)
	return s
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return c.config.TTL > 0 && time.Since(e.accessedAt) >= c.config.TTL
}

// remove 需要持锁调用
func (c *Cache[K, V]) remove(e *entry[K, V]) {
	if e.element != nil {
		c.lru.Remove(e.element)
	}
	delete(c.items, e.key)
}
