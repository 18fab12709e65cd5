package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smart-classroom/backend/config"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("缓存未命中")

// Client Redis 客户端封装
// 当前用于实体目录（班级/教师/科目/教室/时间段）的读缓存
type Client struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Client{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// ── 目录缓存 ──

const catalogPrefix = "catalog:"

// GetCatalog 读取目录缓存，未命中返回 ErrCacheMiss
func (c *Client) GetCatalog(ctx context.Context, kind string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, catalogPrefix+kind).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

// SetCatalog 写入目录缓存
func (c *Client) SetCatalog(ctx context.Context, kind string, payload []byte) error {
	return c.rdb.Set(ctx, catalogPrefix+kind, payload, c.ttl).Err()
}

// InvalidateCatalog 清除全部目录缓存（种子数据写入后调用）
func (c *Client) InvalidateCatalog(ctx context.Context, kinds ...string) error {
	if len(kinds) == 0 {
		return nil
	}
	keys := make([]string, len(kinds))
	for i, k := range kinds {
		keys[i] = catalogPrefix + k
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ── 排课互斥锁 ──

const lockPrefix = "lock:"

// TryLock 尝试获取互斥锁（SET NX），token 用于释放时校验持有者
func (c *Client) TryLock(ctx context.Context, name, token string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockPrefix+name, token, ttl).Result()
}

// unlockScript 仅当锁仍由 token 持有时删除，避免误删他人续上的锁
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock 释放互斥锁
func (c *Client) Unlock(ctx context.Context, name, token string) error {
	return unlockScript.Run(ctx, c.rdb, []string{lockPrefix + name}, token).Err()
}
