package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Thanarak-q/Credit-Tracking-System/config"
)

// Client Redis 客户端封装
// 当前用于会话旁路缓存与速率限制；后续可扩展其他缓存场景
type Client struct {
	rdb    *goredis.Client
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

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 会话旁路缓存 ──

const sessionPrefix = "session:"

// CacheSession 缓存会话令牌到用户 ID 的映射，TTL 与会话剩余有效期一致
func (c *Client) CacheSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 会话已过期，无需缓存
	}
	return c.rdb.Set(ctx, sessionPrefix+token, userID, ttl).Err()
}

// GetSession 查询缓存的会话，未命中返回空串
func (c *Client) GetSession(ctx context.Context, token string) (string, error) {
	userID, err := c.rdb.Get(ctx, sessionPrefix+token).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// DropSession 登出时移除缓存的会话
func (c *Client) DropSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionPrefix+token).Err()
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数器：窗口内请求数超过 limit 时拒绝
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
