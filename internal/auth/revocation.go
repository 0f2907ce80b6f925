package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList 已吊销令牌列表
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// RedisRevocationList 基于 Redis 的吊销列表，键随令牌过期自动清除
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList 创建 Redis 吊销列表
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:token:" + hex.EncodeToString(sum[:])
}

// IsRevoked 检查令牌是否已吊销
func (r *RedisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("查询吊销列表失败: %w", err)
	}
	return n > 0, nil
}

// Revoke 吊销令牌
func (r *RedisRevocationList) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revocationKey(token), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("加入吊销列表失败: %w", err)
	}
	return nil
}
