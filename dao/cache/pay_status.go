package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 支付结果缓存时间，前端轮询期间有效即可
const payStatusExpire = 30 * time.Minute

// PayStatusStorage 已支付订单标记，供支付结果轮询使用
type PayStatusStorage struct {
	redis *redis.Client
}

func NewPayStatusStorage(rds *redis.Client) *PayStatusStorage {
	return &PayStatusStorage{rds}
}

// MarkPaid 记录订单已支付
// @params userID   用户ID
// @params orderID  主订单ID
func (p *PayStatusStorage) MarkPaid(ctx context.Context, userID, orderID uint64) error {
	return p.redis.Set(ctx, p.name(userID, orderID), 1, payStatusExpire).Err()
}

// IsPaid 缓存未命中返回 false
func (p *PayStatusStorage) IsPaid(ctx context.Context, userID, orderID uint64) (bool, error) {
	_, err := p.redis.Get(ctx, p.name(userID, orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// mall:pay:paid:uid:order_id
func (p *PayStatusStorage) name(userID, orderID uint64) string {
	return fmt.Sprintf("mall:pay:paid:%d:%d", userID, orderID)
}
