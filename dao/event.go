package dao

import (
	"Mall/models"
	"context"

	"gorm.io/gorm"
)

type OrderEvent struct {
	Repo[models.OrderEvent]
}

func NewOrderEvent(db *gorm.DB) *OrderEvent {
	return &OrderEvent{
		Repo: NewRepo[models.OrderEvent](db),
	}
}

func (e *OrderEvent) ListUnpublished(ctx context.Context, limit int) ([]*models.OrderEvent, error) {
	var events []*models.OrderEvent
	err := e.DB(ctx).Where("published = ?", false).Order("id ASC").Limit(limit).Find(&events).Error
	return events, err
}

func (e *OrderEvent) MarkPublished(ctx context.Context, id uint64, now int64) error {
	_, err := e.UpdateByWhere(ctx, map[string]any{
		"published":    true,
		"publish_time": now,
	}, "id = ? AND published = ?", id, false)
	return err
}

func (e *OrderEvent) ListByOrder(ctx context.Context, orderSn string) ([]*models.OrderEvent, error) {
	var events []*models.OrderEvent
	err := e.DB(ctx).Where("order_sn = ?", orderSn).Order("id ASC").Find(&events).Error
	return events, err
}
