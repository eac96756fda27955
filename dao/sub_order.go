package dao

import (
	"Mall/models"
	"context"

	"gorm.io/gorm"
)

type SubOrder struct {
	Repo[models.SubOrder]
}

func NewSubOrder(db *gorm.DB) *SubOrder {
	return &SubOrder{
		Repo: NewRepo[models.SubOrder](db),
	}
}

func (s *SubOrder) CreateBatch(ctx context.Context, items []*models.SubOrder) error {
	return s.DB(ctx).Create(&items).Error
}

func (s *SubOrder) FindByMainOrder(ctx context.Context, mainOrderID uint64) ([]*models.SubOrder, error) {
	var items []*models.SubOrder
	err := s.DB(ctx).Where("main_order_id = ?", mainOrderID).Order("id ASC").Find(&items).Error
	return items, err
}

func (s *SubOrder) FindByMainOrders(ctx context.Context, mainOrderIDs []uint64) ([]*models.SubOrder, error) {
	var items []*models.SubOrder
	if len(mainOrderIDs) == 0 {
		return items, nil
	}
	err := s.DB(ctx).Where("main_order_id IN ?", mainOrderIDs).Order("id ASC").Find(&items).Error
	return items, err
}

func (s *SubOrder) FindUserSubOrder(ctx context.Context, userID, subOrderID uint64) (*models.SubOrder, error) {
	return s.FindByWhere(ctx, "id = ? AND user_id = ?", subOrderID, userID)
}

// MarkNoShippingDelivered 无需发货的商品支付后直接完成
func (s *SubOrder) MarkNoShippingDelivered(ctx context.Context, mainOrderID uint64, now int64) (int64, error) {
	return s.UpdateByWhere(ctx, map[string]any{
		"delivery_status": models.DeliveryStatusDelivered,
		"delivery_time":   now,
	}, "main_order_id = ? AND delivery_type = ? AND delivery_status = ?",
		mainOrderID, models.DeliveryTypeNone, models.DeliveryStatusWaiting)
}

func (s *SubOrder) MarkDelivered(ctx context.Context, subOrderID uint64, company, no string, now int64) (int64, error) {
	return s.UpdateByWhere(ctx, map[string]any{
		"delivery_status":   models.DeliveryStatusDelivered,
		"logistics_company": company,
		"logistics_no":      no,
		"delivery_time":     now,
	}, "id = ? AND delivery_status = ?", subOrderID, models.DeliveryStatusWaiting)
}

func (s *SubOrder) SetAfterSales(ctx context.Context, subOrderID uint64, status int8) error {
	_, err := s.UpdateById(ctx, subOrderID, map[string]any{"after_sales_status": status})
	return err
}

// MarkReturned 售后完成，货物退回
func (s *SubOrder) MarkReturned(ctx context.Context, subOrderID uint64) error {
	_, err := s.UpdateById(ctx, subOrderID, map[string]any{
		"after_sales_status": models.AfterSalesReturnedSuccess,
		"delivery_status":    models.DeliveryStatusReturned,
	})
	return err
}

func (s *SubOrder) DeleteByMainOrder(ctx context.Context, mainOrderID uint64) error {
	return s.DB(ctx).Where("main_order_id = ?", mainOrderID).Delete(&models.SubOrder{}).Error
}
