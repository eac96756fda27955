package dao

import (
	"Mall/models"
	"context"

	"gorm.io/gorm"
)

type WorkOrder struct {
	Repo[models.WorkOrder]
}

func NewWorkOrder(db *gorm.DB) *WorkOrder {
	return &WorkOrder{
		Repo: NewRepo[models.WorkOrder](db),
	}
}

// HasActive 子订单是否存在未完成的工单
func (w *WorkOrder) HasActive(ctx context.Context, subOrderID uint64) (bool, error) {
	return w.IsExist(ctx, "sub_order_id = ? AND status <> ?", subOrderID, models.WorkOrderCompleted)
}

func (w *WorkOrder) FindUserWorkOrder(ctx context.Context, userID, id uint64) (*models.WorkOrder, error) {
	return w.FindByWhere(ctx, "id = ? AND user_id = ?", id, userID)
}

// Transition 从 from 状态迁移，返回 0 说明状态已变化
func (w *WorkOrder) Transition(ctx context.Context, id uint64, from []int8, data map[string]any) (int64, error) {
	return w.UpdateByWhere(ctx, data, "id = ? AND status IN ?", id, from)
}

func (w *WorkOrder) SoftDelete(ctx context.Context, id uint64, from []int8) (int64, error) {
	res := w.DB(ctx).Where("id = ? AND status IN ?", id, from).Delete(&models.WorkOrder{})
	return res.RowsAffected, res.Error
}

func (w *WorkOrder) ListBySubOrder(ctx context.Context, subOrderID uint64) ([]*models.WorkOrder, error) {
	var items []*models.WorkOrder
	err := w.DB(ctx).Where("sub_order_id = ?", subOrderID).Order("id DESC").Find(&items).Error
	return items, err
}
