package dao

import (
	"Mall/models"
	"context"

	"gorm.io/gorm"
)

type Order struct {
	Repo[models.MainOrder]
}

func NewOrder(db *gorm.DB) *Order {
	return &Order{
		Repo: NewRepo[models.MainOrder](db),
	}
}

func (o *Order) FindBySn(ctx context.Context, orderSn string) (*models.MainOrder, error) {
	return o.FindByWhere(ctx, "order_sn = ?", orderSn)
}

func (o *Order) FindUserOrder(ctx context.Context, userID, orderID uint64) (*models.MainOrder, error) {
	return o.FindByWhere(ctx, "id = ? AND user_id = ?", orderID, userID)
}

type OrderFilter struct {
	UserID    uint64
	OrderType int8
	Keyword   string
	PayStatus *int8
	Cursor    uint64
	Limit     int
}

// List 游标分页，按 id 倒序
func (o *Order) List(ctx context.Context, f *OrderFilter) ([]*models.MainOrder, error) {
	query := o.DB(ctx).Where("user_id = ?", f.UserID)
	if f.OrderType > 0 {
		query = query.Where("order_type = ?", f.OrderType)
	}
	if f.PayStatus != nil {
		query = query.Where("pay_status = ?", *f.PayStatus)
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		sub := o.DB(ctx).Model(&models.SubOrder{}).Select("main_order_id").Where("user_id = ? AND product_name LIKE ?", f.UserID, like)
		query = query.Where("order_sn LIKE ? OR id IN (?)", like, sub)
	}
	if f.Cursor > 0 {
		query = query.Where("id < ?", f.Cursor)
	}

	var orders []*models.MainOrder
	err := query.Order("id DESC").Limit(f.Limit).Find(&orders).Error
	return orders, err
}

// SetPayWay 只有待支付订单可以切换支付方式
func (o *Order) SetPayWay(ctx context.Context, orderID uint64, payWay, terminal int8) (int64, error) {
	return o.UpdateByWhere(ctx, map[string]any{
		"pay_way":  payWay,
		"terminal": terminal,
	}, "id = ? AND pay_status = ?", orderID, models.PayStatusWaiting)
}

// MarkPaid waiting -> paid，返回 0 说明已被其他请求处理
func (o *Order) MarkPaid(ctx context.Context, orderID uint64, payWay int8, transactionID string, payTime int64) (int64, error) {
	return o.UpdateByWhere(ctx, map[string]any{
		"pay_status":     models.PayStatusPaid,
		"pay_way":        payWay,
		"transaction_id": transactionID,
		"pay_time":       payTime,
		"notify_status":  models.NotifyStatusSuccess,
	}, "id = ? AND pay_status = ?", orderID, models.PayStatusWaiting)
}

func (o *Order) MarkNotifyFailed(ctx context.Context, orderSn string) error {
	_, err := o.UpdateByWhere(ctx, map[string]any{
		"notify_status": models.NotifyStatusFailed,
	}, "order_sn = ? AND pay_status = ?", orderSn, models.PayStatusWaiting)
	return err
}

func (o *Order) SoftDelete(ctx context.Context, orderID uint64) error {
	return o.DB(ctx).Where("id = ?", orderID).Delete(&models.MainOrder{}).Error
}
