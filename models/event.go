package models

import "gorm.io/datatypes"

// 订单事件类型
const (
	EventCreated             = "created"
	EventPaid                = "paid"
	EventShipped             = "shipped"
	EventAfterSalesRequested = "after_sales_requested"
	EventAfterSalesResolved  = "after_sales_resolved"
	EventDeleted             = "deleted"
)

// OrderEvent 订单事件，只追加；和业务写在同一个事务里，由定时任务投递到 MQ
type OrderEvent struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	MainOrderID uint64         `gorm:"column:main_order_id;not null;default:0" json:"main_order_id"`
	OrderSn     string         `gorm:"column:order_sn;type:varchar(64);not null;index:idx_event_order_sn" json:"order_sn"`
	SubOrderID  uint64         `gorm:"column:sub_order_id;not null;default:0" json:"sub_order_id"`
	WorkOrderID uint64         `gorm:"column:work_order_id;not null;default:0" json:"work_order_id"`
	UserID      uint64         `gorm:"column:user_id;not null;default:0" json:"user_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(64);not null" json:"event_type"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload"`
	Published   bool           `gorm:"column:published;not null;default:false;index:idx_event_published" json:"published"`
	PublishTime int64          `gorm:"column:publish_time;not null;default:0" json:"publish_time"`
	CreateTime  int64          `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}
