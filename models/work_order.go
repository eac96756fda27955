package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// 售后类型
const (
	RefundTypeOnly      int8 = 1 // 仅退款
	RefundTypeWithGoods int8 = 2 // 退货退款
)

// 退货方式
const (
	ReturnKindNone    int8 = 0
	ReturnKindExpress int8 = 1 // 快递寄回
	ReturnKindStore   int8 = 2 // 到店退货
)

// 工单状态
const (
	WorkOrderPending    int8 = 0 // 待处理
	WorkOrderProcessing int8 = 1 // 处理中（已同意，待退货）
	WorkOrderCompleted  int8 = 2 // 已完成
	WorkOrderRefused    int8 = 3 // 已拒绝
)

// WorkOrder 售后工单，一个子订单同一时间只有一张未完成的工单
type WorkOrder struct {
	ID               uint64                `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkOrderSn      string                `gorm:"column:work_order_sn;type:varchar(64);not null;uniqueIndex:idx_work_order_sn" json:"work_order_sn"`
	UserID           uint64                `gorm:"column:user_id;not null;index:idx_wo_user_id" json:"user_id"`
	MainOrderID      uint64                `gorm:"column:main_order_id;not null" json:"main_order_id"`
	SubOrderID       uint64                `gorm:"column:sub_order_id;not null;index:idx_wo_sub_order_id" json:"sub_order_id"`
	MainOrderSn      string                `gorm:"column:main_order_sn;type:varchar(64);not null;default:''" json:"main_order_sn"`
	RefundType       int8                  `gorm:"column:refund_type;not null;default:1" json:"refund_type"`
	ReturnKind       int8                  `gorm:"column:return_kind;not null;default:0" json:"return_kind"`
	Reason           string                `gorm:"column:reason;type:varchar(255);not null;default:''" json:"reason"`
	Description      string                `gorm:"column:description;type:varchar(1024);not null;default:''" json:"description"`
	Images           datatypes.JSON        `gorm:"column:images" json:"images"`
	RefundAmount     decimal.Decimal       `gorm:"column:refund_amount;type:decimal(10,2);not null;default:0" json:"refund_amount"`
	Status           int8                  `gorm:"column:status;not null;default:0" json:"status"`
	RefuseReason     string                `gorm:"column:refuse_reason;type:varchar(255);not null;default:''" json:"refuse_reason"`
	ReturnCompany    string                `gorm:"column:return_logistics_company;type:varchar(64);not null;default:''" json:"return_logistics_company"`
	ReturnNo         string                `gorm:"column:return_logistics_no;type:varchar(64);not null;default:''" json:"return_logistics_no"`
	HandleTime       int64                 `gorm:"column:handle_time;not null;default:0" json:"handle_time"`
	CompleteTime     int64                 `gorm:"column:complete_time;not null;default:0" json:"complete_time"`
	CreateTime       int64                 `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime       int64                 `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	DeleteTime       soft_delete.DeletedAt `gorm:"column:delete_time;not null;default:0;index" json:"-"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}
