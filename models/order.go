package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// 订单类型
const (
	OrderTypeRecharge   int8 = 1 // 充值
	OrderTypePurchase   int8 = 2 // 商品
	OrderTypeMembership int8 = 3 // 开会员
)

// 支付方式
const (
	PayWayUnset   int8 = 0
	PayWayBalance int8 = 1 // 余额
	PayWayWechat  int8 = 2 // 微信
	PayWayAlipay  int8 = 3 // 支付宝
)

// 支付状态，只允许 waiting -> paid (-> refunded)
const (
	PayStatusWaiting  int8 = 0
	PayStatusPaid     int8 = 1
	PayStatusRefunded int8 = 2
)

// 回调通知状态
const (
	NotifyStatusNone    int8 = 0
	NotifyStatusSuccess int8 = 1
	NotifyStatusFailed  int8 = 2
)

// 来源平台
const (
	TerminalMnp     int8 = 1 // 小程序
	TerminalOa      int8 = 2 // 公众号
	TerminalH5      int8 = 3
	TerminalPc      int8 = 4
	TerminalAndroid int8 = 5
	TerminalIos     int8 = 6
)

// 发货方式
const (
	DeliveryTypeNone      int8 = 0 // 无需发货
	DeliveryTypeAutoCard  int8 = 1 // 自动发卡
	DeliveryTypeManual    int8 = 2 // 人工发货
	DeliveryTypeLogistics int8 = 3 // 物流发货
)

// 发货状态
const (
	DeliveryStatusWaiting   int8 = 0
	DeliveryStatusDelivered int8 = 1
	DeliveryStatusReturned  int8 = 2
)

// 子订单售后状态
const (
	AfterSalesNone            int8 = 0
	AfterSalesApplying        int8 = 1
	AfterSalesAgreed          int8 = 2
	AfterSalesReturnedSuccess int8 = 3
	AfterSalesRefused         int8 = 4
)

// MainOrder 订单主表，金额单位：元（decimal(10,2)）
type MainOrder struct {
	ID              uint64                `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64                `gorm:"column:user_id;not null;index:idx_user_id" json:"user_id"`
	OrderSn         string                `gorm:"column:order_sn;type:varchar(64);not null;uniqueIndex:idx_order_sn" json:"order_sn"`
	OrderType       int8                  `gorm:"column:order_type;not null;default:2" json:"order_type"`
	TotalAmount     decimal.Decimal       `gorm:"column:total_amount;type:decimal(10,2);not null;default:0" json:"total_amount"`
	DiscountAmount  decimal.Decimal       `gorm:"column:discount_amount;type:decimal(10,2);not null;default:0" json:"discount_amount"`
	ActualPayAmount decimal.Decimal       `gorm:"column:actual_pay_amount;type:decimal(10,2);not null;default:0" json:"actual_pay_amount"`
	GiveAmount      decimal.Decimal       `gorm:"column:give_amount;type:decimal(10,2);not null;default:0" json:"give_amount"` // 充值赠送
	Terminal        int8                  `gorm:"column:terminal;not null;default:0" json:"terminal"`
	PayWay          int8                  `gorm:"column:pay_way;not null;default:0" json:"pay_way"`
	PayStatus       int8                  `gorm:"column:pay_status;not null;default:0;index:idx_pay_status" json:"pay_status"`
	TransactionID   string                `gorm:"column:transaction_id;type:varchar(64);not null;default:''" json:"transaction_id"`
	PayTime         int64                 `gorm:"column:pay_time;not null;default:0" json:"pay_time"`
	ReceiverName    string                `gorm:"column:receiver_name;type:varchar(64);not null;default:''" json:"receiver_name"`
	ReceiverPhone   string                `gorm:"column:receiver_phone;type:varchar(20);not null;default:''" json:"receiver_phone"`
	ReceiverAddress string                `gorm:"column:receiver_address;type:varchar(512);not null;default:''" json:"receiver_address"`
	Remark          string                `gorm:"column:remark;type:varchar(255);not null;default:''" json:"remark"`
	NotifyStatus    int8                  `gorm:"column:notify_status;not null;default:0" json:"notify_status"`
	CreateTime      int64                 `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime      int64                 `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	DeleteTime      soft_delete.DeletedAt `gorm:"column:delete_time;not null;default:0;index" json:"-"`
}

func (MainOrder) TableName() string {
	return "main_orders"
}

// SubOrder 子订单，一个商品/规格一条，下单时快照商品信息
type SubOrder struct {
	ID               uint64                `gorm:"primaryKey;autoIncrement" json:"id"`
	MainOrderID      uint64                `gorm:"column:main_order_id;not null;index:idx_main_order_id" json:"main_order_id"`
	MainOrderSn      string                `gorm:"column:main_order_sn;type:varchar(64);not null" json:"main_order_sn"`
	UserID           uint64                `gorm:"column:user_id;not null;index:idx_sub_user_id" json:"user_id"`
	SourceID         uint64                `gorm:"column:source_id;not null;default:0" json:"source_id"` // 商品ID / 充值套餐ID
	ProductName      string                `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	ProductImage     string                `gorm:"column:product_image;type:varchar(512);not null;default:''" json:"product_image"`
	Sku              datatypes.JSON        `gorm:"column:sku" json:"sku"`
	Quantity         uint32                `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice        decimal.Decimal       `gorm:"column:unit_price;type:decimal(10,2);not null;default:0" json:"unit_price"`
	SubtotalAmount   decimal.Decimal       `gorm:"column:subtotal_amount;type:decimal(10,2);not null;default:0" json:"subtotal_amount"`
	DeliveryType     int8                  `gorm:"column:delivery_type;not null;default:0" json:"delivery_type"`
	DeliveryStatus   int8                  `gorm:"column:delivery_status;not null;default:0" json:"delivery_status"`
	AfterSalesStatus int8                  `gorm:"column:after_sales_status;not null;default:0" json:"after_sales_status"`
	LogisticsCompany string                `gorm:"column:logistics_company;type:varchar(64);not null;default:''" json:"logistics_company"`
	LogisticsNo      string                `gorm:"column:logistics_no;type:varchar(64);not null;default:''" json:"logistics_no"`
	DeliveryTime     int64                 `gorm:"column:delivery_time;not null;default:0" json:"delivery_time"`
	CreateTime       int64                 `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime       int64                 `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
	DeleteTime       soft_delete.DeletedAt `gorm:"column:delete_time;not null;default:0;index" json:"-"`
}

func (SubOrder) TableName() string {
	return "sub_orders"
}

// PayRecord 支付回调流水，记录网关原始通知
type PayRecord struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderSn       string          `gorm:"column:order_sn;type:varchar(64);not null;uniqueIndex:idx_pay_order_sn" json:"order_sn"`
	PayWay        int8            `gorm:"column:pay_way;not null;default:0" json:"pay_way"`
	TransactionID string          `gorm:"column:transaction_id;type:varchar(64);index:idx_transaction_id" json:"transaction_id"`
	AmountTotal   decimal.Decimal `gorm:"column:amount_total;type:decimal(10,2);not null;default:0" json:"amount_total"`
	NotifyRaw     datatypes.JSON  `gorm:"column:notify_raw" json:"notify_raw"`
	CreateTime    int64           `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (PayRecord) TableName() string {
	return "pay_records"
}
