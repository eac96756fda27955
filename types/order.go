package types

import "github.com/shopspring/decimal"

// CreateOrderReq 下单：单商品传 commodity_id，购物车结算传 is_from_cart + cart_ids
type CreateOrderReq struct {
	CommodityID uint64   `json:"commodity_id"`
	Quantity    uint32   `json:"quantity"`
	Sku         any      `json:"sku"`
	IsFromCart  bool     `json:"is_from_cart"`
	CartIds     []uint64 `json:"cart_ids"`
	AddressID   uint64   `json:"address_id"`
	Remark      string   `json:"remark" binding:"max=255"`
	Terminal    int8     `json:"terminal" binding:"required,min=1,max=6"`
}

type CreateOrderResp struct {
	OrderID         uint64          `json:"order_id"`
	OrderSn         string          `json:"order_sn"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ActualPayAmount decimal.Decimal `json:"actual_pay_amount"`
}

type ListOrderReq struct {
	Keyword string `form:"keyword"`
	Status  *int8  `form:"status" binding:"omitempty,oneof=0 1 2"` // 支付状态，不传为全部
	Cursor  uint64 `form:"cursor"`
	Limit   int    `form:"limit,default=10" binding:"max=50"`
}

type OrderIDReq struct {
	OrderID uint64 `json:"order_id" form:"order_id" binding:"required"`
}

// OrderGoods 子订单（商品快照）
type OrderGoods struct {
	ID               uint64          `json:"id"`
	CommodityID      uint64          `json:"commodity_id"`
	ProductName      string          `json:"product_name"`
	ProductImage     string          `json:"product_image"`
	Sku              any             `json:"sku"`
	Quantity         uint32          `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	SubtotalAmount   decimal.Decimal `json:"subtotal_amount"`
	DeliveryType     int8            `json:"delivery_type"`
	DeliveryStatus   int8            `json:"delivery_status"`
	AfterSalesStatus int8            `json:"after_sales_status"`
	LogisticsCompany string          `json:"logistics_company"`
	LogisticsNo      string          `json:"logistics_no"`
}

type Order struct {
	ID              uint64          `json:"id"`
	OrderSn         string          `json:"order_sn"`
	OrderType       int8            `json:"order_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	ActualPayAmount decimal.Decimal `json:"actual_pay_amount"`
	GiveAmount      decimal.Decimal `json:"give_amount"`
	PayWay          int8            `json:"pay_way"`
	PayStatus       int8            `json:"pay_status"`
	PayTime         int64           `json:"pay_time"`
	ReceiverName    string          `json:"receiver_name"`
	ReceiverPhone   string          `json:"receiver_phone"`
	ReceiverAddress string          `json:"receiver_address"`
	Remark          string          `json:"remark"`
	CreateTime      int64           `json:"create_time"`
	Goods           []*OrderGoods   `json:"goods"`
}

type ListOrderResp struct {
	Items      []*Order `json:"items"`
	NextCursor uint64   `json:"next_cursor"`
	HasMore    bool     `json:"has_more"`
}

// DeliverReq 后台发货
type DeliverReq struct {
	SubOrderID       uint64 `json:"sub_order_id" binding:"required"`
	LogisticsCompany string `json:"logistics_company" binding:"max=64"`
	LogisticsNo      string `json:"logistics_no" binding:"max=64"`
}
