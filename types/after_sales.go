package types

import "github.com/shopspring/decimal"

type ApplyAfterSalesReq struct {
	SubOrderID  uint64   `json:"sub_order_id" binding:"required"`
	RefundType  int8     `json:"refund_type" binding:"required,oneof=1 2"`
	ReturnKind  int8     `json:"return_kind" binding:"oneof=0 1 2"`
	Reason      string   `json:"reason" binding:"required,max=255"`
	Description string   `json:"description" binding:"max=1024"`
	Images      []string `json:"images"`
}

type ResubmitAfterSalesReq struct {
	WorkOrderID uint64   `json:"work_order_id" binding:"required"`
	RefundType  int8     `json:"refund_type" binding:"required,oneof=1 2"`
	ReturnKind  int8     `json:"return_kind" binding:"oneof=0 1 2"`
	Reason      string   `json:"reason" binding:"required,max=255"`
	Description string   `json:"description" binding:"max=1024"`
	Images      []string `json:"images"`
}

type WorkOrderIDReq struct {
	WorkOrderID uint64 `json:"work_order_id" form:"work_order_id" binding:"required"`
}

type RefuseAfterSalesReq struct {
	WorkOrderID  uint64 `json:"work_order_id" binding:"required"`
	RefuseReason string `json:"refuse_reason" binding:"max=255"`
}

type ReturnLogisticsReq struct {
	WorkOrderID      uint64 `json:"work_order_id" binding:"required"`
	LogisticsCompany string `json:"logistics_company" binding:"required,max=64"`
	LogisticsNo      string `json:"logistics_no" binding:"required,max=64"`
}

type WorkOrder struct {
	ID               uint64          `json:"id"`
	WorkOrderSn      string          `json:"work_order_sn"`
	SubOrderID       uint64          `json:"sub_order_id"`
	MainOrderSn      string          `json:"main_order_sn"`
	RefundType       int8            `json:"refund_type"`
	ReturnKind       int8            `json:"return_kind"`
	Status           int8            `json:"status"`
	Reason           string          `json:"reason"`
	Description      string          `json:"description"`
	Images           []string        `json:"images"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	RefuseReason     string          `json:"refuse_reason"`
	ReturnCompany    string          `json:"return_logistics_company"`
	ReturnNo         string          `json:"return_logistics_no"`
	AfterSalesStatus int8            `json:"after_sales_status"`
	CreateTime       int64           `json:"create_time"`
}
