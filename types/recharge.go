package types

import "github.com/shopspring/decimal"

type RechargePackage struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Money     decimal.Decimal `json:"money"`
	GiveMoney decimal.Decimal `json:"give_money"`
}

type RechargePackagesResp struct {
	Enabled     bool               `json:"enabled"`
	MinRecharge decimal.Decimal    `json:"min_recharge"`
	Packages    []*RechargePackage `json:"packages"`
}

// PlaceRechargeReq package_id 优先，否则按 money 自定义金额充值
type PlaceRechargeReq struct {
	PackageID uint64          `json:"package_id"`
	Money     decimal.Decimal `json:"money"`
	Terminal  int8            `json:"terminal" binding:"required,min=1,max=6"`
}

type PlaceRechargeResp struct {
	OrderID   uint64          `json:"order_id"`
	OrderSn   string          `json:"order_sn"`
	Money     decimal.Decimal `json:"money"`
	GiveMoney decimal.Decimal `json:"give_money"`
}
