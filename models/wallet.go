package models

import (
	"github.com/shopspring/decimal"
)

type UserWallet struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"id"`
	UserID        uint64          `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(10,2);not null;default:0" json:"balance"`
	TotalRecharge decimal.Decimal `gorm:"column:total_recharge;type:decimal(10,2);not null;default:0" json:"total_recharge"`
	TotalConsume  decimal.Decimal `gorm:"column:total_consume;type:decimal(10,2);not null;default:0" json:"total_consume"`
	CreateTime    int64           `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime    int64           `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
}

func (UserWallet) TableName() string {
	return "user_wallets"
}

// 余额变动来源
const (
	WalletSourceRecharge int8 = 1 // 充值入账（含赠送）
	WalletSourcePurchase int8 = 2 // 余额支付
	WalletSourceRefund   int8 = 3 // 售后退款
	WalletSourceAdjust   int8 = 4 // 后台调整
)

// WalletLog 余额流水，(source_type, source_sn) 唯一，同一来源只入账一次
type WalletLog struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"id"`
	UserID       uint64          `gorm:"column:user_id;index:idx_wallet_user_id" json:"user_id"`
	SourceType   int8            `gorm:"column:source_type;uniqueIndex:uk_wallet_source" json:"source_type"`
	ChangeAmount decimal.Decimal `gorm:"column:change_amount;type:decimal(10,2);not null" json:"change_amount"` // 变动数额（正负）
	LeftAmount   decimal.Decimal `gorm:"column:left_amount;type:decimal(10,2);not null" json:"left_amount"`     // 变动后余额
	SourceID     uint64          `gorm:"column:source_id;not null;default:0" json:"source_id"`
	SourceSn     string          `gorm:"column:source_sn;size:64;uniqueIndex:uk_wallet_source" json:"source_sn"`
	Remark       string          `gorm:"column:remark;size:255" json:"remark"`
	CreateTime   int64           `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (WalletLog) TableName() string {
	return "wallet_logs"
}
