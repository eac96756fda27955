package types

import "github.com/shopspring/decimal"

type WalletAccount struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalRecharge decimal.Decimal `json:"total_recharge"`
	TotalConsume  decimal.Decimal `json:"total_consume"`
}

// WalletRecord 单条流水
type WalletRecord struct {
	ID           uint64          `json:"id"`
	SourceType   int8            `json:"source_type"`
	ChangeAmount decimal.Decimal `json:"change_amount"` // 正数入账，负数支出
	LeftAmount   decimal.Decimal `json:"left_amount"`
	SourceSn     string          `json:"source_sn"`
	Remark       string          `json:"remark"`
	CreateTime   int64           `json:"create_time"`
}

type ListWalletRecord struct {
	Records    []WalletRecord `json:"records"`
	NextCursor uint64         `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

type ListWalletRecordsReq struct {
	Action uint8  `form:"action" binding:"oneof=0 1 2"` // 0-全部, 1-仅收入, 2-仅支出
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit,default=10" binding:"max=50"`
}
