package service

import (
	"Mall/dao"
	"Mall/models"
	"Mall/types"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletService struct {
	DB        *gorm.DB
	WalletDAO *dao.Wallet
}

var _ IWalletService = (*WalletService)(nil)

// WalletChange 一次余额变动，(SourceType, SourceSn) 唯一
type WalletChange struct {
	UserID     uint64
	Amount     decimal.Decimal // 正数
	SourceType int8
	SourceID   uint64
	SourceSn   string
	Remark     string
}

// IWalletService 余额和流水总在同一个事务内写入；ctx 中已有事务时加入该事务
type IWalletService interface {
	Balance(ctx context.Context, userID uint64) (*types.WalletAccount, error)
	Credit(ctx context.Context, change *WalletChange) (*models.WalletLog, error)
	Debit(ctx context.Context, change *WalletChange) (*models.WalletLog, error)
	Records(ctx context.Context, userID uint64, req *types.ListWalletRecordsReq) (*types.ListWalletRecord, error)
}

func (w *WalletService) Balance(ctx context.Context, userID uint64) (*types.WalletAccount, error) {
	acc, err := w.WalletDAO.GetAccount(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return &types.WalletAccount{
				Balance:       decimal.Zero,
				TotalRecharge: decimal.Zero,
				TotalConsume:  decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return &types.WalletAccount{
		Balance:       acc.Balance,
		TotalRecharge: acc.TotalRecharge,
		TotalConsume:  acc.TotalConsume,
	}, nil
}

func (w *WalletService) Credit(ctx context.Context, change *WalletChange) (*models.WalletLog, error) {
	if !change.Amount.IsPositive() {
		return nil, ErrValidation.WithMsg("入账金额必须大于0")
	}

	var entry *models.WalletLog
	err := dao.Transaction(ctx, w.DB, func(ctx context.Context) error {
		// 1. 幂等检查
		exists, err := w.WalletDAO.LogExists(ctx, change.SourceType, change.SourceSn)
		if err != nil {
			return fmt.Errorf("检查余额流水失败: %w", err)
		}
		if exists {
			return ErrConflict.WithMsg("该业务已入账，请勿重复操作")
		}

		if err := w.WalletDAO.EnsureAccount(ctx, change.UserID); err != nil {
			return fmt.Errorf("钱包开户失败: %w", err)
		}
		recharge := change.SourceType == models.WalletSourceRecharge
		if _, err := w.WalletDAO.Increase(ctx, change.UserID, change.Amount, recharge); err != nil {
			return fmt.Errorf("更新余额失败: %w", err)
		}

		entry, err = w.writeLog(ctx, change, change.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (w *WalletService) Debit(ctx context.Context, change *WalletChange) (*models.WalletLog, error) {
	if !change.Amount.IsPositive() {
		return nil, ErrValidation.WithMsg("扣款金额必须大于0")
	}

	var entry *models.WalletLog
	err := dao.Transaction(ctx, w.DB, func(ctx context.Context) error {
		exists, err := w.WalletDAO.LogExists(ctx, change.SourceType, change.SourceSn)
		if err != nil {
			return fmt.Errorf("检查余额流水失败: %w", err)
		}
		if exists {
			return ErrConflict.WithMsg("该业务已扣款，请勿重复操作")
		}

		// 余额不足或未开户时影响行数为 0
		rows, err := w.WalletDAO.Decrease(ctx, change.UserID, change.Amount)
		if err != nil {
			return fmt.Errorf("扣减余额失败: %w", err)
		}
		if rows == 0 {
			return ErrBalanceShortage
		}

		entry, err = w.writeLog(ctx, change, change.Amount.Neg())
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// writeLog 读取变动后余额并写流水
func (w *WalletService) writeLog(ctx context.Context, change *WalletChange, amount decimal.Decimal) (*models.WalletLog, error) {
	acc, err := w.WalletDAO.GetAccount(ctx, change.UserID)
	if err != nil {
		return nil, fmt.Errorf("读取钱包失败: %w", err)
	}
	entry := &models.WalletLog{
		UserID:       change.UserID,
		SourceType:   change.SourceType,
		ChangeAmount: amount,
		LeftAmount:   acc.Balance,
		SourceID:     change.SourceID,
		SourceSn:     change.SourceSn,
		Remark:       change.Remark,
	}
	if err := w.WalletDAO.CreateLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("写入余额流水失败: %w", err)
	}
	return entry, nil
}

func (w *WalletService) Records(ctx context.Context, userID uint64, req *types.ListWalletRecordsReq) (*types.ListWalletRecord, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	action := ""
	switch req.Action {
	case 1:
		action = "income"
	case 2:
		action = "expense"
	}

	logs, err := w.WalletDAO.ListRecords(ctx, userID, action, req.Cursor, limit)
	if err != nil {
		return nil, err
	}

	resp := &types.ListWalletRecord{Records: make([]types.WalletRecord, 0, len(logs))}
	for _, l := range logs {
		resp.Records = append(resp.Records, types.WalletRecord{
			ID:           l.ID,
			SourceType:   l.SourceType,
			ChangeAmount: l.ChangeAmount,
			LeftAmount:   l.LeftAmount,
			SourceSn:     l.SourceSn,
			Remark:       l.Remark,
			CreateTime:   l.CreateTime,
		})
	}
	if len(logs) > 0 {
		last := logs[len(logs)-1].ID
		resp.NextCursor = last
		resp.HasMore, err = w.WalletDAO.HasMoreRecords(ctx, userID, action, last)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}
