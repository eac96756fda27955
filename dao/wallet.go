package dao

import (
	"Mall/models"
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Wallet struct {
	Repo[models.UserWallet]
}

func NewWallet(db *gorm.DB) *Wallet {
	return &Wallet{
		Repo: NewRepo[models.UserWallet](db),
	}
}

func (w *Wallet) LogExists(ctx context.Context, sourceType int8, sourceSn string) (bool, error) {
	var count int64
	err := w.DB(ctx).Model(&models.WalletLog{}).
		Where("source_type = ? AND source_sn = ?", sourceType, sourceSn).
		Count(&count).Error
	return count > 0, err
}

func (w *Wallet) GetAccount(ctx context.Context, userID uint64) (*models.UserWallet, error) {
	return w.FindByWhere(ctx, "user_id = ?", userID)
}

// EnsureAccount 首次入账时开户，已存在则忽略
func (w *Wallet) EnsureAccount(ctx context.Context, userID uint64) error {
	account := &models.UserWallet{
		UserID:        userID,
		Balance:       decimal.Zero,
		TotalRecharge: decimal.Zero,
		TotalConsume:  decimal.Zero,
	}
	return w.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(account).Error
}

func (w *Wallet) CreateLog(ctx context.Context, log *models.WalletLog) error {
	return w.DB(ctx).Create(log).Error
}

// Increase 入账，recharge 为 true 时同时累计充值总额
func (w *Wallet) Increase(ctx context.Context, userID uint64, amount decimal.Decimal, recharge bool) (int64, error) {
	data := map[string]any{
		// gorm.Expr 保证了并发下的原子加减
		"balance": gorm.Expr("balance + ?", amount),
	}
	if recharge {
		data["total_recharge"] = gorm.Expr("total_recharge + ?", amount)
	}
	return w.UpdateByWhere(ctx, data, "user_id = ?", userID)
}

// Decrease 扣款，余额不足时影响行数为 0
func (w *Wallet) Decrease(ctx context.Context, userID uint64, amount decimal.Decimal) (int64, error) {
	return w.UpdateByWhere(ctx, map[string]any{
		"balance":       gorm.Expr("balance - ?", amount),
		"total_consume": gorm.Expr("total_consume + ?", amount),
	}, "user_id = ? AND balance >= ?", userID, amount)
}

// ListRecords 分页筛选查询
func (w *Wallet) ListRecords(ctx context.Context, userID uint64, action string, cursor uint64, limit int) ([]models.WalletLog, error) {
	var logs []models.WalletLog
	query := w.DB(ctx).Where("user_id = ?", userID)

	switch action {
	case "income":
		query = query.Where("change_amount > ?", 0)
	case "expense":
		query = query.Where("change_amount < ?", 0)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// HasMoreRecords 检查是否还有更多数据
func (w *Wallet) HasMoreRecords(ctx context.Context, userID uint64, action string, lastID uint64) (bool, error) {
	var count int64
	query := w.DB(ctx).Model(&models.WalletLog{}).Where("user_id = ? AND id < ?", userID, lastID)

	switch action {
	case "income":
		query = query.Where("change_amount > ?", 0)
	case "expense":
		query = query.Where("change_amount < ?", 0)
	}

	err := query.Count(&count).Error
	return count > 0, err
}
