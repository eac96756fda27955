package dao

import (
	"context"
	"errors"
	"testing"

	"Mall/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newMainOrder(sn string) *models.MainOrder {
	return &models.MainOrder{
		UserID:          1,
		OrderSn:         sn,
		OrderType:       models.OrderTypePurchase,
		TotalAmount:     decimal.NewFromInt(10),
		ActualPayAmount: decimal.NewFromInt(10),
	}
}

func TestTransaction_NestedJoinsOuter(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrder(db)
	ctx := context.Background()

	err := Transaction(ctx, db, func(ctx context.Context) error {
		if err := orders.Create(ctx, newMainOrder("MO1")); err != nil {
			return err
		}
		// 内层不单独提交
		if err := orders.Txx(ctx, func(ctx context.Context) error {
			return orders.Create(ctx, newMainOrder("MO2"))
		}); err != nil {
			return err
		}
		return errors.New("rollback")
	})
	require.Error(t, err)

	exists, err := orders.IsExist(ctx, "order_sn IN ?", []string{"MO1", "MO2"})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOrder_MarkPaidOnce(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrder(db)
	ctx := context.Background()
	o := newMainOrder("MO1")
	require.NoError(t, orders.Create(ctx, o))

	rows, err := orders.MarkPaid(ctx, o.ID, models.PayWayWechat, "TX1", 1700000000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = orders.MarkPaid(ctx, o.ID, models.PayWayWechat, "TX2", 1700000001)
	require.NoError(t, err)
	assert.Zero(t, rows)

	got, err := orders.FindBySn(ctx, "MO1")
	require.NoError(t, err)
	assert.Equal(t, "TX1", got.TransactionID)
	assert.Equal(t, models.NotifyStatusSuccess, got.NotifyStatus)

	rows, err = orders.SetPayWay(ctx, o.ID, models.PayWayAlipay, models.TerminalH5)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestWorkOrder_TransitionAndSoftDelete(t *testing.T) {
	db := newTestDB(t)
	wos := NewWorkOrder(db)
	ctx := context.Background()
	wo := &models.WorkOrder{WorkOrderSn: "WO1", UserID: 1, SubOrderID: 7, RefundType: models.RefundTypeOnly}
	require.NoError(t, wos.Create(ctx, wo))

	active, err := wos.HasActive(ctx, 7)
	require.NoError(t, err)
	assert.True(t, active)

	rows, err := wos.Transition(ctx, wo.ID, []int8{models.WorkOrderProcessing}, map[string]any{"status": models.WorkOrderCompleted})
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = wos.SoftDelete(ctx, wo.ID, []int8{models.WorkOrderPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	active, err = wos.HasActive(ctx, 7)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = wos.FindUserWorkOrder(ctx, 1, wo.ID)
	assert.True(t, IsNotFound(err))
}

func TestWallet_DecreaseGuard(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWallet(db)
	ctx := context.Background()

	rows, err := wallets.Decrease(ctx, 1, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Zero(t, rows)

	require.NoError(t, wallets.EnsureAccount(ctx, 1))
	require.NoError(t, wallets.EnsureAccount(ctx, 1))
	_, err = wallets.Increase(ctx, 1, decimal.NewFromInt(5), false)
	require.NoError(t, err)

	rows, err = wallets.Decrease(ctx, 1, decimal.NewFromInt(6))
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = wallets.Decrease(ctx, 1, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	acc, err := wallets.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
	assert.True(t, acc.TotalConsume.Equal(decimal.NewFromInt(5)))
}
