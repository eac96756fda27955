package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Mall/models"
	"Mall/pkg/paygate"
	"Mall/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countWalletLogs(t *testing.T, e *testEnv, userID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.WalletLog{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestPayNotify_RechargeReplay(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	placed, err := e.recharge.Place(ctx, 1, &types.PlaceRechargeReq{PackageID: 1, Terminal: models.TerminalMnp})
	require.NoError(t, err)

	n := &paygate.Notification{
		Scene:         paygate.SceneRecharge,
		OrderSn:       placed.OrderSn,
		TransactionID: "4200001",
		Amount:        decimal.NewFromInt(50),
		Success:       true,
		Raw:           []byte(`{"trade_state":"SUCCESS"}`),
	}
	require.NoError(t, e.notify.HandleNotification(ctx, models.PayWayWechat, n))

	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(60)), e.balanceOf(t, 1).String())
	assert.Equal(t, int64(1), countWalletLogs(t, e, 1))

	order := e.findOrder(t, placed.OrderID)
	assert.Equal(t, models.PayStatusPaid, order.PayStatus)
	assert.Equal(t, models.PayWayWechat, order.PayWay)
	assert.Equal(t, "4200001", order.TransactionID)
	assert.Equal(t, models.NotifyStatusSuccess, order.NotifyStatus)

	acc, err := e.walletDAO.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, acc.TotalRecharge.Equal(decimal.NewFromInt(60)))

	// 渠道重复通知
	require.NoError(t, e.notify.HandleNotification(ctx, models.PayWayWechat, n))
	require.NoError(t, e.notify.Handle(ctx, models.OrderTypeRecharge, placed.OrderSn, "4200001"))

	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(60)))
	assert.Equal(t, int64(1), countWalletLogs(t, e, 1))
	assert.Equal(t, 1, e.countEvents(t, placed.OrderSn, models.EventPaid))

	var records int64
	require.NoError(t, e.db.Model(&models.PayRecord{}).Where("order_sn = ?", placed.OrderSn).Count(&records).Error)
	assert.Equal(t, int64(1), records)

	// 充值行无需发货
	subs, err := e.subOrderDAO.FindByMainOrder(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusDelivered, subs[0].DeliveryStatus)
}

func TestPayNotify_ConcurrentReplay(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	placed, err := e.recharge.Place(ctx, 1, &types.PlaceRechargeReq{Money: decimal.NewFromInt(20), Terminal: models.TerminalH5})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.notify.Handle(ctx, models.OrderTypeRecharge, placed.OrderSn, "TX1"))
		}()
	}
	wg.Wait()

	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(20)))
	assert.Equal(t, int64(1), countWalletLogs(t, e, 1))
}

func TestPayNotify_Purchase(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "15.00", models.DeliveryTypeLogistics)

	require.NoError(t, e.notify.HandleNotification(ctx, models.PayWayAlipay, &paygate.Notification{
		Scene:         paygate.SceneOrder,
		OrderSn:       order.OrderSn,
		TransactionID: "2024ALI",
		Amount:        decimal.NewFromInt(15),
		Success:       true,
	}))

	paid := e.findOrder(t, order.OrderID)
	assert.Equal(t, models.PayStatusPaid, paid.PayStatus)
	assert.Equal(t, models.PayWayAlipay, paid.PayWay)
	// 商品订单不动钱包
	assert.Zero(t, countWalletLogs(t, e, 1))

	cached, err := e.paid.IsPaid(ctx, 1, order.OrderID)
	require.NoError(t, err)
	assert.True(t, cached)

	subs, err := e.subOrderDAO.FindByMainOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusWaiting, subs[0].DeliveryStatus)
}

func TestPayNotify_Rejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "15.00", models.DeliveryTypeLogistics)

	err := e.notify.Handle(ctx, models.OrderTypePurchase, "MO-not-exist", "TX")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = e.notify.Handle(ctx, models.OrderTypeRecharge, order.OrderSn, "TX")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, models.PayStatusWaiting, e.findOrder(t, order.OrderID).PayStatus)

	err = e.notify.HandleNotification(ctx, models.PayWayWechat, &paygate.Notification{
		Scene:   "unknown",
		OrderSn: order.OrderSn,
		Success: true,
	})
	assert.True(t, errors.Is(err, ErrValidation))

	// 支付失败的通知只记录状态
	require.NoError(t, e.notify.HandleNotification(ctx, models.PayWayWechat, &paygate.Notification{
		Scene:   paygate.SceneOrder,
		OrderSn: order.OrderSn,
		Success: false,
	}))
	failed := e.findOrder(t, order.OrderID)
	assert.Equal(t, models.PayStatusWaiting, failed.PayStatus)
	assert.Equal(t, models.NotifyStatusFailed, failed.NotifyStatus)
}

func TestPayNotify_AmountMismatch(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "15.00", models.DeliveryTypeLogistics)

	n := &paygate.Notification{
		Scene:         paygate.SceneOrder,
		OrderSn:       order.OrderSn,
		TransactionID: "2024ALI",
		Amount:        decimal.RequireFromString("0.01"),
		Success:       true,
	}
	err := e.notify.HandleNotification(ctx, models.PayWayAlipay, n)
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)

	unpaid := e.findOrder(t, order.OrderID)
	assert.Equal(t, models.PayStatusWaiting, unpaid.PayStatus)
	assert.Empty(t, unpaid.TransactionID)
	assert.Zero(t, e.countEvents(t, order.OrderSn, models.EventPaid))
	assert.False(t, e.paid.paid[e.paid.key(1, order.OrderID)])

	// 金额一致的重试正常入账
	n.Amount = decimal.RequireFromString("15")
	require.NoError(t, e.notify.HandleNotification(ctx, models.PayWayAlipay, n))
	assert.Equal(t, models.PayStatusPaid, e.findOrder(t, order.OrderID).PayStatus)
}
