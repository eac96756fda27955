package service

import (
	"context"
	"errors"
	"testing"

	"Mall/models"
	"Mall/pkg/paygate"
	"Mall/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T, e *testEnv, userID uint64, price string, deliveryType int8) *types.CreateOrderResp {
	t.Helper()
	if _, err := e.orders.Address.GetAddress(context.Background(), userID, 0); err != nil {
		e.seedAddress(t, userID)
	}
	c := e.seedCommodity(t, "商品"+price, price, 100, deliveryType)
	resp, err := e.orders.Create(context.Background(), userID, &types.CreateOrderReq{
		CommodityID: c.ID,
		Quantity:    1,
		Terminal:    models.TerminalH5,
	})
	require.NoError(t, err)
	return resp
}

func TestPayService_PayWays(t *testing.T) {
	e := newTestEnv(t)

	ways := e.pay.PayWays(context.Background())
	require.Len(t, ways, 2)
	assert.Equal(t, models.PayWayWechat, ways[0].PayWay)
	assert.Equal(t, models.PayWayBalance, ways[1].PayWay)
}

func TestPayService_PrepayBalance(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "30.00", models.DeliveryTypeNone)
	e.seedBalance(t, 1, "100")

	resp, err := e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayBalance,
		Terminal: models.TerminalH5,
	})
	require.NoError(t, err)
	assert.True(t, resp.Paid)

	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(70)), e.balanceOf(t, 1).String())
	paid := e.findOrder(t, order.OrderID)
	assert.Equal(t, models.PayStatusPaid, paid.PayStatus)
	assert.Equal(t, models.PayWayBalance, paid.PayWay)
	assert.NotZero(t, paid.PayTime)

	// 无需发货的商品支付后即完成
	subs, err := e.subOrderDAO.FindByMainOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusDelivered, subs[0].DeliveryStatus)
	assert.Equal(t, 1, e.countEvents(t, order.OrderSn, models.EventPaid))

	_, err = e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayBalance,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(70)))

	listen, err := e.pay.Listen(ctx, 1, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "paid", listen.Status)

	// 首次查询后写入缓存
	cached, err := e.paid.IsPaid(ctx, 1, order.OrderID)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestPayService_PrepayBalanceShortage(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "30.00", models.DeliveryTypeLogistics)
	e.seedBalance(t, 1, "10")

	_, err := e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayBalance,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrInsufficientResource))

	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.PayStatusWaiting, e.findOrder(t, order.OrderID).PayStatus)
	assert.Zero(t, e.countEvents(t, order.OrderSn, models.EventPaid))

	// 没有钱包账户时同样是余额不足
	other := createOrder(t, e, 2, "1.00", models.DeliveryTypeLogistics)
	_, err = e.pay.Prepay(ctx, &PrepayCaller{UserID: 2}, &types.PrepayReq{
		OrderID:  other.OrderID,
		PayWay:   models.PayWayBalance,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrInsufficientResource))
}

func TestPayService_PrepayGateway(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "88.00", models.DeliveryTypeLogistics)

	resp, err := e.pay.Prepay(ctx, &PrepayCaller{UserID: 1, OpenID: "openid-1", ClientIP: "127.0.0.1"}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayWechat,
		Terminal: models.TerminalMnp,
	})
	require.NoError(t, err)
	assert.False(t, resp.Paid)
	assert.NotNil(t, resp.Payload)

	require.Len(t, e.gateway.calls, 1)
	call := e.gateway.calls[0]
	assert.Equal(t, order.OrderSn, call.OrderSn)
	assert.Equal(t, paygate.SceneOrder, call.Scene)
	assert.Equal(t, "openid-1", call.OpenID)
	assert.True(t, call.Amount.Equal(decimal.NewFromInt(88)))

	saved := e.findOrder(t, order.OrderID)
	assert.Equal(t, models.PayWayWechat, saved.PayWay)
	assert.Equal(t, models.TerminalMnp, saved.Terminal)
	assert.Equal(t, models.PayStatusWaiting, saved.PayStatus)

	listen, err := e.pay.Listen(ctx, 1, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "waiting", listen.Status)
}

func TestPayService_PrepayGatewayFailure(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "88.00", models.DeliveryTypeLogistics)
	e.gateway.err = errors.New("connection reset")

	_, err := e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayWechat,
		Terminal: models.TerminalPc,
	})
	assert.True(t, errors.Is(err, ErrExternal))
	assert.Equal(t, models.PayStatusWaiting, e.findOrder(t, order.OrderID).PayStatus)
}

func TestPayService_PrepayRejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	order := createOrder(t, e, 1, "5.00", models.DeliveryTypeLogistics)

	_, err := e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayAlipay,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrValidation), "disabled pay way")

	_, err = e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   9,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrValidation), "unknown pay way")

	_, err = e.pay.Prepay(ctx, &PrepayCaller{UserID: 2}, &types.PrepayReq{
		OrderID:  order.OrderID,
		PayWay:   models.PayWayWechat,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrNotFound), "other user's order")

	listen, err := e.pay.Listen(ctx, 2, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "missing", listen.Status)
	assert.Empty(t, e.gateway.calls)
}

func TestPayService_BalanceRejectsRecharge(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.seedBalance(t, 1, "100")
	placed, err := e.recharge.Place(ctx, 1, &types.PlaceRechargeReq{PackageID: 1, Terminal: models.TerminalH5})
	require.NoError(t, err)

	_, err = e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  placed.OrderID,
		PayWay:   models.PayWayBalance,
		Terminal: models.TerminalH5,
	})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(100)))

	resp, err := e.pay.Prepay(ctx, &PrepayCaller{UserID: 1}, &types.PrepayReq{
		OrderID:  placed.OrderID,
		PayWay:   models.PayWayWechat,
		Terminal: models.TerminalH5,
	})
	require.NoError(t, err)
	assert.Equal(t, placed.OrderSn, resp.OrderSn)
	assert.Equal(t, paygate.SceneRecharge, e.gateway.calls[0].Scene)
}
