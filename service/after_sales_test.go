package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"Mall/models"
	"Mall/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paidSubOrder 下单并支付，返回子订单
func paidSubOrder(t *testing.T, e *testEnv, userID uint64, price string) *models.SubOrder {
	t.Helper()
	order := createOrder(t, e, userID, price, models.DeliveryTypeLogistics)
	e.markPaid(t, order.OrderID)
	subs, err := e.subOrderDAO.FindByMainOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	return subs[0]
}

func TestAfterSales_RefundOnly(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sub := paidSubOrder(t, e, 1, "59.90")

	wo, err := e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeOnly,
		ReturnKind: models.ReturnKindExpress,
		Reason:     "拍错了",
		Images:     []string{"https://img/1.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderPending, wo.Status)
	assert.Equal(t, models.ReturnKindNone, wo.ReturnKind)
	assert.True(t, wo.RefundAmount.Equal(decimal.RequireFromString("59.90")))
	assert.NotEmpty(t, wo.WorkOrderSn)
	assert.Equal(t, models.AfterSalesApplying, e.findSub(t, sub.ID).AfterSalesStatus)

	require.NoError(t, e.afterSales.Agree(ctx, wo.ID))

	detail, err := e.afterSales.Detail(ctx, 1, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderCompleted, detail.Status)
	assert.Equal(t, []string{"https://img/1.png"}, detail.Images)

	after := e.findSub(t, sub.ID)
	assert.Equal(t, models.AfterSalesReturnedSuccess, after.AfterSalesStatus)
	assert.Equal(t, models.DeliveryStatusReturned, after.DeliveryStatus)
	assert.Equal(t, []uint64{sub.ID}, e.refund.subs)

	assert.Equal(t, 1, e.countEvents(t, sub.MainOrderSn, models.EventAfterSalesRequested))
	assert.Equal(t, 1, e.countEvents(t, sub.MainOrderSn, models.EventAfterSalesResolved))

	_, err = e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeOnly,
		Reason:     "再来一次",
	})
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestAfterSales_ReturnAndRefund(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sub := paidSubOrder(t, e, 1, "120.00")

	wo, err := e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeWithGoods,
		ReturnKind: models.ReturnKindExpress,
		Reason:     "质量问题",
	})
	require.NoError(t, err)

	err = e.afterSales.Confirm(ctx, wo.ID)
	assert.True(t, errors.Is(err, ErrInvalidState), "confirm before agree")

	err = e.afterSales.FillReturnLogistics(ctx, 1, &types.ReturnLogisticsReq{WorkOrderID: wo.ID, LogisticsCompany: "顺丰", LogisticsNo: "SF1"})
	assert.True(t, errors.Is(err, ErrInvalidState), "logistics before agree")

	require.NoError(t, e.afterSales.Agree(ctx, wo.ID))
	detail, err := e.afterSales.Detail(ctx, 1, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderProcessing, detail.Status)
	assert.Equal(t, models.AfterSalesAgreed, detail.AfterSalesStatus)
	assert.Empty(t, e.refund.subs)

	err = e.afterSales.Agree(ctx, wo.ID)
	assert.True(t, errors.Is(err, ErrInvalidState), "agree twice")

	require.NoError(t, e.afterSales.FillReturnLogistics(ctx, 1, &types.ReturnLogisticsReq{
		WorkOrderID:      wo.ID,
		LogisticsCompany: " 顺丰 ",
		LogisticsNo:      "SF1001",
	}))
	detail, err = e.afterSales.Detail(ctx, 1, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, "顺丰", detail.ReturnCompany)
	assert.Equal(t, "SF1001", detail.ReturnNo)

	require.NoError(t, e.afterSales.Confirm(ctx, wo.ID))
	detail, err = e.afterSales.Detail(ctx, 1, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderCompleted, detail.Status)
	assert.Equal(t, models.AfterSalesReturnedSuccess, detail.AfterSalesStatus)
	assert.Equal(t, models.DeliveryStatusReturned, e.findSub(t, sub.ID).DeliveryStatus)
	assert.Equal(t, []uint64{sub.ID}, e.refund.subs)

	err = e.afterSales.Cancel(ctx, 1, wo.ID)
	assert.True(t, errors.Is(err, ErrInvalidState), "cancel completed")
}

func TestAfterSales_RefuseAndResubmit(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sub := paidSubOrder(t, e, 1, "20.00")

	wo, err := e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeOnly,
		Reason:     "不想要了",
	})
	require.NoError(t, err)

	err = e.afterSales.Refuse(ctx, wo.ID, "  ")
	assert.True(t, errors.Is(err, ErrValidation))

	require.NoError(t, e.afterSales.Refuse(ctx, wo.ID, "商品已使用"))
	detail, err := e.afterSales.Detail(ctx, 1, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderRefused, detail.Status)
	assert.Equal(t, "商品已使用", detail.RefuseReason)
	assert.Equal(t, models.AfterSalesRefused, detail.AfterSalesStatus)

	// 被拒绝的工单仍占用子订单，需要重新提交
	_, err = e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeOnly,
		Reason:     "换个理由",
	})
	assert.True(t, errors.Is(err, ErrConflict))

	require.NoError(t, e.afterSales.Resubmit(ctx, 1, &types.ResubmitAfterSalesReq{
		WorkOrderID: wo.ID,
		RefundType:  models.RefundTypeWithGoods,
		ReturnKind:  models.ReturnKindStore,
		Reason:      "补充说明",
	}))
	detail, err = e.afterSales.Detail(ctx, 1, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderPending, detail.Status)
	assert.Equal(t, models.AfterSalesApplying, detail.AfterSalesStatus)
	assert.Equal(t, models.RefundTypeWithGoods, detail.RefundType)
	assert.Equal(t, models.ReturnKindStore, detail.ReturnKind)
	assert.Empty(t, detail.RefuseReason)

	err = e.afterSales.Resubmit(ctx, 1, &types.ResubmitAfterSalesReq{
		WorkOrderID: wo.ID,
		RefundType:  models.RefundTypeOnly,
		Reason:      "again",
	})
	assert.True(t, errors.Is(err, ErrInvalidState), "resubmit pending")
}

func TestAfterSales_ApplyRejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sub := paidSubOrder(t, e, 1, "20.00")
	unpaid := createOrder(t, e, 1, "8.00", models.DeliveryTypeLogistics)
	unpaidSubs, err := e.subOrderDAO.FindByMainOrder(ctx, unpaid.OrderID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID uint64
		req    *types.ApplyAfterSalesReq
		want   error
	}{
		{
			name:   "unknown refund type",
			userID: 1,
			req:    &types.ApplyAfterSalesReq{SubOrderID: sub.ID, RefundType: 9, Reason: "x"},
			want:   ErrValidation,
		},
		{
			name:   "return without kind",
			userID: 1,
			req:    &types.ApplyAfterSalesReq{SubOrderID: sub.ID, RefundType: models.RefundTypeWithGoods, Reason: "x"},
			want:   ErrValidation,
		},
		{
			name:   "other user",
			userID: 2,
			req:    &types.ApplyAfterSalesReq{SubOrderID: sub.ID, RefundType: models.RefundTypeOnly, Reason: "x"},
			want:   ErrNotFound,
		},
		{
			name:   "unpaid order",
			userID: 1,
			req:    &types.ApplyAfterSalesReq{SubOrderID: unpaidSubs[0].ID, RefundType: models.RefundTypeOnly, Reason: "x"},
			want:   ErrInvalidState,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.afterSales.Apply(ctx, tt.userID, tt.req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err = e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{SubOrderID: sub.ID, RefundType: models.RefundTypeOnly, Reason: "x"})
	require.NoError(t, err)
	_, err = e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{SubOrderID: sub.ID, RefundType: models.RefundTypeOnly, Reason: "x"})
	assert.True(t, errors.Is(err, ErrConflict), "duplicate apply")
}

func TestAfterSales_Cancel(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	sub := paidSubOrder(t, e, 1, "20.00")

	wo, err := e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeWithGoods,
		ReturnKind: models.ReturnKindExpress,
		Reason:     "尺码不合适",
	})
	require.NoError(t, err)
	require.NoError(t, e.afterSales.Agree(ctx, wo.ID))

	err = e.afterSales.Cancel(ctx, 2, wo.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, e.afterSales.Cancel(ctx, 1, wo.ID))
	assert.Equal(t, models.AfterSalesNone, e.findSub(t, sub.ID).AfterSalesStatus)
	_, err = e.afterSales.Detail(ctx, 1, wo.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// 撤销后可以重新申请
	again, err := e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: sub.ID,
		RefundType: models.RefundTypeOnly,
		Reason:     "还是退款吧",
	})
	require.NoError(t, err)
	assert.NotEqual(t, wo.WorkOrderSn, again.WorkOrderSn)
}

func TestAfterSales_AdminNotFound(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	assert.True(t, errors.Is(e.afterSales.Agree(ctx, 404), ErrNotFound))
	assert.True(t, errors.Is(e.afterSales.Refuse(ctx, 404, "x"), ErrNotFound))
	assert.True(t, errors.Is(e.afterSales.Confirm(ctx, 404), ErrNotFound))
}

func TestAfterSales_ApplyRejectsRecharge(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	placed, err := e.recharge.Place(ctx, 1, &types.PlaceRechargeReq{PackageID: 1, Terminal: models.TerminalH5})
	require.NoError(t, err)
	e.markPaid(t, placed.OrderID)
	require.True(t, e.balanceOf(t, 1).Equal(decimal.NewFromInt(60)))

	subs, err := e.subOrderDAO.FindByMainOrder(ctx, placed.OrderID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	_, err = e.afterSales.Apply(ctx, 1, &types.ApplyAfterSalesReq{
		SubOrderID: subs[0].ID,
		RefundType: models.RefundTypeOnly,
		Reason:     "不想充了",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, ErrAfterSalesNotAllow.Error(), err.Error())

	var n int64
	require.NoError(t, e.db.Model(&models.WorkOrder{}).Where("sub_order_id = ?", subs[0].ID).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, models.AfterSalesNone, e.findSub(t, subs[0].ID).AfterSalesStatus)
}

// seedWorkOrder 申请售后后直接改写工单状态
func seedWorkOrder(t *testing.T, e *testEnv, refundType, status int8) *models.WorkOrder {
	t.Helper()
	sub := paidSubOrder(t, e, 1, "30.00")
	req := &types.ApplyAfterSalesReq{SubOrderID: sub.ID, RefundType: refundType, Reason: "x"}
	if refundType == models.RefundTypeWithGoods {
		req.ReturnKind = models.ReturnKindExpress
	}
	wo, err := e.afterSales.Apply(context.Background(), 1, req)
	require.NoError(t, err)
	require.NoError(t, e.db.Model(&models.WorkOrder{}).Where("id = ?", wo.ID).Update("status", status).Error)

	stored, err := e.workOrderDAO.FindById(context.Background(), wo.ID)
	require.NoError(t, err)
	return stored
}

func TestAfterSales_TransitionMatrix(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	actions := map[string]func(id uint64) error{
		"agree":   func(id uint64) error { return e.afterSales.Agree(ctx, id) },
		"refuse":  func(id uint64) error { return e.afterSales.Refuse(ctx, id, "不符合售后条件") },
		"confirm": func(id uint64) error { return e.afterSales.Confirm(ctx, id) },
		"cancel":  func(id uint64) error { return e.afterSales.Cancel(ctx, 1, id) },
		"resubmit": func(id uint64) error {
			return e.afterSales.Resubmit(ctx, 1, &types.ResubmitAfterSalesReq{
				WorkOrderID: id,
				RefundType:  models.RefundTypeOnly,
				Reason:      "x",
			})
		},
		"logistics": func(id uint64) error {
			return e.afterSales.FillReturnLogistics(ctx, 1, &types.ReturnLogisticsReq{
				WorkOrderID:      id,
				LogisticsCompany: "顺丰",
				LogisticsNo:      "SF1",
			})
		},
	}

	tests := []struct {
		action     string
		refundType int8
		status     int8
	}{
		{"agree", models.RefundTypeWithGoods, models.WorkOrderProcessing},
		{"agree", models.RefundTypeOnly, models.WorkOrderCompleted},
		{"agree", models.RefundTypeOnly, models.WorkOrderRefused},

		{"refuse", models.RefundTypeWithGoods, models.WorkOrderProcessing},
		{"refuse", models.RefundTypeOnly, models.WorkOrderCompleted},
		{"refuse", models.RefundTypeOnly, models.WorkOrderRefused},

		{"confirm", models.RefundTypeWithGoods, models.WorkOrderPending},
		{"confirm", models.RefundTypeWithGoods, models.WorkOrderCompleted},
		{"confirm", models.RefundTypeWithGoods, models.WorkOrderRefused},
		{"confirm", models.RefundTypeOnly, models.WorkOrderProcessing},

		{"resubmit", models.RefundTypeOnly, models.WorkOrderPending},
		{"resubmit", models.RefundTypeWithGoods, models.WorkOrderProcessing},
		{"resubmit", models.RefundTypeOnly, models.WorkOrderCompleted},

		{"cancel", models.RefundTypeOnly, models.WorkOrderCompleted},

		{"logistics", models.RefundTypeWithGoods, models.WorkOrderPending},
		{"logistics", models.RefundTypeWithGoods, models.WorkOrderRefused},
		{"logistics", models.RefundTypeWithGoods, models.WorkOrderCompleted},
		{"logistics", models.RefundTypeOnly, models.WorkOrderProcessing},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("%s/type%d/status%d", tt.action, tt.refundType, tt.status)
		t.Run(name, func(t *testing.T) {
			wo := seedWorkOrder(t, e, tt.refundType, tt.status)
			refunds := len(e.refund.subs)

			err := actions[tt.action](wo.ID)
			assert.True(t, errors.Is(err, ErrInvalidState), "got %v", err)

			after, err := e.workOrderDAO.FindById(ctx, wo.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, after.Status)
			assert.Equal(t, wo.RefundType, after.RefundType)
			assert.Len(t, e.refund.subs, refunds)
		})
	}
}

func TestAfterSales_ReturnLogisticsRequired(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	wo := seedWorkOrder(t, e, models.RefundTypeWithGoods, models.WorkOrderProcessing)

	for _, req := range []*types.ReturnLogisticsReq{
		{WorkOrderID: wo.ID, LogisticsCompany: "", LogisticsNo: "SF1"},
		{WorkOrderID: wo.ID, LogisticsCompany: "顺丰", LogisticsNo: "  "},
	} {
		err := e.afterSales.FillReturnLogistics(ctx, 1, req)
		assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
	}

	req := &types.ReturnLogisticsReq{WorkOrderID: wo.ID, LogisticsCompany: "顺丰", LogisticsNo: "SF1"}
	require.NoError(t, e.afterSales.FillReturnLogistics(ctx, 1, req))
	// 重复提交相同单号
	require.NoError(t, e.afterSales.FillReturnLogistics(ctx, 1, req))

	err := e.afterSales.FillReturnLogistics(ctx, 2, req)
	assert.True(t, errors.Is(err, ErrNotFound))
}
