package service

import (
	"Mall/config"
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/metrics"
	"Mall/types"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RechargeService struct {
	DB          *gorm.DB
	Config      *config.OrderConfig
	OrderDAO    *dao.Order
	SubOrderDAO *dao.SubOrder
	Serial      SerialGenerator
	Event       IOrderEventService
}

var _ IRechargeService = (*RechargeService)(nil)

type IRechargeService interface {
	Packages(ctx context.Context) *types.RechargePackagesResp
	Place(ctx context.Context, userID uint64, req *types.PlaceRechargeReq) (*types.PlaceRechargeResp, error)
}

func (r *RechargeService) Packages(_ context.Context) *types.RechargePackagesResp {
	conf := r.Config.Recharge
	resp := &types.RechargePackagesResp{
		Enabled:     conf.Enabled,
		MinRecharge: conf.MinRecharge,
		Packages:    make([]*types.RechargePackage, 0, len(conf.Packages)),
	}
	for _, p := range conf.Packages {
		resp.Packages = append(resp.Packages, &types.RechargePackage{
			ID:        p.ID,
			Name:      p.Name,
			Money:     p.Money,
			GiveMoney: p.GiveMoney,
		})
	}
	return resp
}

func (r *RechargeService) Place(ctx context.Context, userID uint64, req *types.PlaceRechargeReq) (*types.PlaceRechargeResp, error) {
	conf := r.Config.Recharge
	if !conf.Enabled {
		return nil, ErrRechargeDisabled
	}

	money, give := req.Money, decimal.Zero
	name := "余额充值"
	if req.PackageID > 0 {
		pkg, ok := r.Config.FindPackage(req.PackageID)
		if !ok {
			return nil, ErrNotFound.WithMsg("充值套餐不存在")
		}
		money, give, name = pkg.Money, pkg.GiveMoney, pkg.Name
	}
	money = money.Round(2)
	if !money.IsPositive() {
		return nil, ErrValidation.WithMsg("请输入充值金额")
	}
	if money.LessThan(conf.MinRecharge) {
		return nil, ErrValidation.WithMsg(fmt.Sprintf("最低充值金额为 %s", conf.MinRecharge.StringFixed(2)))
	}

	order := &models.MainOrder{
		UserID:          userID,
		OrderSn:         r.Serial.NextSerial(ctx),
		OrderType:       models.OrderTypeRecharge,
		TotalAmount:     money,
		DiscountAmount:  decimal.Zero,
		ActualPayAmount: money,
		GiveAmount:      give,
		Terminal:        req.Terminal,
		PayWay:          models.PayWayUnset,
		PayStatus:       models.PayStatusWaiting,
	}

	err := dao.Transaction(ctx, r.DB, func(ctx context.Context) error {
		if err := r.OrderDAO.Create(ctx, order); err != nil {
			return fmt.Errorf("create recharge order: %w", err)
		}
		if err := r.SubOrderDAO.CreateBatch(ctx, []*models.SubOrder{{
			MainOrderID:    order.ID,
			MainOrderSn:    order.OrderSn,
			UserID:         userID,
			SourceID:       req.PackageID,
			ProductName:    name,
			Quantity:       1,
			UnitPrice:      money,
			SubtotalAmount: money,
			DeliveryType:   models.DeliveryTypeNone,
			DeliveryStatus: models.DeliveryStatusWaiting,
		}}); err != nil {
			return fmt.Errorf("create recharge line: %w", err)
		}
		return r.Event.Append(ctx, &models.OrderEvent{
			MainOrderID: order.ID,
			OrderSn:     order.OrderSn,
			UserID:      userID,
			EventType:   models.EventCreated,
		}, map[string]any{
			"order_type": models.OrderTypeRecharge,
			"money":      money,
			"give_money": give,
		})
	})
	if err != nil {
		return nil, err
	}
	source := "custom"
	if req.PackageID > 0 {
		source = "package"
	}
	metrics.OrderCreatedTotal.WithLabelValues("recharge", source).Inc()

	return &types.PlaceRechargeResp{
		OrderID:   order.ID,
		OrderSn:   order.OrderSn,
		Money:     money,
		GiveMoney: give,
	}, nil
}
