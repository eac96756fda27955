package service

import (
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/log"
	"Mall/pkg/paygate"
	"Mall/types"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PrepayInput struct {
	Order    *models.MainOrder
	Terminal int8
	Redirect string
	OpenID   string
	ClientIP string
}

// PayStrategy 一种支付方式的预支付实现
type PayStrategy interface {
	PayWay() int8
	Prepay(ctx context.Context, in *PrepayInput) (*types.PrepayResp, error)
}

// PayStrategies 按支付方式索引
type PayStrategies map[int8]PayStrategy

func NewPayStrategies(balance *BalanceStrategy, wechat *paygate.WechatPay, alipay *paygate.Alipay) PayStrategies {
	return RegisterStrategies(
		balance,
		&GatewayStrategy{Way: models.PayWayWechat, Gateway: wechat},
		&GatewayStrategy{Way: models.PayWayAlipay, Gateway: alipay},
	)
}

func RegisterStrategies(strategies ...PayStrategy) PayStrategies {
	m := make(PayStrategies, len(strategies))
	for _, s := range strategies {
		m[s.PayWay()] = s
	}
	return m
}

// BalanceStrategy 余额支付，同步完成扣款和订单状态变更
type BalanceStrategy struct {
	DB       *gorm.DB
	OrderDAO *dao.Order
	Wallet   IWalletService
	Delivery IDeliveryService
	Event    IOrderEventService
}

func (b *BalanceStrategy) PayWay() int8 {
	return models.PayWayBalance
}

func (b *BalanceStrategy) Prepay(ctx context.Context, in *PrepayInput) (*types.PrepayResp, error) {
	order := in.Order
	if order.OrderType == models.OrderTypeRecharge {
		return nil, ErrValidation.WithMsg("充值订单不支持余额支付")
	}

	err := dao.Transaction(ctx, b.DB, func(ctx context.Context) error {
		if _, err := b.Wallet.Debit(ctx, &WalletChange{
			UserID:     order.UserID,
			Amount:     order.ActualPayAmount,
			SourceType: models.WalletSourcePurchase,
			SourceID:   order.ID,
			SourceSn:   order.OrderSn,
			Remark:     "余额支付",
		}); err != nil {
			return err
		}

		rows, err := b.OrderDAO.MarkPaid(ctx, order.ID, models.PayWayBalance, "", time.Now().Unix())
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderPaid
		}

		if err := b.Delivery.Init(ctx, order); err != nil {
			return err
		}
		return b.Event.Append(ctx, &models.OrderEvent{
			MainOrderID: order.ID,
			OrderSn:     order.OrderSn,
			UserID:      order.UserID,
			EventType:   models.EventPaid,
		}, map[string]any{
			"pay_way": models.PayWayBalance,
			"amount":  order.ActualPayAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	return &types.PrepayResp{
		OrderID: order.ID,
		OrderSn: order.OrderSn,
		PayWay:  models.PayWayBalance,
		Paid:    true,
	}, nil
}

// GatewayStrategy 第三方渠道，返回拉起支付的参数，结果以异步通知为准
type GatewayStrategy struct {
	Way     int8
	Gateway paygate.Gateway
}

func (g *GatewayStrategy) PayWay() int8 {
	return g.Way
}

func (g *GatewayStrategy) Prepay(ctx context.Context, in *PrepayInput) (*types.PrepayResp, error) {
	order := in.Order
	payload, err := g.Gateway.UnifyOrder(ctx, &paygate.UnifyRequest{
		OrderSn:     order.OrderSn,
		Amount:      order.ActualPayAmount,
		Description: orderDescription(order),
		Redirect:    in.Redirect,
		Scene:       SceneOf(order.OrderType),
		Terminal:    in.Terminal,
		OpenID:      in.OpenID,
		ClientIP:    in.ClientIP,
	})
	if err != nil {
		log.L.Error("gateway unify order failed",
			zap.String("order_sn", order.OrderSn),
			zap.Int8("pay_way", g.Way),
			zap.Error(err))
		return nil, ErrGatewayFailed
	}

	return &types.PrepayResp{
		OrderID: order.ID,
		OrderSn: order.OrderSn,
		PayWay:  g.Way,
		Payload: payload,
	}, nil
}

func orderDescription(order *models.MainOrder) string {
	switch order.OrderType {
	case models.OrderTypeRecharge:
		return "余额充值"
	case models.OrderTypeMembership:
		return "开通会员"
	default:
		return "商城订单-" + order.OrderSn
	}
}

// SceneOf 订单类型对应的支付场景
func SceneOf(orderType int8) string {
	switch orderType {
	case models.OrderTypeRecharge:
		return paygate.SceneRecharge
	case models.OrderTypeMembership:
		return paygate.SceneMembership
	default:
		return paygate.SceneOrder
	}
}

// OrderTypeOf 支付场景还原订单类型，未知场景返回 0
func OrderTypeOf(scene string) int8 {
	switch scene {
	case paygate.SceneRecharge:
		return models.OrderTypeRecharge
	case paygate.SceneMembership:
		return models.OrderTypeMembership
	case paygate.SceneOrder:
		return models.OrderTypePurchase
	default:
		return 0
	}
}
