package service

import (
	"Mall/config"
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/log"
	"Mall/pkg/metrics"
	"Mall/types"
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

type PayService struct {
	Config     *config.OrderConfig
	OrderDAO   *dao.Order
	Strategies PayStrategies
	Paid       PaidCache
}

var _ IPayService = (*PayService)(nil)

type PrepayCaller struct {
	UserID   uint64
	OpenID   string
	ClientIP string
}

type IPayService interface {
	PayWays(ctx context.Context) []*types.PayWay
	Prepay(ctx context.Context, caller *PrepayCaller, req *types.PrepayReq) (*types.PrepayResp, error)
	Listen(ctx context.Context, userID, orderID uint64) (*types.ListenResp, error)
}

func (p *PayService) PayWays(_ context.Context) []*types.PayWay {
	ways := make([]config.PayWayConfig, 0, len(p.Config.PayWays))
	for _, w := range p.Config.PayWays {
		if !w.Enabled {
			continue
		}
		if _, ok := p.Strategies[w.Way]; !ok {
			continue
		}
		ways = append(ways, w)
	}
	sort.SliceStable(ways, func(i, j int) bool { return ways[i].Sort < ways[j].Sort })

	items := make([]*types.PayWay, 0, len(ways))
	for _, w := range ways {
		items = append(items, &types.PayWay{PayWay: w.Way, Name: w.Name, Icon: w.Icon})
	}
	return items
}

func (p *PayService) Prepay(ctx context.Context, caller *PrepayCaller, req *types.PrepayReq) (resp *types.PrepayResp, err error) {
	defer func() {
		metrics.PrepayTotal.WithLabelValues(strconv.Itoa(int(req.PayWay)), metrics.Result(err)).Inc()
	}()

	order, err := p.OrderDAO.FindUserOrder(ctx, caller.UserID, req.OrderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	switch order.PayStatus {
	case models.PayStatusPaid:
		return nil, ErrOrderPaid
	case models.PayStatusRefunded:
		return nil, ErrInvalidState.WithMsg("订单已退款")
	}

	strategy, ok := p.Strategies[req.PayWay]
	if !ok || !p.Config.PayWayEnabled(req.PayWay) {
		return nil, ErrPayWayDisabled
	}

	rows, err := p.OrderDAO.SetPayWay(ctx, order.ID, req.PayWay, req.Terminal)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// 值未变化时 MySQL 也返回 0，重新确认状态
		latest, err := p.OrderDAO.FindById(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if latest.PayStatus != models.PayStatusWaiting {
			return nil, ErrOrderPaid
		}
	}
	order.PayWay = req.PayWay
	order.Terminal = req.Terminal

	return strategy.Prepay(ctx, &PrepayInput{
		Order:    order,
		Terminal: req.Terminal,
		Redirect: req.Redirect,
		OpenID:   caller.OpenID,
		ClientIP: caller.ClientIP,
	})
}

func (p *PayService) Listen(ctx context.Context, userID, orderID uint64) (*types.ListenResp, error) {
	resp := &types.ListenResp{OrderID: orderID, Status: "missing"}
	paid, err := p.Paid.IsPaid(ctx, userID, orderID)
	if err != nil {
		log.L.Warn("read pay status cache", zap.Uint64("order_id", orderID), zap.Error(err))
	}
	if paid {
		resp.Status = "paid"
		return resp, nil
	}

	order, err := p.OrderDAO.FindUserOrder(ctx, userID, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return resp, nil
		}
		return nil, err
	}
	if order.PayStatus == models.PayStatusWaiting {
		resp.Status = "waiting"
		return resp, nil
	}
	resp.Status = "paid"
	if err := p.Paid.MarkPaid(ctx, userID, orderID); err != nil {
		log.L.Warn("write pay status cache", zap.Uint64("order_id", orderID), zap.Error(err))
	}
	return resp, nil
}
