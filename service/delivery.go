package service

import (
	"Mall/dao"
	"Mall/models"
	"Mall/types"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type DeliveryService struct {
	DB          *gorm.DB
	OrderDAO    *dao.Order
	SubOrderDAO *dao.SubOrder
	Event       IOrderEventService
}

var _ IDeliveryService = (*DeliveryService)(nil)

type IDeliveryService interface {
	// Init 订单支付后初始化发货状态，需在支付事务内调用
	Init(ctx context.Context, order *models.MainOrder) error
	Deliver(ctx context.Context, req *types.DeliverReq) error
}

func (s *DeliveryService) Init(ctx context.Context, order *models.MainOrder) error {
	_, err := s.SubOrderDAO.MarkNoShippingDelivered(ctx, order.ID, time.Now().Unix())
	return err
}

func (s *DeliveryService) Deliver(ctx context.Context, req *types.DeliverReq) error {
	sub, err := s.SubOrderDAO.FindById(ctx, req.SubOrderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrSubOrderNotFound
		}
		return err
	}
	order, err := s.OrderDAO.FindById(ctx, sub.MainOrderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.PayStatus != models.PayStatusPaid {
		return ErrOrderUnpaid
	}
	if sub.DeliveryStatus != models.DeliveryStatusWaiting {
		return ErrInvalidState.WithMsg("该商品已发货")
	}
	if sub.AfterSalesStatus == models.AfterSalesApplying || sub.AfterSalesStatus == models.AfterSalesAgreed {
		return ErrInvalidState.WithMsg("该商品售后处理中")
	}

	company := strings.TrimSpace(req.LogisticsCompany)
	no := strings.TrimSpace(req.LogisticsNo)
	if sub.DeliveryType == models.DeliveryTypeLogistics && (company == "" || no == "") {
		return ErrValidation.WithMsg("请填写物流公司和物流单号")
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		rows, err := s.SubOrderDAO.MarkDelivered(ctx, sub.ID, company, no, time.Now().Unix())
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState.WithMsg("该商品已发货")
		}
		return s.Event.Append(ctx, &models.OrderEvent{
			MainOrderID: order.ID,
			OrderSn:     order.OrderSn,
			SubOrderID:  sub.ID,
			UserID:      order.UserID,
			EventType:   models.EventShipped,
		}, map[string]any{
			"logistics_company": company,
			"logistics_no":      no,
		})
	})
}
