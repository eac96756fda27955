package service

import (
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/log"
	"Mall/pkg/metrics"
	"Mall/types"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderService struct {
	DB           *gorm.DB
	OrderDAO     *dao.Order
	SubOrderDAO  *dao.SubOrder
	WorkOrderDAO *dao.WorkOrder
	Address      AddressResolver
	Catalog      CatalogReader
	Cart         CartStore
	Serial       SerialGenerator
	Discount     DiscountPolicy
	Event        IOrderEventService
}

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	Create(ctx context.Context, userID uint64, req *types.CreateOrderReq) (*types.CreateOrderResp, error)
	Detail(ctx context.Context, userID, orderID uint64) (*types.Order, error)
	List(ctx context.Context, userID uint64, req *types.ListOrderReq) (*types.ListOrderResp, error)
	Delete(ctx context.Context, userID, orderID uint64) error
}

// 待下单的商品行
type orderLine struct {
	commodity *CommoditySnapshot
	quantity  uint32
	sku       json.RawMessage
	subtotal  decimal.Decimal
}

func (s *OrderService) Create(ctx context.Context, userID uint64, req *types.CreateOrderReq) (*types.CreateOrderResp, error) {
	lines, cartIDs, err := s.collectLines(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	addr, err := s.Address.GetAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	// 商品快照，库存只校验不扣减
	total := decimal.Zero
	for _, line := range lines {
		snap, err := s.Catalog.GetCommodity(ctx, line.commodity.ID)
		if err != nil {
			return nil, err
		}
		if line.quantity > snap.Stock {
			return nil, ErrStockShortage.WithMsg(fmt.Sprintf("%s 库存不足", snap.Title))
		}
		line.commodity = snap
		line.subtotal = snap.Price.Mul(decimal.NewFromInt(int64(line.quantity)))
		total = total.Add(line.subtotal)
	}

	discount := s.Discount.Discount(ctx, userID, total)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(total) {
		discount = total
	}

	order := &models.MainOrder{
		UserID:          userID,
		OrderSn:         s.Serial.NextSerial(ctx),
		OrderType:       models.OrderTypePurchase,
		TotalAmount:     total,
		DiscountAmount:  discount,
		ActualPayAmount: total.Sub(discount),
		GiveAmount:      decimal.Zero,
		Terminal:        req.Terminal,
		PayWay:          models.PayWayUnset,
		PayStatus:       models.PayStatusWaiting,
		ReceiverName:    addr.Name,
		ReceiverPhone:   addr.Phone,
		ReceiverAddress: addr.Full(),
		Remark:          strings.TrimSpace(req.Remark),
	}

	err = dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		if err := s.OrderDAO.Create(ctx, order); err != nil {
			return fmt.Errorf("create main order: %w", err)
		}

		subs := make([]*models.SubOrder, 0, len(lines))
		for _, line := range lines {
			subs = append(subs, &models.SubOrder{
				MainOrderID:      order.ID,
				MainOrderSn:      order.OrderSn,
				UserID:           userID,
				SourceID:         line.commodity.ID,
				ProductName:      line.commodity.Title,
				ProductImage:     line.commodity.Image,
				Sku:              datatypes.JSON(line.sku),
				Quantity:         line.quantity,
				UnitPrice:        line.commodity.Price,
				SubtotalAmount:   line.subtotal,
				DeliveryType:     line.commodity.DeliveryType,
				DeliveryStatus:   models.DeliveryStatusWaiting,
				AfterSalesStatus: models.AfterSalesNone,
			})
		}
		if err := s.SubOrderDAO.CreateBatch(ctx, subs); err != nil {
			return fmt.Errorf("create sub orders: %w", err)
		}

		if len(cartIDs) > 0 {
			if err := s.Cart.SoftDelete(ctx, userID, cartIDs); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		}

		return s.Event.Append(ctx, &models.OrderEvent{
			MainOrderID: order.ID,
			OrderSn:     order.OrderSn,
			UserID:      userID,
			EventType:   models.EventCreated,
		}, map[string]any{
			"total_amount":      order.TotalAmount,
			"actual_pay_amount": order.ActualPayAmount,
			"lines":             len(subs),
			"from_cart":         req.IsFromCart,
		})
	})
	if err != nil {
		log.L.Error("create order failed", zap.Uint64("user_id", userID), zap.Error(err))
		return nil, err
	}

	source := "single"
	if req.IsFromCart {
		source = "cart"
	}
	metrics.OrderCreatedTotal.WithLabelValues("purchase", source).Inc()

	return &types.CreateOrderResp{
		OrderID:         order.ID,
		OrderSn:         order.OrderSn,
		TotalAmount:     order.TotalAmount,
		ActualPayAmount: order.ActualPayAmount,
	}, nil
}

// collectLines 单商品或购物车，两者只能选其一
func (s *OrderService) collectLines(ctx context.Context, userID uint64, req *types.CreateOrderReq) ([]*orderLine, []uint64, error) {
	if !req.IsFromCart {
		if req.CommodityID == 0 || req.Quantity == 0 {
			return nil, nil, ErrValidation.WithMsg("请选择商品和数量")
		}
		var sku json.RawMessage
		if req.Sku != nil {
			b, err := json.Marshal(req.Sku)
			if err != nil {
				return nil, nil, ErrValidation.WithMsg("商品规格格式错误")
			}
			sku = b
		}
		return []*orderLine{{
			commodity: &CommoditySnapshot{ID: req.CommodityID},
			quantity:  req.Quantity,
			sku:       sku,
		}}, nil, nil
	}

	ids := uniqueIDs(req.CartIds)
	if len(ids) == 0 {
		return nil, nil, ErrValidation.WithMsg("请选择要结算的商品")
	}
	items, err := s.Cart.GetItems(ctx, userID, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(items) != len(ids) {
		return nil, nil, ErrCartItemNotFound
	}

	lines := make([]*orderLine, 0, len(items))
	for _, item := range items {
		if item.Quantity == 0 {
			return nil, nil, ErrValidation.WithMsg("商品数量错误")
		}
		lines = append(lines, &orderLine{
			commodity: &CommoditySnapshot{ID: item.CommodityID},
			quantity:  item.Quantity,
			sku:       item.Sku,
		})
	}
	return lines, ids, nil
}

func (s *OrderService) Detail(ctx context.Context, userID, orderID uint64) (*types.Order, error) {
	order, err := s.OrderDAO.FindUserOrder(ctx, userID, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	subs, err := s.SubOrderDAO.FindByMainOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return buildOrder(order, subs), nil
}

func (s *OrderService) List(ctx context.Context, userID uint64, req *types.ListOrderReq) (*types.ListOrderResp, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	// 多查一条用来判断是否还有下一页
	orders, err := s.OrderDAO.List(ctx, &dao.OrderFilter{
		UserID:    userID,
		Keyword:   strings.TrimSpace(req.Keyword),
		PayStatus: req.Status,
		Cursor:    req.Cursor,
		Limit:     limit + 1,
	})
	if err != nil {
		return nil, err
	}

	resp := &types.ListOrderResp{Items: make([]*types.Order, 0, len(orders))}
	if len(orders) > limit {
		resp.HasMore = true
		orders = orders[:limit]
	}
	if len(orders) == 0 {
		return resp, nil
	}
	resp.NextCursor = orders[len(orders)-1].ID

	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	subs, err := s.SubOrderDAO.FindByMainOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	grouped := make(map[uint64][]*models.SubOrder, len(orders))
	for _, sub := range subs {
		grouped[sub.MainOrderID] = append(grouped[sub.MainOrderID], sub)
	}
	for _, o := range orders {
		resp.Items = append(resp.Items, buildOrder(o, grouped[o.ID]))
	}
	return resp, nil
}

// Delete 软删除主订单及全部子订单，售后进行中的订单不能删除
func (s *OrderService) Delete(ctx context.Context, userID, orderID uint64) error {
	order, err := s.OrderDAO.FindUserOrder(ctx, userID, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrOrderNotFound
		}
		return err
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		subs, err := s.SubOrderDAO.FindByMainOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			// 被拒绝的工单仍可重新提交，同样算进行中
			active, err := s.WorkOrderDAO.HasActive(ctx, sub.ID)
			if err != nil {
				return err
			}
			if active {
				return ErrOrderAfterSales
			}
		}
		if err := s.SubOrderDAO.DeleteByMainOrder(ctx, order.ID); err != nil {
			return err
		}
		if err := s.OrderDAO.SoftDelete(ctx, order.ID); err != nil {
			return err
		}
		return s.Event.Append(ctx, &models.OrderEvent{
			MainOrderID: order.ID,
			OrderSn:     order.OrderSn,
			UserID:      userID,
			EventType:   models.EventDeleted,
		}, nil)
	})
}

func buildOrder(o *models.MainOrder, subs []*models.SubOrder) *types.Order {
	item := &types.Order{
		ID:              o.ID,
		OrderSn:         o.OrderSn,
		OrderType:       o.OrderType,
		TotalAmount:     o.TotalAmount,
		DiscountAmount:  o.DiscountAmount,
		ActualPayAmount: o.ActualPayAmount,
		GiveAmount:      o.GiveAmount,
		PayWay:          o.PayWay,
		PayStatus:       o.PayStatus,
		PayTime:         o.PayTime,
		ReceiverName:    o.ReceiverName,
		ReceiverPhone:   o.ReceiverPhone,
		ReceiverAddress: o.ReceiverAddress,
		Remark:          o.Remark,
		CreateTime:      o.CreateTime,
		Goods:           make([]*types.OrderGoods, 0, len(subs)),
	}
	for _, sub := range subs {
		var sku any
		if len(sub.Sku) > 0 {
			_ = json.Unmarshal(sub.Sku, &sku)
		}
		item.Goods = append(item.Goods, &types.OrderGoods{
			ID:               sub.ID,
			CommodityID:      sub.SourceID,
			ProductName:      sub.ProductName,
			ProductImage:     sub.ProductImage,
			Sku:              sku,
			Quantity:         sub.Quantity,
			UnitPrice:        sub.UnitPrice,
			SubtotalAmount:   sub.SubtotalAmount,
			DeliveryType:     sub.DeliveryType,
			DeliveryStatus:   sub.DeliveryStatus,
			AfterSalesStatus: sub.AfterSalesStatus,
			LogisticsCompany: sub.LogisticsCompany,
			LogisticsNo:      sub.LogisticsNo,
		})
	}
	return item
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
