package service

import (
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/lock"
	"Mall/pkg/log"
	"Mall/pkg/metrics"
	"Mall/pkg/paygate"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PayNotifyService struct {
	DB           *gorm.DB
	OrderDAO     *dao.Order
	PayRecordDAO *dao.PayRecord
	Wallet       IWalletService
	Delivery     IDeliveryService
	Event        IOrderEventService
	Locker       lock.Locker
	Paid         PaidCache
}

var _ IPayNotifyService = (*PayNotifyService)(nil)

type IPayNotifyService interface {
	// Handle 支付成功对账，可重复调用
	Handle(ctx context.Context, orderType int8, orderSn, transactionID string) error
	// HandleNotification 处理已验签的渠道通知
	HandleNotification(ctx context.Context, payWay int8, n *paygate.Notification) error
}

type reconcile struct {
	orderType     int8
	orderSn       string
	transactionID string
	payWay        int8
	amount        *decimal.Decimal
	raw           []byte
}

func (s *PayNotifyService) Handle(ctx context.Context, orderType int8, orderSn, transactionID string) error {
	return s.handle(ctx, &reconcile{
		orderType:     orderType,
		orderSn:       orderSn,
		transactionID: transactionID,
	})
}

func (s *PayNotifyService) HandleNotification(ctx context.Context, payWay int8, n *paygate.Notification) error {
	if !n.Success {
		log.L.Info("ignore unsuccessful pay notify", zap.String("order_sn", n.OrderSn), zap.Int8("pay_way", payWay))
		if err := s.OrderDAO.MarkNotifyFailed(ctx, n.OrderSn); err != nil {
			log.L.Warn("mark notify failed", zap.String("order_sn", n.OrderSn), zap.Error(err))
		}
		return nil
	}
	orderType := OrderTypeOf(n.Scene)
	if orderType == 0 {
		return ErrValidation.WithMsg("未知的支付场景: " + n.Scene)
	}
	return s.handle(ctx, &reconcile{
		orderType:     orderType,
		orderSn:       n.OrderSn,
		transactionID: n.TransactionID,
		payWay:        payWay,
		amount:        &n.Amount,
		raw:           n.Raw,
	})
}

func (s *PayNotifyService) handle(ctx context.Context, in *reconcile) (err error) {
	start := time.Now()
	result := "duplicate"
	label := strconv.Itoa(int(in.orderType))
	defer func() {
		if err != nil {
			result = "failed"
		}
		metrics.PayNotifyTotal.WithLabelValues(label, result).Inc()
		metrics.PayNotifyDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	// 锁只用来减少并发冲突，幂等由条件更新保证
	unlock, err := s.Locker.Lock(ctx, "pay:notify:"+in.orderSn)
	if err != nil {
		return err
	}
	defer unlock()

	var paid *models.MainOrder
	err = dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		order, err := s.OrderDAO.FindBySn(ctx, in.orderSn)
		if err != nil {
			if dao.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.OrderType != in.orderType {
			return ErrValidation.WithMsg("订单类型不匹配")
		}
		if order.PayStatus != models.PayStatusWaiting {
			return nil
		}
		if in.amount != nil && !in.amount.Equal(order.ActualPayAmount) {
			log.L.Error("pay notify amount mismatch",
				zap.String("order_sn", order.OrderSn),
				zap.String("expect", order.ActualPayAmount.String()),
				zap.String("notify", in.amount.String()))
			return ErrPayAmountDiffer
		}

		payWay := in.payWay
		if payWay == models.PayWayUnset {
			payWay = order.PayWay
		}
		now := time.Now().Unix()
		rows, err := s.OrderDAO.MarkPaid(ctx, order.ID, payWay, in.transactionID, now)
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if rows == 0 {
			// 并发请求已经处理
			return nil
		}

		if order.OrderType == models.OrderTypeRecharge {
			if _, err := s.Wallet.Credit(ctx, &WalletChange{
				UserID:     order.UserID,
				Amount:     order.ActualPayAmount.Add(order.GiveAmount),
				SourceType: models.WalletSourceRecharge,
				SourceID:   order.ID,
				SourceSn:   order.OrderSn,
				Remark:     "余额充值",
			}); err != nil {
				return err
			}
		}

		if err := s.Delivery.Init(ctx, order); err != nil {
			return fmt.Errorf("init delivery: %w", err)
		}

		if len(in.raw) > 0 {
			if err := s.PayRecordDAO.Create(ctx, &models.PayRecord{
				OrderSn:       order.OrderSn,
				PayWay:        payWay,
				TransactionID: in.transactionID,
				AmountTotal:   order.ActualPayAmount,
				NotifyRaw:     datatypes.JSON(in.raw),
			}); err != nil {
				return fmt.Errorf("save pay record: %w", err)
			}
		}

		result = "applied"
		paid = order
		return s.Event.Append(ctx, &models.OrderEvent{
			MainOrderID: order.ID,
			OrderSn:     order.OrderSn,
			UserID:      order.UserID,
			EventType:   models.EventPaid,
		}, map[string]any{
			"pay_way":        payWay,
			"transaction_id": in.transactionID,
			"amount":         order.ActualPayAmount,
			"notify_amount":  notifyAmount(in.amount),
		})
	})
	if err != nil {
		result = "failed"
		log.L.Error("pay notify handle failed",
			zap.String("order_sn", in.orderSn),
			zap.String("transaction_id", in.transactionID),
			zap.Error(err))
		return err
	}

	if paid != nil {
		if err := s.Paid.MarkPaid(ctx, paid.UserID, paid.ID); err != nil {
			log.L.Warn("write pay status cache", zap.String("order_sn", paid.OrderSn), zap.Error(err))
		}
	}
	return nil
}

func notifyAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return amount.String()
}
