package service

import (
	"Mall/config"
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/lock"
	"Mall/pkg/log"
	"Mall/pkg/metrics"
	"Mall/pkg/snowflake"
	"Mall/pkg/utils"
	"Mall/types"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 售后工单状态机:
//
//	pending -> processing | completed | refused
//	processing -> completed
//	refused -> pending (resubmit)
type AfterSalesService struct {
	DB           *gorm.DB
	Config       *config.OrderConfig
	OrderDAO     *dao.Order
	SubOrderDAO  *dao.SubOrder
	WorkOrderDAO *dao.WorkOrder
	Event        IOrderEventService
	Locker       lock.Locker
	Refund       RefundHook
}

var _ IAfterSalesService = (*AfterSalesService)(nil)

type IAfterSalesService interface {
	Apply(ctx context.Context, userID uint64, req *types.ApplyAfterSalesReq) (*types.WorkOrder, error)
	Agree(ctx context.Context, workOrderID uint64) error
	Refuse(ctx context.Context, workOrderID uint64, refuseReason string) error
	Confirm(ctx context.Context, workOrderID uint64) error
	Cancel(ctx context.Context, userID, workOrderID uint64) error
	Resubmit(ctx context.Context, userID uint64, req *types.ResubmitAfterSalesReq) error
	FillReturnLogistics(ctx context.Context, userID uint64, req *types.ReturnLogisticsReq) error
	Detail(ctx context.Context, userID, workOrderID uint64) (*types.WorkOrder, error)
}

func (s *AfterSalesService) Apply(ctx context.Context, userID uint64, req *types.ApplyAfterSalesReq) (resp *types.WorkOrder, err error) {
	defer func() { metrics.AfterSalesTransitionTotal.WithLabelValues("apply", metrics.Result(err)).Inc() }()

	returnKind, err := normalizeReturnKind(req.RefundType, req.ReturnKind)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, fmt.Sprintf("after_sales:sub:%d", req.SubOrderID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	sub, err := s.SubOrderDAO.FindUserSubOrder(ctx, userID, req.SubOrderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrSubOrderNotFound
		}
		return nil, err
	}
	order, err := s.OrderDAO.FindById(ctx, sub.MainOrderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	// 充值到账后走余额，不走售后
	if order.OrderType != models.OrderTypePurchase {
		return nil, ErrAfterSalesNotAllow
	}
	if order.PayStatus != models.PayStatusPaid {
		return nil, ErrOrderUnpaid
	}
	if sub.AfterSalesStatus == models.AfterSalesReturnedSuccess {
		return nil, ErrAfterSalesDone
	}

	wo := &models.WorkOrder{
		WorkOrderSn:  utils.GenHashID(s.Config.HashSalt, uint64(snowflake.GenID())),
		UserID:       userID,
		MainOrderID:  order.ID,
		SubOrderID:   sub.ID,
		MainOrderSn:  order.OrderSn,
		RefundType:   req.RefundType,
		ReturnKind:   returnKind,
		Reason:       strings.TrimSpace(req.Reason),
		Description:  strings.TrimSpace(req.Description),
		Images:       imagesJSON(req.Images),
		RefundAmount: sub.SubtotalAmount,
		Status:       models.WorkOrderPending,
	}

	err = dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		active, err := s.WorkOrderDAO.HasActive(ctx, sub.ID)
		if err != nil {
			return err
		}
		if active {
			return ErrAfterSalesActive
		}
		if err := s.WorkOrderDAO.Create(ctx, wo); err != nil {
			return fmt.Errorf("create work order: %w", err)
		}
		if err := s.SubOrderDAO.SetAfterSales(ctx, sub.ID, models.AfterSalesApplying); err != nil {
			return err
		}
		return s.appendEvent(ctx, models.EventAfterSalesRequested, wo, "apply")
	})
	if err != nil {
		return nil, err
	}

	sub.AfterSalesStatus = models.AfterSalesApplying
	return buildWorkOrder(wo, sub), nil
}

func (s *AfterSalesService) Agree(ctx context.Context, workOrderID uint64) (err error) {
	defer func() { metrics.AfterSalesTransitionTotal.WithLabelValues("agree", metrics.Result(err)).Inc() }()

	wo, err := s.findWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		now := time.Now().Unix()
		if wo.RefundType == models.RefundTypeWithGoods {
			// 退货退款：等待用户寄回
			if err := s.transition(ctx, wo.ID, []int8{models.WorkOrderPending}, map[string]any{
				"status":      models.WorkOrderProcessing,
				"handle_time": now,
			}); err != nil {
				return err
			}
			return s.SubOrderDAO.SetAfterSales(ctx, wo.SubOrderID, models.AfterSalesAgreed)
		}

		// 仅退款：一步完成
		if err := s.transition(ctx, wo.ID, []int8{models.WorkOrderPending}, map[string]any{
			"status":        models.WorkOrderCompleted,
			"handle_time":   now,
			"complete_time": now,
		}); err != nil {
			return err
		}
		wo.Status = models.WorkOrderCompleted
		return s.complete(ctx, wo, "agree")
	})
}

func (s *AfterSalesService) Refuse(ctx context.Context, workOrderID uint64, refuseReason string) (err error) {
	defer func() { metrics.AfterSalesTransitionTotal.WithLabelValues("refuse", metrics.Result(err)).Inc() }()

	refuseReason = strings.TrimSpace(refuseReason)
	if refuseReason == "" {
		return ErrRefuseReason
	}
	wo, err := s.findWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		if err := s.transition(ctx, wo.ID, []int8{models.WorkOrderPending}, map[string]any{
			"status":        models.WorkOrderRefused,
			"refuse_reason": refuseReason,
			"handle_time":   time.Now().Unix(),
		}); err != nil {
			return err
		}
		if err := s.SubOrderDAO.SetAfterSales(ctx, wo.SubOrderID, models.AfterSalesRefused); err != nil {
			return err
		}
		wo.Status = models.WorkOrderRefused
		return s.appendEvent(ctx, models.EventAfterSalesResolved, wo, "refuse")
	})
}

func (s *AfterSalesService) Confirm(ctx context.Context, workOrderID uint64) (err error) {
	defer func() { metrics.AfterSalesTransitionTotal.WithLabelValues("confirm", metrics.Result(err)).Inc() }()

	wo, err := s.findWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if wo.RefundType != models.RefundTypeWithGoods {
		return ErrWorkOrderStatus
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		now := time.Now().Unix()
		if err := s.transition(ctx, wo.ID, []int8{models.WorkOrderProcessing}, map[string]any{
			"status":        models.WorkOrderCompleted,
			"complete_time": now,
		}); err != nil {
			return err
		}
		wo.Status = models.WorkOrderCompleted
		return s.complete(ctx, wo, "confirm")
	})
}

func (s *AfterSalesService) Cancel(ctx context.Context, userID, workOrderID uint64) (err error) {
	defer func() { metrics.AfterSalesTransitionTotal.WithLabelValues("cancel", metrics.Result(err)).Inc() }()

	wo, err := s.findUserWorkOrder(ctx, userID, workOrderID)
	if err != nil {
		return err
	}
	if wo.Status == models.WorkOrderCompleted {
		return ErrWorkOrderStatus
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		rows, err := s.WorkOrderDAO.SoftDelete(ctx, wo.ID, []int8{
			models.WorkOrderPending,
			models.WorkOrderProcessing,
			models.WorkOrderRefused,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrWorkOrderStatus
		}
		if err := s.SubOrderDAO.SetAfterSales(ctx, wo.SubOrderID, models.AfterSalesNone); err != nil {
			return err
		}
		return s.appendEvent(ctx, models.EventAfterSalesResolved, wo, "cancel")
	})
}

func (s *AfterSalesService) Resubmit(ctx context.Context, userID uint64, req *types.ResubmitAfterSalesReq) (err error) {
	defer func() { metrics.AfterSalesTransitionTotal.WithLabelValues("resubmit", metrics.Result(err)).Inc() }()

	returnKind, err := normalizeReturnKind(req.RefundType, req.ReturnKind)
	if err != nil {
		return err
	}
	wo, err := s.findUserWorkOrder(ctx, userID, req.WorkOrderID)
	if err != nil {
		return err
	}

	return dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		if err := s.transition(ctx, wo.ID, []int8{models.WorkOrderRefused}, map[string]any{
			"status":        models.WorkOrderPending,
			"refund_type":   req.RefundType,
			"return_kind":   returnKind,
			"reason":        strings.TrimSpace(req.Reason),
			"description":   strings.TrimSpace(req.Description),
			"images":        imagesJSON(req.Images),
			"refuse_reason": "",
			"handle_time":   0,
		}); err != nil {
			return err
		}
		if err := s.SubOrderDAO.SetAfterSales(ctx, wo.SubOrderID, models.AfterSalesApplying); err != nil {
			return err
		}
		wo.Status = models.WorkOrderPending
		return s.appendEvent(ctx, models.EventAfterSalesRequested, wo, "resubmit")
	})
}

// FillReturnLogistics 退货退款同意后，用户填写寄回物流
func (s *AfterSalesService) FillReturnLogistics(ctx context.Context, userID uint64, req *types.ReturnLogisticsReq) error {
	company := strings.TrimSpace(req.LogisticsCompany)
	no := strings.TrimSpace(req.LogisticsNo)
	if company == "" || no == "" {
		return ErrReturnLogistics
	}
	wo, err := s.findUserWorkOrder(ctx, userID, req.WorkOrderID)
	if err != nil {
		return err
	}
	if wo.RefundType != models.RefundTypeWithGoods || wo.Status != models.WorkOrderProcessing {
		return ErrWorkOrderStatus
	}
	rows, err := s.WorkOrderDAO.Transition(ctx, wo.ID, []int8{models.WorkOrderProcessing}, map[string]any{
		"return_logistics_company": company,
		"return_logistics_no":      no,
	})
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	// mysql 值未变化时也返回 0 行，重新读一次状态
	latest, err := s.findUserWorkOrder(ctx, userID, wo.ID)
	if err != nil {
		return err
	}
	if latest.Status != models.WorkOrderProcessing {
		return ErrWorkOrderStatus
	}
	return nil
}

func (s *AfterSalesService) Detail(ctx context.Context, userID, workOrderID uint64) (*types.WorkOrder, error) {
	wo, err := s.findUserWorkOrder(ctx, userID, workOrderID)
	if err != nil {
		return nil, err
	}
	sub, err := s.SubOrderDAO.FindById(ctx, wo.SubOrderID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, err
	}
	return buildWorkOrder(wo, sub), nil
}

// complete 售后完成：货物退回并触发退款
func (s *AfterSalesService) complete(ctx context.Context, wo *models.WorkOrder, action string) error {
	if err := s.SubOrderDAO.MarkReturned(ctx, wo.SubOrderID); err != nil {
		return err
	}
	sub, err := s.SubOrderDAO.FindById(ctx, wo.SubOrderID)
	if err != nil {
		return err
	}
	order, err := s.OrderDAO.FindById(ctx, wo.MainOrderID)
	if err != nil {
		return err
	}
	if err := s.Refund.Refund(ctx, order, sub, wo); err != nil {
		return fmt.Errorf("after sales refund: %w", err)
	}
	return s.appendEvent(ctx, models.EventAfterSalesResolved, wo, action)
}

// transition 条件更新，状态已被改变时返回 ErrWorkOrderStatus
func (s *AfterSalesService) transition(ctx context.Context, id uint64, from []int8, data map[string]any) error {
	rows, err := s.WorkOrderDAO.Transition(ctx, id, from, data)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkOrderStatus
	}
	return nil
}

func (s *AfterSalesService) findWorkOrder(ctx context.Context, id uint64) (*models.WorkOrder, error) {
	wo, err := s.WorkOrderDAO.FindById(ctx, id)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, err
	}
	return wo, nil
}

func (s *AfterSalesService) findUserWorkOrder(ctx context.Context, userID, id uint64) (*models.WorkOrder, error) {
	wo, err := s.WorkOrderDAO.FindUserWorkOrder(ctx, userID, id)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, err
	}
	return wo, nil
}

func (s *AfterSalesService) appendEvent(ctx context.Context, eventType string, wo *models.WorkOrder, action string) error {
	return s.Event.Append(ctx, &models.OrderEvent{
		MainOrderID: wo.MainOrderID,
		OrderSn:     wo.MainOrderSn,
		SubOrderID:  wo.SubOrderID,
		WorkOrderID: wo.ID,
		UserID:      wo.UserID,
		EventType:   eventType,
	}, map[string]any{
		"action":        action,
		"work_order_sn": wo.WorkOrderSn,
		"refund_type":   wo.RefundType,
		"status":        wo.Status,
	})
}

// normalizeReturnKind 仅退款不需要退货方式，退货退款必须指定
func normalizeReturnKind(refundType, returnKind int8) (int8, error) {
	switch refundType {
	case models.RefundTypeOnly:
		return models.ReturnKindNone, nil
	case models.RefundTypeWithGoods:
		if returnKind != models.ReturnKindExpress && returnKind != models.ReturnKindStore {
			return 0, ErrValidation.WithMsg("请选择退货方式")
		}
		return returnKind, nil
	default:
		return 0, ErrValidation.WithMsg("售后类型错误")
	}
}

func imagesJSON(images []string) datatypes.JSON {
	if len(images) == 0 {
		return datatypes.JSON("[]")
	}
	b, _ := json.Marshal(images)
	return datatypes.JSON(b)
}

func buildWorkOrder(wo *models.WorkOrder, sub *models.SubOrder) *types.WorkOrder {
	item := &types.WorkOrder{
		ID:            wo.ID,
		WorkOrderSn:   wo.WorkOrderSn,
		SubOrderID:    wo.SubOrderID,
		MainOrderSn:   wo.MainOrderSn,
		RefundType:    wo.RefundType,
		ReturnKind:    wo.ReturnKind,
		Status:        wo.Status,
		Reason:        wo.Reason,
		Description:   wo.Description,
		RefundAmount:  wo.RefundAmount,
		RefuseReason:  wo.RefuseReason,
		ReturnCompany: wo.ReturnCompany,
		ReturnNo:      wo.ReturnNo,
		CreateTime:    wo.CreateTime,
		Images:        []string{},
	}
	if len(wo.Images) > 0 {
		if err := json.Unmarshal(wo.Images, &item.Images); err != nil {
			log.L.Warn("decode work order images", zap.Uint64("id", wo.ID), zap.Error(err))
		}
	}
	if sub != nil {
		item.AfterSalesStatus = sub.AfterSalesStatus
	}
	return item
}
