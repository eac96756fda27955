package service

import (
	"Mall/config"
	"Mall/dao"
	"Mall/models"
	"Mall/pkg/log"
	"Mall/pkg/metrics"
	"Mall/pkg/rocketmq"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type OrderEventService struct {
	EventDAO  *dao.OrderEvent
	Publisher rocketmq.Publisher
	MQ        *config.RocketMQConfig
}

var _ IOrderEventService = (*OrderEventService)(nil)

type IOrderEventService interface {
	// Append 写入事件，调用方负责把它放进业务事务
	Append(ctx context.Context, ev *models.OrderEvent, payload any) error
	// Relay 投递未发布的事件，返回成功条数
	Relay(ctx context.Context, batch int) (int, error)
	ListByOrder(ctx context.Context, orderSn string) ([]*models.OrderEvent, error)
}

func (s *OrderEventService) Append(ctx context.Context, ev *models.OrderEvent, payload any) error {
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		ev.Payload = datatypes.JSON(b)
	}
	if err := s.EventDAO.Create(ctx, ev); err != nil {
		return fmt.Errorf("append order event: %w", err)
	}
	return nil
}

func (s *OrderEventService) Relay(ctx context.Context, batch int) (int, error) {
	events, err := s.EventDAO.ListUnpublished(ctx, batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			return sent, err
		}
		// 失败即停，保证同一订单的事件按顺序投递
		if err := s.Publisher.Publish(ctx, s.MQ.OrderTopic, ev.OrderSn, ev.EventType, body); err != nil {
			metrics.OrderEventPublishedTotal.WithLabelValues("failed").Inc()
			log.L.Warn("publish order event failed", zap.Uint64("event_id", ev.ID), zap.Error(err))
			return sent, err
		}
		if err := s.EventDAO.MarkPublished(ctx, ev.ID, time.Now().Unix()); err != nil {
			return sent, err
		}
		metrics.OrderEventPublishedTotal.WithLabelValues("ok").Inc()
		sent++
	}
	return sent, nil
}

func (s *OrderEventService) ListByOrder(ctx context.Context, orderSn string) ([]*models.OrderEvent, error) {
	return s.EventDAO.ListByOrder(ctx, orderSn)
}
