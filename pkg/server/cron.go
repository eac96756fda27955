package server

import (
	"context"
	"fmt"
	"time"

	"Mall/config"
	"Mall/pkg/log"
	"Mall/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NewCron 注册定时任务，由 Run 负责启动和停止
func NewCron(conf *config.OrderConfig, events service.IOrderEventService) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(conf.Relay.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := events.Relay(ctx, conf.Relay.Batch)
		if err != nil {
			log.L.Warn("relay order events", zap.Int("published", n), zap.Error(err))
			return
		}
		if n > 0 {
			log.L.Info("relay order events", zap.Int("published", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register relay job %q: %w", conf.Relay.Spec, err)
	}
	return c, nil
}
