//go:build wireinject
// +build wireinject

package main

import (
	"Mall/config"
	"Mall/dao"
	"Mall/dao/cache"
	"Mall/handler"
	"Mall/pkg/client"
	"Mall/pkg/database"
	"Mall/pkg/lock"
	"Mall/pkg/oss"
	"Mall/pkg/paygate"
	"Mall/pkg/rocketmq"
	"Mall/pkg/server"
	"Mall/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(
		config.ProvideOrderConfig,
		config.ProvideRocketMQConfig,
		config.ProvideWechatPayConfig,
		config.ProvideAlipayConfig,
		config.ProvideOssConfig,

		database.NewDB,
		client.NewRedisClient,
		lock.NewRedsync,
		lock.NewRedisLocker,
		wire.Bind(new(lock.Locker), new(*lock.RedisLocker)),

		rocketmq.InitProducer,
		rocketmq.NewRocketmq,
		wire.Bind(new(rocketmq.Publisher), new(*rocketmq.Rocketmq)),

		paygate.NewWechatPay,
		paygate.NewAlipay,
		oss.NewBucket,

		dao.ProviderSet,
		cache.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Order), "*"),
		wire.Struct(new(handler.AfterSales), "*"),
		wire.Struct(new(handler.Pay), "*"),
		wire.Struct(new(handler.Recharge), "*"),
		wire.Struct(new(handler.Wallet), "*"),
		wire.Struct(new(handler.Admin), "*"),

		server.NewGinEngine,
		server.NewCron,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil
}
