package service

import (
	"Mall/dao/cache"
	"Mall/pkg/oss"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(AddressStore), "*"),
	wire.Bind(new(AddressResolver), new(*AddressStore)),

	wire.Struct(new(CatalogStore), "*"),
	wire.Bind(new(CatalogReader), new(*CatalogStore)),

	wire.Struct(new(CartTable), "*"),
	wire.Bind(new(CartStore), new(*CartTable)),

	NewSnowflakeSerial,
	wire.Bind(new(SerialGenerator), new(*SnowflakeSerial)),

	wire.Bind(new(PaidCache), new(*cache.PayStatusStorage)),

	wire.InterfaceValue(new(DiscountPolicy), NoDiscount{}),
	wire.InterfaceValue(new(RefundHook), NoopRefundHook{}),

	wire.Struct(new(OrderEventService), "*"),
	wire.Bind(new(IOrderEventService), new(*OrderEventService)),

	wire.Struct(new(WalletService), "*"),
	wire.Bind(new(IWalletService), new(*WalletService)),

	wire.Struct(new(DeliveryService), "*"),
	wire.Bind(new(IDeliveryService), new(*DeliveryService)),

	wire.Struct(new(OrderService), "*"),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Struct(new(BalanceStrategy), "*"),
	NewPayStrategies,

	wire.Struct(new(PayService), "*"),
	wire.Bind(new(IPayService), new(*PayService)),

	wire.Struct(new(PayNotifyService), "*"),
	wire.Bind(new(IPayNotifyService), new(*PayNotifyService)),

	wire.Struct(new(AfterSalesService), "*"),
	wire.Bind(new(IAfterSalesService), new(*AfterSalesService)),

	wire.Bind(new(ObjectStore), new(*oss.Bucket)),
	wire.Struct(new(EvidenceService), "*"),
	wire.Bind(new(IEvidenceService), new(*EvidenceService)),

	wire.Struct(new(RechargeService), "*"),
	wire.Bind(new(IRechargeService), new(*RechargeService)),
)
