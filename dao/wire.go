//go:build wireinject

package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewOrder,
	NewSubOrder,
	NewWorkOrder,
	NewWallet,
	NewOrderEvent,
	NewPayRecord,
	NewCommodity,
	NewCart,
	NewAddress,
)
