package server

import (
	"Mall/handler"
)

type Handlers struct {
	Order      *handler.Order
	AfterSales *handler.AfterSales
	Pay        *handler.Pay
	Recharge   *handler.Recharge
	Wallet     *handler.Wallet
	Admin      *handler.Admin
}
