package handler

import (
	"Mall/config"
	"Mall/middleware"
	"Mall/pkg/context"
	"Mall/pkg/response"
	"Mall/service"
	"Mall/types"

	"github.com/gin-gonic/gin"
)

// Admin 后台发货和售后审核
type Admin struct {
	Config            *config.Config
	DeliveryService   service.IDeliveryService
	AfterSalesService service.IAfterSalesService
}

func (a *Admin) RegisterRouter(r gin.IRouter) {
	g := r.Group("/admin/order")
	g.Use(middleware.AdminAuth([]byte(a.Config.Jwt.Secret)))
	g.POST("/delivery", context.Wrap(a.Deliver))
	g.POST("/after_sales/agree", context.Wrap(a.Agree))
	g.POST("/after_sales/refuse", context.Wrap(a.Refuse))
	g.POST("/after_sales/confirm", context.Wrap(a.Confirm))
}

func (a *Admin) Deliver(c *gin.Context) error {
	var req types.DeliverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	if err := a.DeliveryService.Deliver(c.Request.Context(), &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *Admin) Agree(c *gin.Context) error {
	var req types.WorkOrderIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	if err := a.AfterSalesService.Agree(c.Request.Context(), req.WorkOrderID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *Admin) Refuse(c *gin.Context) error {
	var req types.RefuseAfterSalesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	if err := a.AfterSalesService.Refuse(c.Request.Context(), req.WorkOrderID, req.RefuseReason); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *Admin) Confirm(c *gin.Context) error {
	var req types.WorkOrderIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	if err := a.AfterSalesService.Confirm(c.Request.Context(), req.WorkOrderID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
