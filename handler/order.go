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

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func (o *Order) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(o.Config.Jwt.Secret))
	order := r.Group("/v1/order")
	order.Use(authorize)
	order.POST("/create", context.Wrap(o.Create))
	order.GET("/detail", context.Wrap(o.Detail))
	order.GET("/list", context.Wrap(o.List))
	order.POST("/delete", context.Wrap(o.Delete))
}

func (o *Order) Create(c *gin.Context) error {
	var req types.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := o.OrderService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (o *Order) Detail(c *gin.Context) error {
	var req types.OrderIDReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := o.OrderService.Detail(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (o *Order) List(c *gin.Context) error {
	var req types.ListOrderReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := o.OrderService.List(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (o *Order) Delete(c *gin.Context) error {
	var req types.OrderIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	if err := o.OrderService.Delete(c.Request.Context(), userID, req.OrderID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
