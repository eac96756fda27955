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

type Recharge struct {
	Config          *config.Config
	RechargeService service.IRechargeService
}

func (h *Recharge) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/recharge")
	g.Use(middleware.Auth([]byte(h.Config.Jwt.Secret)))
	g.GET("/packages", context.Wrap(h.Packages))
	g.POST("/place", context.Wrap(h.Place))
}

func (h *Recharge) Packages(c *gin.Context) error {
	response.Success(c, h.RechargeService.Packages(c.Request.Context()))
	return nil
}

func (h *Recharge) Place(c *gin.Context) error {
	var req types.PlaceRechargeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.RechargeService.Place(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
