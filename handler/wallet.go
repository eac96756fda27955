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

type Wallet struct {
	Config        *config.Config
	WalletService service.IWalletService
}

func (w *Wallet) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/wallet")
	g.Use(middleware.Auth([]byte(w.Config.Jwt.Secret)))
	g.GET("/balance", context.Wrap(w.Balance))
	g.GET("/records", context.Wrap(w.GetRecords))
}

func (w *Wallet) Balance(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := w.WalletService.Balance(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (w *Wallet) GetRecords(c *gin.Context) error {
	var req types.ListWalletRecordsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := w.WalletService.Records(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
