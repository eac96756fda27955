package handler

import (
	"net/http"

	"Mall/config"
	"Mall/middleware"
	"Mall/models"
	"Mall/pkg/context"
	"Mall/pkg/log"
	"Mall/pkg/paygate"
	"Mall/pkg/response"
	"Mall/service"
	"Mall/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pay struct {
	Config        *config.Config
	PayService    service.IPayService
	NotifyService service.IPayNotifyService
	WechatPay     *paygate.WechatPay
	Alipay        *paygate.Alipay
}

func (p *Pay) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))
	pay := r.Group("/v1/pay")
	{
		pay.GET("/ways", authorize, context.Wrap(p.Ways))
		pay.POST("/prepay", authorize, context.Wrap(p.Prepay))
		pay.GET("/listen", authorize, context.Wrap(p.Listen))
		pay.POST("/notify/wechat", p.WechatNotify) // 支付回调
		pay.POST("/notify/alipay", p.AlipayNotify)
	}
}

func (p *Pay) Ways(c *gin.Context) error {
	response.Success(c, p.PayService.PayWays(c.Request.Context()))
	return nil
}

func (p *Pay) Prepay(c *gin.Context) error {
	var req types.PrepayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	caller := &service.PrepayCaller{
		UserID:   userID,
		OpenID:   context.GetOpenID(c),
		ClientIP: c.ClientIP(),
	}
	resp, err := p.PayService.Prepay(c.Request.Context(), caller, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (p *Pay) Listen(c *gin.Context) error {
	var req types.OrderIDReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := p.PayService.Listen(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// WechatNotify 微信支付回调，失败时返回非 200 让微信重试
func (p *Pay) WechatNotify(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := p.WechatPay.ParseNotify(ctx, c.Request)
	if err != nil {
		log.L.Error("微信支付回调验签或解密失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "验签失败"})
		return
	}
	log.L.Info("wechat pay notify", zap.String("order_sn", n.OrderSn), zap.String("transaction_id", n.TransactionID))

	if err := p.NotifyService.HandleNotification(ctx, models.PayWayWechat, n); err != nil {
		log.L.Error("处理微信支付回调失败", zap.String("order_sn", n.OrderSn), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "处理失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
}

// AlipayNotify 支付宝异步通知，返回 success 之外的内容都会被重试
func (p *Pay) AlipayNotify(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := p.Alipay.ParseNotify(ctx, c.Request)
	if err != nil {
		log.L.Error("支付宝回调验签失败", zap.Error(err))
		c.String(http.StatusOK, "fail")
		return
	}
	log.L.Info("alipay notify", zap.String("order_sn", n.OrderSn), zap.String("trade_no", n.TransactionID))

	if err := p.NotifyService.HandleNotification(ctx, models.PayWayAlipay, n); err != nil {
		log.L.Error("处理支付宝回调失败", zap.String("order_sn", n.OrderSn), zap.Error(err))
		c.String(http.StatusOK, "fail")
		return
	}
	c.String(http.StatusOK, "success")
}
