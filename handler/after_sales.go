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

// AfterSales 用户侧售后
type AfterSales struct {
	Config            *config.Config
	AfterSalesService service.IAfterSalesService
	EvidenceService   service.IEvidenceService
}

func (a *AfterSales) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(a.Config.Jwt.Secret))
	g := r.Group("/v1/order/after_sales")
	g.Use(authorize)
	g.POST("/apply", context.Wrap(a.Apply))
	g.POST("/cancel", context.Wrap(a.Cancel))
	g.POST("/resubmit", context.Wrap(a.Resubmit))
	g.POST("/logistics", context.Wrap(a.Logistics))
	g.GET("/detail", context.Wrap(a.Detail))
	g.POST("/upload", context.Wrap(a.Upload))
}

func (a *AfterSales) Apply(c *gin.Context) error {
	var req types.ApplyAfterSalesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := a.AfterSalesService.Apply(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (a *AfterSales) Cancel(c *gin.Context) error {
	var req types.WorkOrderIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	if err := a.AfterSalesService.Cancel(c.Request.Context(), userID, req.WorkOrderID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *AfterSales) Resubmit(c *gin.Context) error {
	var req types.ResubmitAfterSalesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	if err := a.AfterSalesService.Resubmit(c.Request.Context(), userID, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *AfterSales) Logistics(c *gin.Context) error {
	var req types.ReturnLogisticsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	if err := a.AfterSalesService.FillReturnLogistics(c.Request.Context(), userID, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *AfterSales) Detail(c *gin.Context) error {
	var req types.WorkOrderIDReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return service.ErrValidation.WithMsg("参数错误: " + err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := a.AfterSalesService.Detail(c.Request.Context(), userID, req.WorkOrderID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// Upload 售后凭证图片，表单字段 file
func (a *AfterSales) Upload(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return service.ErrEvidenceMissing
	}

	resp, err := a.EvidenceService.UploadImage(c.Request.Context(), userID, header)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
