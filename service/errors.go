package service

import "Mall/pkg/response"

// 业务错误，调用方用 errors.Is 按错误码判断
var (
	ErrValidation           = response.NewError(response.CodeValidation, "参数错误")
	ErrNotFound             = response.NewError(response.CodeNotFound, "记录不存在")
	ErrConflict             = response.NewError(response.CodeConflict, "重复操作")
	ErrInvalidState         = response.NewError(response.CodeInvalidState, "当前状态不允许该操作")
	ErrInsufficientResource = response.NewError(response.CodeInsufficientResource, "资源不足")
	ErrExternal             = response.NewError(response.CodeExternal, "第三方服务异常")
)

var (
	ErrAddressNotFound   = ErrNotFound.WithMsg("收货地址不存在")
	ErrCommodityNotFound = ErrNotFound.WithMsg("商品不存在")
	ErrCommodityDelisted = ErrNotFound.WithMsg("商品已下架")
	ErrCartItemNotFound  = ErrNotFound.WithMsg("购物车商品不存在")
	ErrOrderNotFound     = ErrNotFound.WithMsg("订单不存在")
	ErrSubOrderNotFound  = ErrNotFound.WithMsg("子订单不存在")
	ErrWorkOrderNotFound = ErrNotFound.WithMsg("售后工单不存在")

	ErrStockShortage   = ErrInsufficientResource.WithMsg("商品库存不足")
	ErrBalanceShortage = ErrInsufficientResource.WithMsg("余额不足")

	ErrOrderPaid        = ErrConflict.WithMsg("订单已支付")
	ErrAfterSalesActive = ErrConflict.WithMsg("该商品已有进行中的售后")

	ErrOrderUnpaid        = ErrInvalidState.WithMsg("订单未支付")
	ErrAfterSalesNotAllow = ErrInvalidState.WithMsg("该订单不支持售后")
	ErrOrderAfterSales    = ErrInvalidState.WithMsg("订单售后处理中，暂不能删除")
	ErrAfterSalesDone  = ErrInvalidState.WithMsg("该商品已完成售后")
	ErrWorkOrderStatus = ErrInvalidState.WithMsg("售后工单状态不允许该操作")

	ErrPayWayDisabled   = ErrValidation.WithMsg("支付方式未开放")
	ErrRefuseReason     = ErrValidation.WithMsg("请填写拒绝原因")
	ErrRechargeDisabled = ErrValidation.WithMsg("充值功能已关闭")
	ErrPayAmountDiffer  = ErrValidation.WithMsg("支付金额与订单不一致")
	ErrReturnLogistics  = ErrValidation.WithMsg("请填写物流公司和运单号")
	ErrGatewayFailed    = ErrExternal.WithMsg("发起支付失败，请稍后重试")

	ErrEvidenceMissing = ErrValidation.WithMsg("请选择图片")
	ErrEvidenceSize    = ErrValidation.WithMsg("图片大小需在 5MB 以内")
	ErrEvidenceType    = ErrValidation.WithMsg("仅支持 jpg、png、webp 格式")
)
