package types

type PrepayReq struct {
	OrderID  uint64 `json:"order_id" binding:"required"`
	PayWay   int8   `json:"pay_way" binding:"required,min=1"`
	Terminal int8   `json:"terminal" binding:"required,min=1,max=6"`
	Redirect string `json:"redirect"`
}

type PrepayResp struct {
	OrderID uint64 `json:"order_id"`
	OrderSn string `json:"order_sn"`
	PayWay  int8   `json:"pay_way"`
	Paid    bool   `json:"paid"`              // 余额支付直接完成
	Payload any    `json:"payload,omitempty"` // 第三方拉起支付参数，原样返回
}

type PayWay struct {
	PayWay int8   `json:"pay_way"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
}

type ListenResp struct {
	OrderID uint64 `json:"order_id"`
	Status  string `json:"status"` // waiting / paid / missing
}
