package paygate

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
)

// 支付场景，通过 attach / passback_params 透传给回调
const (
	SceneOrder      = "order"
	SceneRecharge   = "recharge"
	SceneMembership = "membership"
)

var ErrNotConfigured = errors.New("paygate: gateway not configured")

type UnifyRequest struct {
	OrderSn     string
	Amount      decimal.Decimal
	Description string
	Redirect    string
	Scene       string
	Terminal    int8
	OpenID      string
	ClientIP    string
}

// Notification 验签解密后的支付结果
type Notification struct {
	Scene         string
	OrderSn       string
	TransactionID string
	Amount        decimal.Decimal
	Success       bool
	Raw           []byte
}

// Gateway 第三方支付渠道
type Gateway interface {
	// UnifyOrder 统一下单，返回前端拉起支付所需的参数
	UnifyOrder(ctx context.Context, req *UnifyRequest) (any, error)
	// ParseNotify 校验并解析异步通知
	ParseNotify(ctx context.Context, r *http.Request) (*Notification, error)
}

// 元转分
func toFen(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromFen(fen int64) decimal.Decimal {
	return decimal.New(fen, -2)
}
