package paygate

import (
	"Mall/config"
	"Mall/models"
	"Mall/pkg/log"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/smartwalle/alipay/v3"
	"go.uber.org/zap"
)

type Alipay struct {
	conf   *config.AlipayConfig
	client *alipay.Client
}

var _ Gateway = (*Alipay)(nil)

func NewAlipay(conf *config.AlipayConfig) *Alipay {
	a := &Alipay{conf: conf}
	if conf == nil || conf.AppID == "" || conf.PrivateKey == "" {
		log.L.Warn("alipay disabled: missing app config")
		return a
	}
	client, err := alipay.New(conf.AppID, conf.PrivateKey, conf.IsProduction)
	if err != nil {
		log.L.Error("init alipay client failed", zap.Error(err))
		return a
	}
	if err = client.LoadAliPayPublicKey(conf.PublicKey); err != nil {
		log.L.Error("load alipay public key failed", zap.Error(err))
		return a
	}
	a.client = client
	return a
}

func (a *Alipay) UnifyOrder(ctx context.Context, req *UnifyRequest) (any, error) {
	if a.client == nil {
		return nil, ErrNotConfigured
	}
	trade := alipay.Trade{
		NotifyURL:      a.conf.NotifyURL,
		ReturnURL:      req.Redirect,
		Subject:        req.Description,
		OutTradeNo:     req.OrderSn,
		TotalAmount:    req.Amount.StringFixed(2),
		PassbackParams: req.Scene,
	}

	switch req.Terminal {
	case models.TerminalAndroid, models.TerminalIos:
		trade.ProductCode = "QUICK_MSECURITY_PAY"
		orderStr, err := a.client.TradeAppPay(alipay.TradeAppPay{Trade: trade})
		if err != nil {
			return nil, fmt.Errorf("alipay app pay: %w", err)
		}
		return map[string]string{"order_str": orderStr}, nil
	case models.TerminalPc:
		trade.ProductCode = "FAST_INSTANT_TRADE_PAY"
		u, err := a.client.TradePagePay(alipay.TradePagePay{Trade: trade})
		if err != nil {
			return nil, fmt.Errorf("alipay page pay: %w", err)
		}
		return map[string]string{"pay_url": u.String()}, nil
	default:
		trade.ProductCode = "QUICK_WAP_WAY"
		u, err := a.client.TradeWapPay(alipay.TradeWapPay{Trade: trade, QuitURL: req.Redirect})
		if err != nil {
			return nil, fmt.Errorf("alipay wap pay: %w", err)
		}
		return map[string]string{"pay_url": u.String()}, nil
	}
}

func (a *Alipay) ParseNotify(ctx context.Context, r *http.Request) (*Notification, error) {
	if a.client == nil {
		return nil, ErrNotConfigured
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("解析支付宝回调参数失败: %w", err)
	}
	noti, err := a.client.DecodeNotification(r.PostForm)
	if err != nil {
		return nil, fmt.Errorf("支付宝回调验签失败: %w", err)
	}

	raw, _ := json.Marshal(noti)
	amount, _ := decimal.NewFromString(noti.TotalAmount)
	return &Notification{
		Scene:         noti.PassbackParams,
		OrderSn:       noti.OutTradeNo,
		TransactionID: noti.TradeNo,
		Amount:        amount,
		Success:       noti.TradeStatus == alipay.TradeStatusSuccess || noti.TradeStatus == alipay.TradeStatusFinished,
		Raw:           raw,
	}, nil
}
