package paygate

import (
	"Mall/config"
	"Mall/models"
	"Mall/pkg/log"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/app"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
	"go.uber.org/zap"
)

const wechatTradeSuccess = "SUCCESS"

type WechatPay struct {
	conf   *config.WechatPayConfig
	client *core.Client
	notify *notify.Handler
}

var _ Gateway = (*WechatPay)(nil)

// NewWechatPay 商户证书加载失败时不阻断启动，下单时返回 ErrNotConfigured
func NewWechatPay(conf *config.WechatPayConfig) *WechatPay {
	w := &WechatPay{conf: conf}
	if conf == nil || conf.MchID == "" || conf.MchAPIv3Key == "" {
		log.L.Warn("wechat pay disabled: missing merchant config")
		return w
	}
	if err := w.init(); err != nil {
		log.L.Error("init wechat pay client failed", zap.Error(err))
	}
	return w
}

func (w *WechatPay) init() error {
	mchPrivateKey, err := utils.LoadPrivateKeyWithPath(w.conf.MchPrivateKeyPath)
	if err != nil {
		return fmt.Errorf("加载商户私钥失败: %w", err)
	}

	ctx := context.Background()
	client, err := core.NewClient(ctx, option.WithWechatPayAutoAuthCipher(
		w.conf.MchID,
		w.conf.MchCertificateSerialNumber,
		mchPrivateKey,
		w.conf.MchAPIv3Key,
	))
	if err != nil {
		return fmt.Errorf("创建微信支付客户端失败: %w", err)
	}

	// 自动更新的平台证书已注册到 downloader
	certificateVisitor := downloader.MgrInstance().GetCertificateVisitor(w.conf.MchID)
	handler, err := notify.NewRSANotifyHandler(w.conf.MchAPIv3Key, verifiers.NewSHA256WithRSAVerifier(certificateVisitor))
	if err != nil {
		return fmt.Errorf("创建微信支付回调处理器失败: %w", err)
	}

	w.client = client
	w.notify = handler
	return nil
}

func (w *WechatPay) UnifyOrder(ctx context.Context, req *UnifyRequest) (any, error) {
	if w.client == nil {
		return nil, ErrNotConfigured
	}
	total := core.Int64(toFen(req.Amount))

	switch req.Terminal {
	case models.TerminalMnp, models.TerminalOa:
		if req.OpenID == "" {
			return nil, fmt.Errorf("wechat jsapi: openid required")
		}
		svc := jsapi.JsapiApiService{Client: w.client}
		resp, _, err := svc.PrepayWithRequestPayment(ctx, jsapi.PrepayRequest{
			Appid:       core.String(w.conf.AppID),
			Mchid:       core.String(w.conf.MchID),
			Description: core.String(req.Description),
			OutTradeNo:  core.String(req.OrderSn),
			Attach:      core.String(req.Scene),
			NotifyUrl:   core.String(w.conf.NotifyURL),
			Amount:      &jsapi.Amount{Total: total},
			Payer:       &jsapi.Payer{Openid: core.String(req.OpenID)},
		})
		if err != nil {
			return nil, fmt.Errorf("wechat jsapi prepay: %w", err)
		}
		return resp, nil
	case models.TerminalAndroid, models.TerminalIos:
		svc := app.AppApiService{Client: w.client}
		resp, _, err := svc.PrepayWithRequestPayment(ctx, app.PrepayRequest{
			Appid:       core.String(w.conf.AppID),
			Mchid:       core.String(w.conf.MchID),
			Description: core.String(req.Description),
			OutTradeNo:  core.String(req.OrderSn),
			Attach:      core.String(req.Scene),
			NotifyUrl:   core.String(w.conf.NotifyURL),
			Amount:      &app.Amount{Total: total},
		})
		if err != nil {
			return nil, fmt.Errorf("wechat app prepay: %w", err)
		}
		return resp, nil
	default:
		// PC / H5 扫码
		svc := native.NativeApiService{Client: w.client}
		resp, _, err := svc.Prepay(ctx, native.PrepayRequest{
			Appid:       core.String(w.conf.AppID),
			Mchid:       core.String(w.conf.MchID),
			Description: core.String(req.Description),
			OutTradeNo:  core.String(req.OrderSn),
			Attach:      core.String(req.Scene),
			NotifyUrl:   core.String(w.conf.NotifyURL),
			Amount:      &native.Amount{Total: total},
		})
		if err != nil {
			return nil, fmt.Errorf("wechat native prepay: %w", err)
		}
		return map[string]string{"code_url": core.StringValue(resp.CodeUrl)}, nil
	}
}

func (w *WechatPay) ParseNotify(ctx context.Context, r *http.Request) (*Notification, error) {
	if w.notify == nil {
		return nil, ErrNotConfigured
	}
	transaction := new(payments.Transaction)
	if _, err := w.notify.ParseNotifyRequest(ctx, r, transaction); err != nil {
		return nil, fmt.Errorf("微信支付回调验签或解密失败: %w", err)
	}

	raw, _ := json.Marshal(transaction)
	n := &Notification{
		Scene:         core.StringValue(transaction.Attach),
		OrderSn:       core.StringValue(transaction.OutTradeNo),
		TransactionID: core.StringValue(transaction.TransactionId),
		Success:       core.StringValue(transaction.TradeState) == wechatTradeSuccess,
		Raw:           raw,
	}
	if transaction.Amount != nil && transaction.Amount.Total != nil {
		n.Amount = fromFen(*transaction.Amount.Total)
	}
	return n, nil
}
