package rocketmq

import (
	"Mall/config"
	"Mall/pkg/log"
	"context"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

// Publisher 消息投递
type Publisher interface {
	Publish(ctx context.Context, topic, key, tag string, body []byte) error
}

type Rocketmq struct {
	RocketmqProducer rocketmq.Producer
}

func init() {
	rlog.SetLogLevel("error")
}

func InitProducer(cfg *config.RocketMQConfig) rocketmq.Producer {
	p, err := rocketmq.NewProducer(
		producer.WithNsResolver(primitive.NewPassthroughResolver(cfg.NameServer)),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		log.L.Fatal("init producer failed", zap.Error(err))
	}
	if err = p.Start(); err != nil {
		log.L.Fatal("start producer failed", zap.Error(err))
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))

	return p
}

func NewRocketmq(p rocketmq.Producer) *Rocketmq {
	return &Rocketmq{RocketmqProducer: p}
}

var _ Publisher = (*Rocketmq)(nil)

func (p *Rocketmq) Publish(ctx context.Context, topic, key, tag string, body []byte) error {
	msg := primitive.NewMessage(topic, body)
	if key != "" {
		msg.WithKeys([]string{key})
	}
	if tag != "" {
		msg.WithTag(tag)
	}

	// 发送同步消息
	res, err := p.RocketmqProducer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("topic", topic), zap.String("msg_id", res.MsgID))
	return nil
}

func (p *Rocketmq) Shutdown() error {
	return p.RocketmqProducer.Shutdown()
}
