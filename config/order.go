package config

import "github.com/shopspring/decimal"

// OrderConfig 订单/支付/充值相关的业务配置，注入到各个 service
type OrderConfig struct {
	SerialPrefix string         `json:"serial_prefix" yaml:"serial_prefix"` // 订单号前缀
	HashSalt     string         `json:"hash_salt" yaml:"hash_salt"`         // 售后单号盐值
	PayWays      []PayWayConfig `json:"pay_ways" yaml:"pay_ways"`
	Recharge     RechargeConfig `json:"recharge" yaml:"recharge"`
	Relay        EventRelay     `json:"relay" yaml:"relay"`
}

type PayWayConfig struct {
	Way     int8   `json:"way" yaml:"way"` // 1:余额 2:微信 3:支付宝
	Name    string `json:"name" yaml:"name"`
	Icon    string `json:"icon" yaml:"icon"`
	Sort    int    `json:"sort" yaml:"sort"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

type RechargeConfig struct {
	Enabled     bool              `json:"enabled" yaml:"enabled"`
	MinRecharge decimal.Decimal   `json:"min_recharge" yaml:"min_recharge"`
	Packages    []RechargePackage `json:"packages" yaml:"packages"`
}

type RechargePackage struct {
	ID        uint64          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Money     decimal.Decimal `json:"money" yaml:"money"`
	GiveMoney decimal.Decimal `json:"give_money" yaml:"give_money"`
}

// EventRelay 订单事件投递任务
type EventRelay struct {
	Spec  string `json:"spec" yaml:"spec"` // cron 表达式（秒级）
	Batch int    `json:"batch" yaml:"batch"`
}

func (o *OrderConfig) applyDefaults() {
	if o.SerialPrefix == "" {
		o.SerialPrefix = "MO"
	}
	if o.HashSalt == "" {
		o.HashSalt = "after-sales"
	}
	if o.Relay.Spec == "" {
		o.Relay.Spec = "*/10 * * * * *"
	}
	if o.Relay.Batch <= 0 {
		o.Relay.Batch = 100
	}
}

// PayWayEnabled 判断支付方式是否开放
func (o *OrderConfig) PayWayEnabled(way int8) bool {
	for _, w := range o.PayWays {
		if w.Way == way {
			return w.Enabled
		}
	}
	return false
}

// FindPackage 查找充值套餐
func (o *OrderConfig) FindPackage(id uint64) (RechargePackage, bool) {
	for _, p := range o.Recharge.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return RechargePackage{}, false
}
