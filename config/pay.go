package config

type WechatPayConfig struct {
	AppID                      string `yaml:"app_id"`                        // 应用ID
	MchID                      string `yaml:"mch_id"`                        // 商户号
	MchCertificateSerialNumber string `yaml:"mch_certificate_serial_number"` // 商户证书序列号
	MchAPIv3Key                string `yaml:"mch_apiv3_key"`                 // APIv3密钥
	MchPrivateKeyPath          string `yaml:"mch_private_key_path"`          // 商户私钥文件路径
	NotifyURL                  string `yaml:"notify_url"`                    // 支付回调URL
}

func ProvideWechatPayConfig(cfg *Config) *WechatPayConfig {
	return cfg.WechatPayConfig
}

type AlipayConfig struct {
	AppID        string `yaml:"app_id"`
	PrivateKey   string `yaml:"private_key"` // 应用私钥
	PublicKey    string `yaml:"public_key"`  // 支付宝公钥
	IsProduction bool   `yaml:"is_production"`
	NotifyURL    string `yaml:"notify_url"`
}

func ProvideAlipayConfig(cfg *Config) *AlipayConfig {
	return cfg.AlipayConfig
}
