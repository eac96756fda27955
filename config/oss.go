package config

type OssConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"ak" yaml:"ak"`
	AccessKeySecret string `json:"sk" yaml:"sk"`
	// 对外访问域名，售后凭证图片按此拼接
	Domain string `json:"domain" yaml:"domain"`
}

func ProvideOssConfig(cfg *Config) *OssConfig {
	if cfg.Oss == nil {
		return &OssConfig{}
	}
	return cfg.Oss
}
