package oss

import (
	"Mall/config"
	"context"
	"io"
	"strings"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// Bucket 单个 bucket 的读写
type Bucket struct {
	Client *oss.Client
	Name   string
	Domain string
}

// NewBucket 未配置 ak/sk 时从环境变量读取凭证
func NewBucket(conf *config.OssConfig) *Bucket {
	var provider credentials.CredentialsProvider = credentials.NewEnvironmentVariableCredentialsProvider()
	if conf.AccessKeyID != "" {
		provider = credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret)
	}
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(provider).
		WithEndpoint(conf.Endpoint).
		WithRegion(conf.Region)

	return &Bucket{
		Client: oss.NewClient(cfg),
		Name:   conf.Bucket,
		Domain: strings.TrimRight(conf.Domain, "/"),
	}
}

func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := b.Client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket:      oss.Ptr(b.Name),
		Key:         oss.Ptr(key),
		Body:        body,
		ContentType: oss.Ptr(contentType),
	})
	return err
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.Client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(b.Name),
		Key:    oss.Ptr(key),
	})
	return err
}

func (b *Bucket) URL(key string) string {
	return b.Domain + "/" + key
}
