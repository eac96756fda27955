package service

import (
	"Mall/pkg/snowflake"
	"Mall/types"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"
)

const maxEvidenceSize int64 = 5 << 20

// ObjectStore 凭证图片存储
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	URL(key string) string
}

var _ IEvidenceService = (*EvidenceService)(nil)

type IEvidenceService interface {
	// UploadImage 上传售后凭证图片，返回的 url 填入申请单 images
	UploadImage(ctx context.Context, userID uint64, header *multipart.FileHeader) (*types.UploadEvidenceResp, error)
}

type EvidenceService struct {
	Store ObjectStore
}

func (s *EvidenceService) UploadImage(ctx context.Context, userID uint64, header *multipart.FileHeader) (*types.UploadEvidenceResp, error) {
	if header == nil {
		return nil, ErrEvidenceMissing
	}
	// header.Size 由客户端声明，读取时再限一次
	if header.Size <= 0 || header.Size > maxEvidenceSize {
		return nil, ErrEvidenceSize
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	contentType := http.DetectContentType(head[:n])
	ext, ok := map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}[contentType]
	if !ok {
		return nil, ErrEvidenceType
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, ErrEvidenceType
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("after_sales/%s/%d/%d%s",
		time.Now().Format("20060102"), userID, snowflake.GenID(), ext)
	body := io.LimitReader(f, maxEvidenceSize)
	if err := s.Store.Put(ctx, key, body, contentType); err != nil {
		return nil, ErrExternal.WithMsg("图片上传失败")
	}

	return &types.UploadEvidenceResp{
		Key:    key,
		Url:    s.Store.URL(key),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
