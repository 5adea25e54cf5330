package image

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/domain/repository"
	apperrors "z-story-ai-api/pkg/errors"
	"z-story-ai-api/pkg/logger"
)

const (
	assetPrefix        = "image"
	defaultContentType = "application/octet-stream"
)

// Uploader 将本地图片文件上传到对象存储并返回预签名地址
type Uploader struct {
	store  repository.ObjectStore
	bucket string
	expiry time.Duration
}

// NewUploader 创建上传器
func NewUploader(store repository.ObjectStore, bucket string, expiry time.Duration) *Uploader {
	return &Uploader{store: store, bucket: bucket, expiry: expiry}
}

// UploadFile 以 image_{uuid}{ext} 为对象键上传文件
func (u *Uploader) UploadFile(ctx context.Context, path string) (*entity.StoredAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeFileNotFound, "failed to open image file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to stat image file")
	}

	ext := strings.ToLower(filepath.Ext(path))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = defaultContentType
	}
	key := entity.NewAssetKey(assetPrefix, ext)

	if err := u.store.PutObject(ctx, u.bucket, key, f, info.Size(), contentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to upload image")
	}
	url, err := u.store.PresignedGetObject(ctx, u.bucket, key, u.expiry)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "failed to presign image url")
	}

	logger.Info(ctx, "uploaded image to object storage", "bucket", u.bucket, "key", key, "size", info.Size())
	return &entity.StoredAsset{
		Kind:        entity.AssetKindImage,
		Bucket:      u.bucket,
		Key:         key,
		ContentType: contentType,
		Size:        info.Size(),
		URL:         url,
		ExpiresAt:   time.Now().Add(u.expiry).UTC(),
	}, nil
}

// removeFile 删除临时文件，文件已不存在时忽略
func removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn(ctx, "failed to remove temporary file", "path", path, "error", err.Error())
	}
}
