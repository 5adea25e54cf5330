package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssetKind 存储对象类别
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindAudio AssetKind = "audio"
)

// StoredAsset 已上传到对象存储的资源
// 本系统从不主动删除，过期仅依赖预签名 URL 的有效期
type StoredAsset struct {
	Kind        AssetKind `json:"kind"`
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewAssetKey 生成 {prefix}_{uuid}{ext} 形式的对象键，ext 需包含点号
func NewAssetKey(prefix, ext string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id + ext
	}
	return prefix + "_" + id + ext
}

// AudioAsset 音频生成结果
type AudioAsset struct {
	URL string `json:"url"`
}
