package entity

import "strings"

// PlaceholderImagePrompt 图像提示词推导失败时的占位文本
const PlaceholderImagePrompt = "Placeholder image"

// ImagePrompt 图像提示词
type ImagePrompt struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

// PlaceholderPrompt 返回占位提示词
func PlaceholderPrompt() ImagePrompt {
	return ImagePrompt{Positive: PlaceholderImagePrompt}
}

// IsPlaceholder 判断是否为占位提示词
func (p ImagePrompt) IsPlaceholder() bool {
	return p.Positive == PlaceholderImagePrompt && p.Negative == ""
}

// ImageHistoryEntry 历史图片记录
type ImageHistoryEntry struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url,omitempty"`
}

// SceneDescription 结构化场景描述，由 LLM 按 schema 生成
type SceneDescription struct {
	Style               string `json:"style"`
	Characters          string `json:"characters"`
	ClothingAccessories string `json:"clothing_and_accessories"`
	ExpressionsPoses    string `json:"expressions_and_poses"`
	Scene               string `json:"scene"`
	Lighting            string `json:"lighting"`
	Camera              string `json:"camera"`
	AdditionalDetails   string `json:"additional_details"`
	NegativePrompt      string `json:"negative_prompt"`
}

// ToPrompt 拼接为正向提示词与负向提示词
func (d SceneDescription) ToPrompt() ImagePrompt {
	positive := d.Style + " featuring " + d.Characters + ". " +
		d.ClothingAccessories + ". " +
		d.ExpressionsPoses + ". " +
		d.Scene + ". " +
		d.Lighting + ". " +
		d.Camera + ". " +
		d.AdditionalDetails + "."
	return ImagePrompt{Positive: positive, Negative: d.NegativePrompt}
}

// IsComplete 判断场景描述的必填字段是否齐全
func (d SceneDescription) IsComplete() bool {
	for _, v := range []string{d.Style, d.Characters, d.Scene} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// ImageReaction 对已生成图片的反馈
type ImageReaction string

const (
	ReactionLike    ImageReaction = "like"
	ReactionDislike ImageReaction = "dislike"
	ReactionStyle   ImageReaction = "style"
)

// Valid 判断反馈取值是否合法
func (r ImageReaction) Valid() bool {
	switch r {
	case ReactionLike, ReactionDislike, ReactionStyle:
		return true
	default:
		return false
	}
}
