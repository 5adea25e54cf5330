package entity

import (
	"fmt"
	"strings"
)

// Keyword 故事关键词
// Category 的取值由调用方配置的闭集决定
type Keyword struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// KeywordCategories 关键词分类闭集
type KeywordCategories []string

// DefaultKeywordCategories 默认分类
var DefaultKeywordCategories = KeywordCategories{"action", "emotion", "object", "plot"}

// NewKeywordCategories 规范化分类集合：去空白、去重并保持原顺序
func NewKeywordCategories(values []string) KeywordCategories {
	seen := make(map[string]struct{}, len(values))
	out := make(KeywordCategories, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Contains 判断分类是否属于闭集
func (c KeywordCategories) Contains(category string) bool {
	for _, v := range c {
		if v == category {
			return true
		}
	}
	return false
}

// Validate 校验关键词分类与文本
func (c KeywordCategories) Validate(kw Keyword) error {
	if strings.TrimSpace(kw.Text) == "" {
		return fmt.Errorf("keyword text is empty")
	}
	if !c.Contains(kw.Category) {
		return fmt.Errorf("keyword category %q not in %v", kw.Category, []string(c))
	}
	return nil
}
