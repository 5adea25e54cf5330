package node

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject 从模型输出中截取第一个 JSON 对象/数组。
// 模型可能在 JSON 前后夹杂说明文字或 markdown 代码块。
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(stripCodeFence(s))
	if raw == "" {
		return raw
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start, end := -1, -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}

// stripCodeFence 去掉 ```json ... ``` 包裹
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return t
}

// DecodeJSON 截取并解码模型输出
func DecodeJSON(s string, out any) error {
	raw := ExtractJSONObject(s)
	if raw == "" {
		return &DecodeError{Raw: s, Reason: "empty output"}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &DecodeError{Raw: raw, Reason: err.Error()}
	}
	return nil
}

// DecodeError 模型输出无法解码为目标结构
type DecodeError struct {
	Raw    string
	Reason string
}

func (e *DecodeError) Error() string {
	return "failed to decode structured output: " + e.Reason
}
