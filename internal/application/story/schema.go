package story

// continuationJSONSchema 续写结果的 JSON Schema，分类枚举由调用时的闭集决定
func continuationJSONSchema(categories []string) map[string]any {
	enum := make([]any, 0, len(categories))
	for _, c := range categories {
		enum = append(enum, c)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"messages", "keywords"},
		"properties": map[string]any{
			"messages": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"author", "content"},
					"properties": map[string]any{
						"author":  map[string]any{"type": "string"},
						"content": map[string]any{"type": "string"},
					},
				},
			},
			"keywords": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"category", "text"},
					"properties": map[string]any{
						"category": map[string]any{"type": "string", "enum": enum},
						"text":     map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
