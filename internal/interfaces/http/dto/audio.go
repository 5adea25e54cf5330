package dto

// AudioGenerationRequest 语音合成请求
type AudioGenerationRequest struct {
	Text string `json:"text" binding:"required"`
}

// AudioResponse 语音合成响应
type AudioResponse struct {
	URL string `json:"url"`
}
