package entity

// VoiceSettings 语音合成的固定音色与质量参数
type VoiceSettings struct {
	VoiceID         string
	ModelID         string
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	UseSpeakerBoost bool
}
