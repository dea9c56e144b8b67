package model

// SurpriseGenerateInput 一次性短篇生成输入
type SurpriseGenerateInput struct {
	Category       string
	StoryType      string
	Length         string
	Tone           string
	TargetAudience string
	Prompt         string
	TargetWords    int
}

// CoverPromptInput 封面提示词输入
type CoverPromptInput struct {
	Title   string
	Genre   string
	Premise string
	Setting string
}
