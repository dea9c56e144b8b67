package port

import "context"

// GeneratedImage 图像生成结果
type GeneratedImage struct {
	Data     []byte
	MimeType string
	Model    string
	// Text 模型随图返回的文字说明（可能为空）
	Text string
}

// ImageGenerator 定义工作流层对图像生成服务的最小依赖（port）。
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*GeneratedImage, error)
}
