// Package image 提供封面图像生成客户端
package image

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"narrative-ai-api/internal/config"
	workflowport "narrative-ai-api/internal/workflow/port"
	apperrors "narrative-ai-api/pkg/errors"
	"narrative-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("image.gemini")

// GeminiClient 通过 genai SDK 调用 Gemini 生成图像
type GeminiClient struct {
	model   string
	client  *genai.Client
	initErr error
}

// NewGeminiClient 创建 Gemini 图像客户端；缺少 API Key 时延迟到首次调用报错
// base_url 为空时使用 SDK 默认地址，API 版本由 SDK 拼接。
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	c := cfg.Image
	g := &GeminiClient{model: strings.TrimSpace(c.Model)}

	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		g.initErr = apperrors.ConfigurationError("image api key missing")
		return g
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimSpace(c.BaseURL)},
	})
	if err != nil {
		g.initErr = apperrors.Wrap(err, apperrors.CodeConfiguration, "failed to create gemini client")
		return g
	}
	g.client = client
	return g
}

var _ workflowport.ImageGenerator = (*GeminiClient)(nil)

// Generate 生成图像，返回第一个 inlineData 片段
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*workflowport.GeneratedImage, error) {
	ctx, span := tracer.Start(ctx, "image.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("image.model", c.model))

	if c.initErr != nil {
		return nil, c.initErr
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "image prompt is required")
	}

	img, err := c.generate(ctx, prompt)
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.ImageGenerationTotal.WithLabelValues(c.model, status).Inc()
	return img, err
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (*workflowport.GeneratedImage, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, apperrors.GenerationError(err, "image request failed")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, apperrors.GenerationError(nil, "image model returned no candidates")
	}

	var text []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.InlineData == nil || len(p.InlineData.Data) == 0 {
			if t := strings.TrimSpace(p.Text); t != "" {
				text = append(text, t)
			}
			continue
		}
		mime := p.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return &workflowport.GeneratedImage{
			Data:     p.InlineData.Data,
			MimeType: mime,
			Model:    c.model,
			Text:     strings.Join(text, "\n"),
		}, nil
	}
	return nil, apperrors.GenerationError(nil, "no image generated").WithDetail(strings.Join(text, "\n"))
}
