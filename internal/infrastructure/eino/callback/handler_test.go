package callback

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"

	"narrative-ai-api/internal/domain/service"
	"narrative-ai-api/pkg/metrics"
)

func TestChatModelHandlerRecordsSuccess(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithWorkflowProvider(context.Background(), "cb_test_success", "openai")

	before := counterValue(t, metrics.LLMCallTotal.WithLabelValues("cb_test_success", "openai", "gpt-test", "success"))

	ctx = h.OnStart(ctx, &einocb.RunInfo{Name: "chat", Type: "OpenAI"}, &model.CallbackInput{Config: &model.Config{Model: "gpt-test"}})
	assert.Equal(t, "gpt-test", startedModel(ctx))

	h.OnEnd(ctx, nil, &model.CallbackOutput{
		TokenUsage: &model.TokenUsage{PromptTokens: 10, CompletionTokens: 20},
	})

	after := counterValue(t, metrics.LLMCallTotal.WithLabelValues("cb_test_success", "openai", "gpt-test", "success"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, float64(20), counterValue(t, metrics.LLMTokensUsed.WithLabelValues("cb_test_success", "openai", "gpt-test", "completion")))
}

func TestChatModelHandlerRecordsError(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithWorkflowProvider(context.Background(), "cb_test_error", "openai")

	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("hi")}, Config: &model.Config{Model: "gpt-err"}})
	h.OnError(ctx, nil, errors.New("boom"))

	assert.Equal(t, float64(1), counterValue(t, metrics.LLMCallTotal.WithLabelValues("cb_test_error", "openai", "gpt-err", "error")))
}

func TestElapsedWithoutStart(t *testing.T) {
	assert.Zero(t, elapsedSeconds(context.Background()))
	assert.Empty(t, startedModel(context.Background()))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
