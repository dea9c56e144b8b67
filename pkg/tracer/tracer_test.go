package tracer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := tracer
	tracer = tp.Tracer("test")
	t.Cleanup(func() { tracer = prev })
	return rec
}

func attrMap(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestStartStageAttributes(t *testing.T) {
	rec := useRecorder(t)

	_, span := StartStage(context.Background(), "chapter", "story-1")
	span.End()
	_, span = StartStage(context.Background(), "seed_ideas", "")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "story.chapter", ended[0].Name())
	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "chapter", attrs["story.stage"])
	assert.Equal(t, "story-1", attrs["story.id"])

	assert.Equal(t, "story.seed_ideas", ended[1].Name())
	assert.NotContains(t, attrMap(ended[1].Attributes()), "story.id")
}

func TestRecordErrorMarksSpan(t *testing.T) {
	rec := useRecorder(t)

	_, span := Start(context.Background(), "llm.generate")
	RecordError(span, nil)
	RecordError(span, errors.New("upstream timeout"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "upstream timeout", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}

func TestInitDisabledIsNoop(t *testing.T) {
	prev := tracer
	t.Cleanup(func() { tracer = prev })

	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, tracer)
}

func TestNewSamplerBounds(t *testing.T) {
	assert.True(t, strings.HasPrefix(newSampler(2).Description(), "ParentBased{root:AlwaysOnSampler,"))
	assert.True(t, strings.HasPrefix(newSampler(0).Description(), "ParentBased{root:AlwaysOffSampler,"))
	assert.True(t, strings.HasPrefix(newSampler(0.25).Description(), "ParentBased{root:TraceIDRatioBased{0.25},"))
}
