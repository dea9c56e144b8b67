package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsRoundTrip(t *testing.T) {
	ctx := WithWorkflowProvider(context.Background(), " outline ", "openai")
	ctx = WithStoryID(ctx, "s-1")

	assert.Equal(t, "outline", WorkflowFromContext(ctx))
	assert.Equal(t, "openai", ProviderFromContext(ctx))
	assert.Equal(t, "s-1", StoryIDFromContext(ctx))
}

func TestLabelsDefaults(t *testing.T) {
	ctx := WithWorkflow(context.Background(), "   ")

	assert.Equal(t, "unknown", WorkflowFromContext(ctx))
	assert.Equal(t, "unknown", ProviderFromContext(nil))
	assert.Equal(t, "", StoryIDFromContext(ctx))
}
