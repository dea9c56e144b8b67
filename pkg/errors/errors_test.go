package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfWrappedError(t *testing.T) {
	base := NotFoundError("s-1")
	wrapped := fmt.Errorf("load story: %w", base)

	assert.Equal(t, CodeStoryNotFound, CodeOf(wrapped), "包装后仍应识别错误码")
	assert.True(t, Is(wrapped, CodeStoryNotFound))
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, http.StatusNotFound, AsAppError(wrapped).HTTPStatus)
}

func TestCodeOfPlainError(t *testing.T) {
	err := fmt.Errorf("boom")

	assert.Equal(t, CodeUnknown, CodeOf(err))
	assert.False(t, Is(nil, CodeUnknown), "nil 不应匹配任何错误码")
	assert.Equal(t, http.StatusInternalServerError, AsAppError(err).HTTPStatus)
}

func TestTaxonomyStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{GenerationError(fmt.Errorf("upstream"), "llm call failed"), http.StatusBadGateway},
		{ParseError(fmt.Errorf("bad json"), "outline parse failed"), http.StatusBadGateway},
		{ConfigurationError("llm api key missing"), http.StatusServiceUnavailable},
		{New(CodeInvalidParam, "invalid"), http.StatusBadRequest},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.HTTPStatus, string(c.err.Code))
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[3005] story not found: abc", NotFoundError("abc").Error())
	assert.Equal(t, "[4001] llm call failed: timeout", GenerationError(fmt.Errorf("timeout"), "llm call failed").Error())
}
