package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstory "narrative-ai-api/internal/application/story"
	"narrative-ai-api/internal/config"
	"narrative-ai-api/internal/infrastructure/persistence/memory"
	"narrative-ai-api/internal/interfaces/http/handler"
	workflowport "narrative-ai-api/internal/workflow/port"
	workflowprompt "narrative-ai-api/internal/workflow/prompt"
)

type queueModel struct {
	mu      sync.Mutex
	replies []string
}

func (m *queueModel) push(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

func (m *queueModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return schema.AssistantMessage(r, nil), nil
}

func (m *queueModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

type queueFactory struct{ m *queueModel }

func (f queueFactory) Get(context.Context, string) (model.BaseChatModel, error) { return f.m, nil }

type pngImages struct{}

func (pngImages) Generate(context.Context, string) (*workflowport.GeneratedImage, error) {
	return &workflowport.GeneratedImage{Data: []byte("png"), MimeType: "image/png", Model: "img"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *queueModel) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = "narrative-ai-api-test"
	cfg.App.Env = "test"
	return newTestRouterWithConfig(t, cfg)
}

func newTestRouterWithConfig(t *testing.T, cfg *config.Config) (*gin.Engine, *queueModel) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := &queueModel{}
	repo := memory.NewStoryRepository()
	orch := appstory.NewOrchestratorWithPolicy(queueFactory{m: m}, pngImages{}, repo, workflowprompt.NewRegistry(""), appstory.DefaultPolicy())
	r := New(cfg, handler.NewStoryHandler(orch), handler.NewHealthHandler(repo, nil, "test"))
	return r.Engine(), m
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		ErrorCode string `json:"error_code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

const outlineJSON = `{"title":"Salt and Iron","chapters":[{"number":1,"title":"Harbor","summary":"Ines reaches the harbor."},{"number":2,"title":"Forge","summary":"Ines repairs the bell."}]}`

func TestStoryFlowOverHTTP(t *testing.T) {
	engine, m := newTestRouter(t)

	m.push(outlineJSON)
	w := do(t, engine, http.MethodPost, "/v1/stories/outline", map[string]any{
		"seed_summary":         "A smith's daughter restores a drowned town's bell.",
		"genre":                "historical",
		"writing_style":        "spare",
		"target_chapter_count": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var outline struct {
		StoryID string `json:"story_id"`
		Title   string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &outline))
	assert.Equal(t, "Salt and Iron", outline.Title)

	m.push("# Harbor\nThe boats came in at dusk.")
	w = do(t, engine, http.MethodPost, "/v1/stories/"+outline.StoryID+"/chapters/generate", map[string]any{
		"chapter_number":  1,
		"chapter_summary": "Ines reaches the harbor.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var chapter struct {
		Title     string `json:"title"`
		WordCount int    `json:"word_count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &chapter))
	assert.Equal(t, "Harbor", chapter.Title)
	assert.Equal(t, 6, chapter.WordCount)

	w = do(t, engine, http.MethodGet, "/v1/stories/"+outline.StoryID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var story struct {
		Status   string `json:"status"`
		Chapters []any  `json:"chapters"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &story))
	assert.Equal(t, "OUTLINED", story.Status)
	assert.Len(t, story.Chapters, 1)

	w = do(t, engine, http.MethodPost, "/v1/stories/"+outline.StoryID+"/cover", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cover struct {
		DataURL string `json:"data_url"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cover))
	assert.Equal(t, "data:image/png;base64,cG5n", cover.DataURL)

	w = do(t, engine, http.MethodPost, "/v1/stories/"+outline.StoryID+"/document", map[string]any{"cover_image": cover.DataURL})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cover_image":"data:image/png;base64,cG5n"`)

	w = do(t, engine, http.MethodPut, "/v1/stories/"+outline.StoryID+"/complete", map[string]any{"is_complete": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_complete":true`)
}

func TestBoundaryValidation(t *testing.T) {
	engine, _ := newTestRouter(t)

	cases := []struct {
		name string
		path string
		body map[string]any
	}{
		{"chapter count above 30", "/v1/stories/outline", map[string]any{
			"seed_summary": "s", "genre": "g", "writing_style": "plain", "target_chapter_count": 31,
		}},
		{"chapter length below 500", "/v1/stories/outline", map[string]any{
			"seed_summary": "s", "genre": "g", "writing_style": "plain", "target_chapter_count": 3, "target_chapter_length": 100,
		}},
		{"character count above 15", "/v1/stories/seed-ideas", map[string]any{
			"genre": "g", "idea": "i", "writing_style": "plain", "target_chapter_count": 3, "character_count": 16,
		}},
		{"blank writing style", "/v1/stories", map[string]any{
			"title": "t", "genre": "g", "writing_style": "  a  ",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, engine, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, "1001", env.Error.ErrorCode)
		})
	}
}

func TestErrorStatusMapping(t *testing.T) {
	engine, m := newTestRouter(t)

	w := do(t, engine, http.MethodGet, "/v1/stories/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "3005", decode(t, w).Error.ErrorCode)

	m.push("not json at all")
	w = do(t, engine, http.MethodPost, "/v1/stories/outline", map[string]any{
		"seed_summary": "s", "genre": "g", "writing_style": "plain", "target_chapter_count": 2,
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "4007", decode(t, w).Error.ErrorCode)

	// 无预设回复，模型调用失败
	w = do(t, engine, http.MethodPost, "/v1/stories/surprise", map[string]any{
		"category": "fiction", "story_type": "Fantasy", "length": "Short Story", "tone": "Dark", "target_audience": "Adults",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "4001", decode(t, w).Error.ErrorCode)
}

func TestHealthEndpoints(t *testing.T) {
	engine, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := do(t, engine, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	w := do(t, engine, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGzipAppliesToV1Only(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "narrative-ai-api-test"
	cfg.Server.HTTP.Gzip = true
	engine, _ := newTestRouterWithConfig(t, cfg)

	w := do(t, engine, http.MethodPost, "/v1/stories", map[string]any{
		"title": "Salt and Iron", "genre": "Fantasy", "writing_style": "lyrical",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	req := httptest.NewRequest(http.MethodGet, "/v1/stories/"+created.ID, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Contains(t, string(env.Data), "Salt and Iron")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}
