package node

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"narrative-ai-api/internal/domain/entity"
)

func TestExtractJSONObject(t *testing.T) {
	cases := map[string]string{
		"plain":       `{"a":1}`,
		"prose":       "Here is the outline:\n{\"a\":1}\nHope it helps.",
		"fenced":      "```json\n{\"a\":1}\n```",
		"fenced bare": "```\n{\"a\":1}\n```",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, `{"a":1}`, ExtractJSONObject(in))
		})
	}
	assert.Equal(t, "", ExtractJSONObject("   "))
}

func TestIsResponseFormatUnsupportedError(t *testing.T) {
	assert.True(t, IsResponseFormatUnsupportedError(errors.New("400: Unknown parameter: 'response_format'")))
	assert.True(t, IsResponseFormatUnsupportedError(errors.New("json_schema is not supported for this model")))
	assert.False(t, IsResponseFormatUnsupportedError(errors.New("context deadline exceeded")))
	assert.True(t, IsResponseFormatUnsupportedError(errors.New("Unsupported value: structured output requires a newer model")))
	assert.False(t, IsResponseFormatUnsupportedError(errors.New("failed to parse upstream body")))
	assert.False(t, IsResponseFormatUnsupportedError(fmt.Errorf("call: %w (response_format)", context.DeadlineExceeded)))
	assert.False(t, IsResponseFormatUnsupportedError(nil))
}

func TestTruncateByRunes(t *testing.T) {
	assert.Equal(t, "hé", TruncateByRunes("héllo", 2))
	assert.Equal(t, "héllo", TruncateByRunes("héllo", 10))
	assert.Equal(t, "", TruncateByRunes("héllo", 0))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "A storm rises", FirstSentence("A storm rises. Ships sink."))
	assert.Equal(t, "no period", FirstSentence("no period"))
}

func TestBuildCharacterBlock(t *testing.T) {
	block := BuildCharacterBlock([]entity.CharacterDetail{{
		Name:              "Elena",
		Description:       "a librarian",
		Goals:             "protect the archive",
		PersonalityTraits: []string{"stubborn", "kind"},
		Relationships:     map[string]string{"Marco": "brother", "Ana": "mentor"},
	}}, 0)

	assert.Contains(t, block, "Predefined characters:")
	assert.Contains(t, block, "- Elena: a librarian")
	assert.Contains(t, block, "Traits: stubborn, kind")
	assert.Less(t, strings.Index(block, "Ana"), strings.Index(block, "Marco"), "关系按名称排序")

	assert.Equal(t, "Generate 4 distinct characters appropriate for the story.", BuildCharacterBlock(nil, 4))
	assert.Contains(t, BuildCharacterBlock(nil, 0), "appropriate number of characters")
}

func TestBuildSettingsBlock(t *testing.T) {
	assert.Equal(t, "", BuildSettingsBlock(nil))

	block := BuildSettingsBlock(&entity.StorySettings{TimePeriod: "1920s"})
	assert.Contains(t, block, "Time Period: 1920s")
	assert.Contains(t, block, "Narrative Perspective: Choose appropriate perspective")
}
