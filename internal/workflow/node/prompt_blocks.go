package node

import (
	"fmt"
	"sort"
	"strings"

	"narrative-ai-api/internal/domain/entity"
)

// BuildCharacterBlock 渲染角色设定段落
// 未提供角色时，按 characterCount 提示模型自行生成。
func BuildCharacterBlock(characters []entity.CharacterDetail, characterCount int) string {
	lines := make([]string, 0, len(characters)+1)
	for _, c := range characters {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		var b strings.Builder
		b.WriteString("- " + name)
		if d := strings.TrimSpace(c.Description); d != "" {
			b.WriteString(": " + d)
		}
		if v := strings.TrimSpace(c.Background); v != "" {
			b.WriteString("\n  Background: " + v)
		}
		if v := strings.TrimSpace(c.Goals); v != "" {
			b.WriteString("\n  Goals: " + v)
		}
		if len(c.PersonalityTraits) > 0 {
			b.WriteString("\n  Traits: " + strings.Join(c.PersonalityTraits, ", "))
		}
		for _, other := range sortedKeys(c.Relationships) {
			b.WriteString(fmt.Sprintf("\n  Relationship with %s: %s", other, c.Relationships[other]))
		}
		if v := strings.TrimSpace(c.ArcDescription); v != "" {
			b.WriteString("\n  Arc: " + v)
		}
		lines = append(lines, b.String())
	}
	if len(lines) > 0 {
		return "Predefined characters:\n" + strings.Join(lines, "\n")
	}
	if characterCount > 0 {
		return fmt.Sprintf("Generate %d distinct characters appropriate for the story.", characterCount)
	}
	return "Generate an appropriate number of characters for the story's scope and complexity."
}

// BuildSettingsBlock 渲染叙事设定段落，无设定返回空串
func BuildSettingsBlock(settings *entity.StorySettings) string {
	if settings == nil {
		return ""
	}
	field := func(v, fallback string) string {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
		return fallback
	}
	return strings.Join([]string{
		"Story settings:",
		"Narrative Perspective: " + field(settings.NarrativePerspective, "Choose appropriate perspective"),
		"Setting: " + field(settings.SettingDescription, "Develop based on story needs"),
		"Time Period: " + field(settings.TimePeriod, "Choose appropriate time period"),
		"World Details: " + field(settings.WorldBuildingDetails, "Develop as needed"),
	}, "\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
