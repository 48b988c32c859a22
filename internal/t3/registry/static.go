package registry

import (
	"context"

	"github.com/sorane/t3c/internal/t3"
)

// StaticSource serves a fixed roster. It backs the --offline fallback when
// bundle mining fails, and doubles as a test double.
type StaticSource struct {
	Models []t3.ModelInfo
}

// FetchModels returns the fixed roster.
func (s *StaticSource) FetchModels(ctx context.Context) ([]t3.ModelInfo, error) {
	return s.Models, nil
}

// FallbackModels is a conservative snapshot of the roster, used when the
// delivered bundles cannot be mined. It will drift out of date; the ids
// listed here are long-lived ones.
func FallbackModels() []t3.ModelInfo {
	return []t3.ModelInfo{
		{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Developer: "Google", ShortDescription: "Google's state of the art fast model", SupportsSearch: true},
		{ID: "gemini-2.5-flash-lite", Name: "Gemini 2.5 Flash Lite", Developer: "Google", ShortDescription: "Google's most cost-efficient model", SupportsSearch: true},
		{ID: "claude-3.7", Name: "Claude 3.7 Sonnet", Developer: "Anthropic", ShortDescription: "Anthropic's Claude 3.7 Sonnet", SupportsEffort: true},
		{ID: "claude-4-sonnet", Name: "Claude 4 Sonnet", Developer: "Anthropic", ShortDescription: "Anthropic's Claude 4 Sonnet", SupportsEffort: true},
		{ID: "gpt-o4-mini", Name: "GPT o4-mini", Developer: "OpenAI", ShortDescription: "OpenAI's latest small reasoning model", SupportsEffort: true},
		{ID: "gpt-image-1", Name: "GPT Image 1", Developer: "OpenAI", ShortDescription: "OpenAI's image generation model", SupportsImages: true},
		{ID: "deepseek-r1-groq", Name: "DeepSeek R1 (Groq)", Developer: "DeepSeek", ShortDescription: "DeepSeek R1 distilled on Llama", SupportsEffort: true},
	}
}
