package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePromptFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing prompt file: %v", err)
	}
}

func TestFormatMessageWithoutPrompt(t *testing.T) {
	got, overrides, err := FormatMessage("plain message", "", nil, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if got != "plain message" {
		t.Errorf("FormatMessage() = %q, want passthrough", got)
	}
	if overrides.Model != nil || overrides.IncludeSearch != nil || overrides.ReasoningEffort != nil {
		t.Errorf("overrides = %+v, want empty", overrides)
	}
}

func TestFormatMessage(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "translate.toml", `
system = "You are a translator to {{lang}}."
user = "Translate: {{input}}"
`)

	got, _, err := FormatMessage("hello world", "translate", []string{dir}, []string{"lang:French"})
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}

	// System text is folded into the single user turn
	want := "You are a translator to French.\n\nTranslate: hello world"
	if got != want {
		t.Errorf("FormatMessage() = %q, want %q", got, want)
	}
}

func TestFormatMessageUserOnly(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "plain.toml", `user = "Say: {{input}}"`)

	got, _, err := FormatMessage("hi", "plain", []string{dir}, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if got != "Say: hi" {
		t.Errorf("FormatMessage() = %q", got)
	}
}

func TestFormatMessageOverrides(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "research.toml", `
user = "{{input}}"
model = "claude-4-sonnet"
include_search = true
reasoning_effort = "high"
`)

	_, overrides, err := FormatMessage("question", "research", []string{dir}, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}

	if overrides.Model == nil || *overrides.Model != "claude-4-sonnet" {
		t.Errorf("model override = %v", overrides.Model)
	}
	if overrides.IncludeSearch == nil || !*overrides.IncludeSearch {
		t.Errorf("search override = %v", overrides.IncludeSearch)
	}
	if overrides.ReasoningEffort == nil || *overrides.ReasoningEffort != "high" {
		t.Errorf("reasoning override = %v", overrides.ReasoningEffort)
	}
}

func TestFormatMessageInvalidReasoningEffort(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "bad.toml", `
user = "{{input}}"
reasoning_effort = "extreme"
`)

	_, _, err := FormatMessage("hi", "bad", []string{dir}, nil)
	if err == nil {
		t.Fatal("FormatMessage() error = nil, want invalid reasoning effort error")
	}
	if !strings.Contains(err.Error(), "reasoning effort") {
		t.Errorf("FormatMessage() error = %v", err)
	}
}

func TestFormatMessageNotFound(t *testing.T) {
	_, _, err := FormatMessage("hi", "missing", []string{t.TempDir()}, nil)
	if err == nil {
		t.Fatal("FormatMessage() error = nil, want not-found error")
	}
}

func TestFormatMessageLaterDirWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writePromptFile(t, first, "dup.toml", `user = "from first: {{input}}"`)
	writePromptFile(t, second, "dup.toml", `user = "from second: {{input}}"`)

	got, _, err := FormatMessage("x", "dup", []string{first, second}, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if got != "from second: x" {
		t.Errorf("FormatMessage() = %q, want later directory to win", got)
	}
}

func TestProcessArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "simple pairs",
			args: []string{"lang:French", "tone:formal"},
			want: map[string]string{"lang": "French", "tone": "formal"},
		},
		{
			name: "value with escaped colon",
			args: []string{`url:https\://example.com`},
			want: map[string]string{"url": "https://example.com"},
		},
		{
			name:    "missing colon",
			args:    []string{"novalue"},
			wantErr: true,
		},
		{
			name:    "reserved input key",
			args:    []string{"input:forbidden"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("processArgs() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("processArgs() error = %v", err)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("processArgs()[%q] = %q, want %q", key, got[key], want)
				}
			}
		})
	}
}
