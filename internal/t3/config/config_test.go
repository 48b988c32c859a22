package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sorane/t3c/internal/t3"
)

func TestCredentialsQuoting(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		want      string
	}{
		{name: "bare id gets quoted", sessionID: "abc-123", want: `"abc-123"`},
		{name: "already quoted id kept", sessionID: `"abc-123"`, want: `"abc-123"`},
		{name: "empty id stays empty", sessionID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Cookies: "wos-session=x", SessionID: tt.sessionID}
			creds := cfg.Credentials()
			if creds.ConvexSessionID != tt.want {
				t.Errorf("ConvexSessionID = %q, want %q", creds.ConvexSessionID, tt.want)
			}
			if creds.Cookies != "wos-session=x" {
				t.Errorf("Cookies = %q", creds.Cookies)
			}
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := &Config{ReasoningEffort: "high", IncludeSearch: true}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.ReasoningEffort != t3.ReasoningHigh || !opts.IncludeSearch {
		t.Errorf("Options() = %+v", opts)
	}

	// An empty effort keeps the default
	cfg = &Config{}
	opts, err = cfg.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.ReasoningEffort != t3.ReasoningLow {
		t.Errorf("Options() effort = %v, want low default", opts.ReasoningEffort)
	}

	// An invalid effort is rejected
	cfg = &Config{ReasoningEffort: "extreme"}
	_, err = cfg.Options()
	var validationErr *t3.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Options() error = %v, want ValidationError", err)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig("/tmp/prompts")

	if cfg.Cookies != "$T3C_COOKIES" || cfg.SessionID != "$T3C_SESSION_ID" {
		t.Errorf("default credentials = (%q, %q)", cfg.Cookies, cfg.SessionID)
	}
	if cfg.Model == "" {
		t.Error("default model is empty")
	}
	if len(cfg.PromptDirs) != 1 || cfg.PromptDirs[0] != "/tmp/prompts" {
		t.Errorf("default prompt dirs = %v", cfg.PromptDirs)
	}
	if cfg.ModelCacheTTLMinutes <= 0 {
		t.Errorf("default model cache ttl = %d", cfg.ModelCacheTTLMinutes)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("T3C_TEST_VALUE", "resolved")

	tests := []struct {
		input string
		want  string
	}{
		{input: "$T3C_TEST_VALUE", want: "resolved"},
		{input: "${T3C_TEST_VALUE}", want: "resolved"},
		{input: "$T3C_TEST_UNSET", want: ""},
		{input: "literal-value", want: "literal-value"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := expandEnvVar(tt.input)
			if err != nil {
				t.Fatalf("expandEnvVar(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Run("absolute path unchanged", func(t *testing.T) {
		got, err := ResolvePath("/etc/t3c/prompts")
		if err != nil {
			t.Fatalf("ResolvePath() error = %v", err)
		}
		if got != "/etc/t3c/prompts" {
			t.Errorf("ResolvePath() = %q", got)
		}
	})

	t.Run("relative path resolved", func(t *testing.T) {
		got, err := ResolvePath("prompts")
		if err != nil {
			t.Fatalf("ResolvePath() error = %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("ResolvePath() = %q, want absolute path", got)
		}
	})
}
