package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sorane/t3c/internal/t3"
)

// Config holds the tool configuration: the credentials for the t3.chat
// session plus default request options.
type Config struct {
	Cookies                 string   `toml:"cookies" mapstructure:"cookies"`                     // Full Cookie header captured from a browser session
	SessionID               string   `toml:"session_id" mapstructure:"session_id"`               // Convex session id, stored without the surrounding JSON quotes
	Model                   string   `toml:"model" mapstructure:"model"`                         // Default model id (e.g., "gemini-2.5-flash")
	ReasoningEffort         string   `toml:"reasoning_effort" mapstructure:"reasoning_effort"`   // low, medium, or high
	IncludeSearch           bool     `toml:"include_search" mapstructure:"include_search"`       // Enable web search by default
	PromptDirs              []string `toml:"prompt_dirs" mapstructure:"prompt_dirs"`             // Directories scanned for prompt templates
	ModelCacheTTLMinutes    int      `toml:"model_cache_ttl_minutes" mapstructure:"model_cache_ttl_minutes"`
	SessionMessageThreshold int      `toml:"session_message_threshold" mapstructure:"session_message_threshold"` // 0 = disabled
	SessionRetentionDays    int      `toml:"session_retention_days" mapstructure:"session_retention_days"`       // Number of days to retain sessions
}

// Credentials returns the credentials in the shape the client expects. The
// service wants the convex session id JSON-quoted on the wire; the quoting
// happens here so the config file stays readable.
func (c *Config) Credentials() t3.Credentials {
	sessionID := c.SessionID
	if sessionID != "" && sessionID[0] != '"' {
		sessionID = fmt.Sprintf("%q", sessionID)
	}
	return t3.Credentials{
		Cookies:         c.Cookies,
		ConvexSessionID: sessionID,
	}
}

// Options returns the default request options from the config.
func (c *Config) Options() (t3.Options, error) {
	opts := t3.NewOptions().WithSearch(c.IncludeSearch)
	if c.ReasoningEffort != "" {
		effort, err := t3.ParseReasoningEffort(c.ReasoningEffort)
		if err != nil {
			return t3.Options{}, err
		}
		opts = opts.WithReasoningEffort(effort)
	}
	return opts, nil
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		Cookies:                 "$T3C_COOKIES", // Default to env var
		SessionID:               "$T3C_SESSION_ID",
		Model:                   "gemini-2.5-flash",
		ReasoningEffort:         string(t3.ReasoningLow),
		IncludeSearch:           false,
		PromptDirs:              []string{promptDir},
		ModelCacheTTLMinutes:    30,
		SessionMessageThreshold: 50, // Default threshold (0 = disabled)
		SessionRetentionDays:    30, // Delete sessions older than 30 days
	}
}

// LoadConfig loads configuration from viper.
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	// Credentials may reference environment variables ($VAR or ${VAR}).
	var err error
	if config.Cookies, err = expandEnvVar(config.Cookies); err != nil {
		return nil, err
	}
	if config.SessionID, err = expandEnvVar(config.SessionID); err != nil {
		return nil, err
	}

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %v", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}
