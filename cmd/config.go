/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/sorane/t3c/internal/t3/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging config files,
environment variables, and defaults.

Credential values are masked. Use --show-secrets to print them in full.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			configFile = "(none)"
		}
		fmt.Printf("Config file: %s\n\n", configFile)

		cookies := cfg.Cookies
		sessionID := cfg.SessionID
		if !showSecrets {
			cookies = maskSecret(cookies)
			sessionID = maskSecret(sessionID)
		}

		fmt.Printf("cookies = %q\n", cookies)
		fmt.Printf("session_id = %q\n", sessionID)
		fmt.Printf("model = %q\n", cfg.Model)
		fmt.Printf("reasoning_effort = %q\n", cfg.ReasoningEffort)
		fmt.Printf("include_search = %t\n", cfg.IncludeSearch)
		fmt.Printf("prompt_dirs = [%s]\n", quoteJoin(cfg.PromptDirs))
		fmt.Printf("model_cache_ttl_minutes = %d\n", cfg.ModelCacheTTLMinutes)
		fmt.Printf("session_message_threshold = %d\n", cfg.SessionMessageThreshold)
		fmt.Printf("session_retention_days = %d\n", cfg.SessionRetentionDays)

		return nil
	},
}

var showSecrets bool

// maskSecret hides all but the first few characters of a credential value.
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + strings.Repeat("*", 8)
}

// quoteJoin renders a string slice as a TOML-style quoted list body.
func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print credential values without masking")
}
