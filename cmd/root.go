/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sorane/t3c/internal/t3/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "t3c",
	Short: "A CLI client for the t3.chat web service",
	Long: `t3c is an unofficial command-line client for the t3.chat web service.
It sends chat prompts to the service's model backends using cookies captured
from a browser session, and can generate and download images.
You can configure the tool using a TOML configuration file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/t3c/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix and automatic env
	viper.SetEnvPrefix("T3C")
	viper.AutomaticEnv()

	// Determine config directory for user config
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "t3c")

	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "prompts"))

	// Note: Later directories in the array take precedence over earlier ones
	defaultPromptDirs := []string{
		"/usr/share/t3c/prompts",
		"/usr/local/share/t3c/prompts",
		filepath.Join(userConfigDir, "prompts"),
	}

	// Set default values
	viper.SetDefault("model", defaultConfig.Model)
	viper.SetDefault("reasoning_effort", defaultConfig.ReasoningEffort)
	viper.SetDefault("include_search", defaultConfig.IncludeSearch)
	viper.SetDefault("prompt_dirs", defaultPromptDirs)
	viper.SetDefault("model_cache_ttl_minutes", defaultConfig.ModelCacheTTLMinutes)
	viper.SetDefault("session_message_threshold", defaultConfig.SessionMessageThreshold)
	viper.SetDefault("session_retention_days", defaultConfig.SessionRetentionDays)

	// Bind environment variables
	viper.BindEnv("cookies", "T3C_COOKIES")
	viper.BindEnv("session_id", "T3C_SESSION_ID")
	viper.BindEnv("model", "T3C_MODEL")
	viper.BindEnv("include_search", "T3C_INCLUDE_SEARCH")
	viper.BindEnv("reasoning_effort", "T3C_REASONING_EFFORT")
	viper.BindEnv("session_message_threshold", "T3C_SESSION_MESSAGE_THRESHOLD")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Load system-wide config first (lower priority)
		systemConfigPaths := []string{
			"/etc/t3c",
			"/usr/local/etc/t3c",
		}

		systemConfigLoaded := false
		for _, path := range systemConfigPaths {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		// Try to read system-wide config
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			// Merge user config on top of system config
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			} else if verbose {
				fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
			}
		} else {
			// No system config, just read user config
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				}
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  T3C_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  T3C_REASONING_EFFORT:", viper.GetString("reasoning_effort"))
		fmt.Fprintln(os.Stderr, "  T3C_INCLUDE_SEARCH:", viper.GetBool("include_search"))
		fmt.Fprintln(os.Stderr, "  T3C_PROMPT_DIRS:", viper.GetStringSlice("prompt_dirs"))
	}
}
