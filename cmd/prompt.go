/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sorane/t3c/internal/t3/config"
	promptpkg "github.com/sorane/t3c/internal/t3/prompt"
	"github.com/spf13/cobra"
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage prompt templates",
}

// promptListCmd lists available prompt templates
var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available prompt templates",
	Long: `List the prompt templates found in the configured prompt directories.
Templates in later directories shadow same-named templates in earlier ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// Later directories take precedence, so walk them in order and let
		// later entries overwrite earlier ones.
		templates := make(map[string]string)
		for _, promptDir := range cfg.PromptDirs {
			entries, err := os.ReadDir(promptDir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
					continue
				}
				name := strings.TrimSuffix(entry.Name(), ".toml")
				templates[name] = filepath.Join(promptDir, entry.Name())
			}
		}

		if len(templates) == 0 {
			fmt.Println("No prompt templates found.")
			fmt.Println("\nSearched directories:")
			for _, dir := range cfg.PromptDirs {
				fmt.Printf("  %s\n", dir)
			}
			return nil
		}

		names := make([]string, 0, len(templates))
		for name := range templates {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Println(name)
			if verbose {
				fmt.Printf("  %s\n", templates[name])
			}
		}

		return nil
	},
}

// promptShowCmd shows a prompt template
var promptShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a prompt template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		promptFile := args[0]
		if !strings.HasSuffix(promptFile, ".toml") {
			promptFile = promptFile + ".toml"
		}

		// Later directories take precedence over earlier ones
		var promptPath string
		for _, promptDir := range cfg.PromptDirs {
			candidate := filepath.Join(promptDir, promptFile)
			if _, err := os.Stat(candidate); err == nil {
				promptPath = candidate
			}
		}
		if promptPath == "" {
			return fmt.Errorf("prompt template '%s' not found in any of the prompt directories: %v", args[0], cfg.PromptDirs)
		}

		tmpl, err := promptpkg.LoadPrompt(promptPath)
		if err != nil {
			return fmt.Errorf("loading prompt template: %w", err)
		}

		fmt.Printf("Path: %s\n\n", promptPath)
		if tmpl.System != "" {
			fmt.Printf("System:\n%s\n\n", tmpl.System)
		}
		fmt.Printf("User:\n%s\n", tmpl.User)
		if tmpl.Model != nil {
			fmt.Printf("\nModel override: %s\n", *tmpl.Model)
		}
		if tmpl.IncludeSearch != nil {
			fmt.Printf("Search override: %t\n", *tmpl.IncludeSearch)
		}
		if tmpl.ReasoningEffort != nil {
			fmt.Printf("Reasoning override: %s\n", *tmpl.ReasoningEffort)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptShowCmd)
}
