/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sorane/t3c/internal/t3/config"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default configuration file at $HOME/.config/t3c/config.toml.

The generated file references the T3C_COOKIES and T3C_SESSION_ID environment
variables for the credentials. To capture them, open t3.chat in a browser,
copy the Cookie header of any request from the developer tools, and copy the
convex session id from local storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}

		configDir := filepath.Join(home, ".config", "t3c")
		configPath := filepath.Join(configDir, "config.toml")

		// Refuse to overwrite an existing config unless forced
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists: %s\n\nUse --force to overwrite it.", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		promptDir := filepath.Join(configDir, "prompts")
		if err := os.MkdirAll(promptDir, 0755); err != nil {
			return fmt.Errorf("creating prompt directory: %w", err)
		}

		defaultConfig := config.NewDefaultConfig(promptDir)

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("creating config file: %w", err)
		}
		defer f.Close()

		encoder := toml.NewEncoder(f)
		if err := encoder.Encode(defaultConfig); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Printf("Created config file: %s\n", configPath)
		fmt.Printf("Created prompt directory: %s\n", promptDir)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Export T3C_COOKIES with the Cookie header from a logged-in browser session")
		fmt.Println("  2. Export T3C_SESSION_ID with the convex session id from local storage")
		fmt.Println("  3. Run: t3c chat \"hello\"")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
