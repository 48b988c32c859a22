/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/sorane/t3c/internal/version"
	"github.com/spf13/cobra"
)

var versionFull bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		if versionFull {
			fmt.Println(version.Info())
		} else {
			fmt.Println(version.Short())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionFull, "full", false, "Print full build information")
}
