/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sorane/t3c/internal/t3"
	"github.com/sorane/t3c/internal/t3/config"
	"github.com/sorane/t3c/internal/t3/registry"
	"github.com/spf13/cobra"
)

var (
	modelsOffline bool
	modelsLong    bool
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Long: `List the models currently offered by the t3.chat web service.

The list is scraped from the web application's delivered assets, so it
reflects what the service actually serves rather than a hardcoded table.
Results are cached in memory for the configured TTL.

With --offline, a built-in snapshot roster is printed instead of fetching
from the service. The snapshot may lag behind the live list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var models []t3.ModelInfo
		if modelsOffline {
			models = registry.FallbackModels()
		} else {
			reg := newRegistry(cfg)
			models, err = reg.Models(cmd.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to fetch live model list: %v\n", err)
				fmt.Fprintln(os.Stderr, "Falling back to the built-in snapshot roster.")
				models = registry.FallbackModels()
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDEVELOPER\tCAPABILITIES")
		for _, m := range models {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Developer, capabilitySummary(m))
		}
		w.Flush()

		if modelsLong {
			fmt.Println()
			for _, m := range models {
				fmt.Printf("%s (%s)\n", m.Name, m.ID)
				if m.ShortDescription != "" {
					fmt.Printf("  %s\n", m.ShortDescription)
				}
				if m.FullDescription != "" && m.FullDescription != m.ShortDescription {
					fmt.Printf("  %s\n", m.FullDescription)
				}
			}
		}

		return nil
	},
}

// capabilitySummary renders the capability flags as a short comma list.
func capabilitySummary(m t3.ModelInfo) string {
	var caps []string
	if m.SupportsImages {
		caps = append(caps, "images")
	}
	if m.SupportsSearch {
		caps = append(caps, "search")
	}
	if m.SupportsEffort {
		caps = append(caps, "reasoning")
	}
	if m.RequiresPro {
		caps = append(caps, "pro")
	}
	if m.Premium {
		caps = append(caps, "premium")
	}
	if len(caps) == 0 {
		return "-"
	}
	summary := caps[0]
	for _, c := range caps[1:] {
		summary += ", " + c
	}
	return summary
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().BoolVar(&modelsOffline, "offline", false, "Print the built-in snapshot roster without contacting the service")
	modelsCmd.Flags().BoolVarP(&modelsLong, "long", "l", false, "Include model descriptions")
}
