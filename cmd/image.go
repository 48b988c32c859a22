/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sorane/t3c/internal/t3"
	"github.com/sorane/t3c/internal/t3/config"
	"github.com/spf13/cobra"
)

var (
	imageModel  string
	imageOutput string
)

// imageCmd represents the image command
var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Generate an image and save it to disk",
	Long: `Generate an image from a text prompt using an image-capable model
and save the result to a file.

The service returns generated images either inline or as a URL; in the
latter case the image is downloaded automatically. Run 't3c models' to see
which models support image generation.

If no prompt is provided as an argument, it reads from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// Get prompt from arguments or stdin
		var prompt string
		if len(args) > 0 {
			prompt = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			prompt = strings.TrimSpace(string(input))
		}
		if prompt == "" {
			return fmt.Errorf("no prompt provided")
		}

		if cmd.Flags().Changed("model") {
			cfg.Model = imageModel
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		opts, err := cfg.Options()
		if err != nil {
			return err
		}

		userMessage := t3.NewMessage(t3.RoleUser, prompt)
		response, err := client.SendWithImageDownload(cmd.Context(), cfg.Model, &userMessage, opts, imageOutput)
		if err != nil {
			return fmt.Errorf("image request failed: %w", err)
		}

		if response.Kind != t3.ContentImage {
			// The model answered with text instead of an image
			fmt.Println(response.Content)
			fmt.Fprintf(os.Stderr, "\nThe model returned text instead of an image. Pick an image-capable model with -m (see 't3c models').\n")
			return nil
		}

		fmt.Printf("Image saved to %s\n", imageOutput)
		if response.URL != "" && verbose {
			fmt.Fprintf(os.Stderr, "Source URL: %s\n", response.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().StringVarP(&imageModel, "model", "m", "gpt-image-1", "Image-capable model id")
	imageCmd.Flags().StringVarP(&imageOutput, "output", "o", "image.png", "Path to save the generated image")
}
