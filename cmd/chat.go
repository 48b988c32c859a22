/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sorane/t3c/internal/t3"
	"github.com/sorane/t3c/internal/t3/config"
	promptpkg "github.com/sorane/t3c/internal/t3/prompt"
	"github.com/sorane/t3c/internal/t3/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	model           string
	promptName      string
	argFlags        []string
	useEditor       bool
	includeSearch   bool
	reasoningEffort string
	sessionID       string
	newSession      bool
	sessionName     string
	ignoreThreshold bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message to the service",
	Long: `Send a message to the t3.chat service and print the response.
This command performs a one-time API call with the selected model.

For interactive multi-turn conversations, use 't3c sessions start' instead.

If no message is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

You can specify the model and prompt template using flags.
If not specified, the values will be taken from the configuration file.

The prompt file should be in TOML format with the following structure:
system = "System prompt with optional {{input}} placeholder"
user = "User prompt with optional {{input}} placeholder"
model = "optional-model-id"       # Optional: overrides the default model for this prompt
include_search = true             # Optional: enables web search for this prompt
reasoning_effort = "high"         # Optional: overrides the reasoning effort for this prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration from file
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// Validate session flags
		if sessionID != "" && newSession {
			return fmt.Errorf("cannot specify both --session and --new-session")
		}

		// Cannot use prompt with existing session
		if sessionID != "" && promptName != "" {
			return fmt.Errorf("cannot use --prompt with existing session")
		}

		// Get message from arguments, editor, or stdin
		var message string
		if useEditor {
			message, err = getMessageFromEditor()
			if err != nil {
				return fmt.Errorf("getting message from editor: %w", err)
			}
		} else if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			// Read from stdin
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = strings.TrimSpace(string(input))
		}

		if sessionID != "" {
			// Continue an existing session
			sess, err := session.FindSessionByPrefix(sessionID)
			if err != nil {
				return fmt.Errorf("finding session: %w", err)
			}

			// Check message threshold
			threshold := cfg.SessionMessageThreshold
			if threshold > 0 && sess.MessageCount() >= threshold && !ignoreThreshold {
				fmt.Fprintf(os.Stderr, "\nWarning: Session %s has %d messages (threshold: %d).\n",
					sess.GetShortID(), sess.MessageCount(), threshold)
				fmt.Fprintf(os.Stderr, "Long sessions may impact performance and rate limits.\n")
				fmt.Fprintf(os.Stderr, "\nOptions:\n")
				fmt.Fprintf(os.Stderr, "  1. Continue anyway with --ignore-threshold flag\n")
				fmt.Fprintf(os.Stderr, "  2. Start a new session: t3c chat --new-session\n\n")

				// Ask for confirmation
				fmt.Fprint(os.Stderr, "Continue with this session? [y/N]: ")
				var response string
				fmt.Scanln(&response)

				if response != "y" && response != "Y" {
					fmt.Fprintln(os.Stderr, "Cancelled.")
					return nil
				}
			}

			if verbose {
				fmt.Fprintf(os.Stderr, "Continuing session: %s\n", sess.GetShortID())
				fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
			}

			return runSessionTurn(cmd, cfg, sess, message, false)
		}

		// Format message with prompt template if specified
		formattedMessage, overrides, err := promptpkg.FormatMessage(message, promptName, cfg.PromptDirs, argFlags)
		if err != nil {
			return fmt.Errorf("formatting message with prompt: %w", err)
		}

		// Apply model with priority: flag > env > prompt template > config file
		envModel := os.Getenv("T3C_MODEL")
		if cmd.Flags().Changed("model") {
			cfg.Model = model
		} else if envModel != "" {
			cfg.Model = envModel
		} else if overrides.Model != nil {
			cfg.Model = *overrides.Model
		}

		// Apply option overrides from the template unless flags say otherwise
		if overrides.IncludeSearch != nil && !cmd.Flags().Changed("search") {
			cfg.IncludeSearch = *overrides.IncludeSearch
		}
		if overrides.ReasoningEffort != nil && !cmd.Flags().Changed("reasoning") {
			cfg.ReasoningEffort = *overrides.ReasoningEffort
		}
		applyOptionFlags(cmd, cfg)

		if newSession {
			// Create new session
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			sess := session.NewSession(cfg.Model, opts)
			sess.Name = sessionName
			sess.TemplateName = promptName

			if verbose {
				fmt.Fprintf(os.Stderr, "Creating new session: %s\n", sess.GetShortID())
				fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
			}

			return runSessionTurn(cmd, cfg, sess, formattedMessage, true)
		}

		// Single-shot mode (no session)
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		opts, err := cfg.Options()
		if err != nil {
			return err
		}

		userMessage := t3.NewMessage(t3.RoleUser, formattedMessage)
		response, err := client.Send(cmd.Context(), cfg.Model, &userMessage, opts)
		if err != nil {
			return fmt.Errorf("chat request failed: %w", err)
		}
		fmt.Println(response.Content)
		return nil
	},
}

// applyOptionFlags layers the option flags and environment on top of the
// loaded config, with priority: flag > env > config.
func applyOptionFlags(cmd *cobra.Command, cfg *config.Config) {
	envSearch := os.Getenv("T3C_INCLUDE_SEARCH")
	if cmd.Flags().Changed("search") {
		cfg.IncludeSearch = includeSearch
	} else if envSearch != "" {
		cfg.IncludeSearch = envSearch == "true" || envSearch == "1"
	}

	envEffort := os.Getenv("T3C_REASONING_EFFORT")
	if cmd.Flags().Changed("reasoning") {
		cfg.ReasoningEffort = reasoningEffort
	} else if envEffort != "" {
		cfg.ReasoningEffort = envEffort
	}
}

// runSessionTurn sends one turn inside a session and persists the result.
func runSessionTurn(cmd *cobra.Command, cfg *config.Config, sess *session.Session, message string, isNewSession bool) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	// Restore the conversation and thread association
	client.SetThreadID(sess.ThreadID)
	for _, msg := range sess.Messages {
		client.AppendMessage(msg)
	}

	userMessage := t3.NewMessage(t3.RoleUser, message)
	response, err := client.Send(cmd.Context(), sess.Model, &userMessage, sess.Options())
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}

	// Record both turns and the thread id assigned by the first send
	sess.AddMessage(userMessage)
	sess.AddMessage(response)
	sess.ThreadID = client.ThreadID()

	// Save session
	if err := session.SaveSession(sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	// Print response
	fmt.Println(response.Content)

	// If new session, print session info
	if isNewSession {
		fmt.Fprintf(os.Stderr, "\nSession created: %s\n", sess.GetShortID())
		sessionDir, _ := session.GetSessionDir()
		fmt.Fprintf(os.Stderr, "Path: %s/%s.json\n", sessionDir, sess.ID)
		fmt.Fprintf(os.Stderr, "\nNext time, use:\n  t3c chat -s %s \"your message\"\n", sess.GetShortID())
		fmt.Fprintf(os.Stderr, "For interactive mode, use:\n  t3c sessions start %s\n", sess.GetShortID())
	}

	return nil
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "t3c-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	// Open the editor
	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %v", err)
	}

	// Read the edited content
	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %v", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	// Add command options
	chatCmd.Flags().StringVarP(&model, "model", "m", viper.GetString("model"), "Model id to use (e.g., gemini-2.5-flash)")
	chatCmd.Flags().StringVarP(&promptName, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	chatCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	chatCmd.Flags().BoolVar(&includeSearch, "search", false, "Enable web search for real-time information")
	chatCmd.Flags().StringVar(&reasoningEffort, "reasoning", "", "Reasoning effort: low, medium, or high")

	// Session flags
	chatCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (short or full UUID, or 'latest' for most recent session)")
	chatCmd.Flags().BoolVarP(&newSession, "new-session", "n", false, "Create a new session")
	chatCmd.Flags().StringVar(&sessionName, "session-name", "", "Name for the new session (optional)")
	chatCmd.Flags().BoolVar(&ignoreThreshold, "ignore-threshold", false, "Ignore session message threshold warning")
}
