/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sorane/t3c/internal/t3"
	"github.com/sorane/t3c/internal/t3/config"
	"github.com/sorane/t3c/internal/t3/session"
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
	Long: `Manage persisted chat sessions.

Sessions store the conversation transcript and the backend thread id, so
resuming a session continues the same server-side thread. Session files are
stored as JSON in the config directory.`,
}

// sessionsListCmd lists all sessions
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := session.ListSessions()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			fmt.Println("\nCreate a new session with: t3c chat --new-session \"your message\"")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODEL\tMESSAGES\tUPDATED")
		for _, sess := range sessions {
			name := sess.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				sess.GetShortID(),
				name,
				sess.Model,
				sess.MessageCount(),
				sess.UpdatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()

		return nil
	},
}

// sessionsShowCmd shows a session transcript
var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.FindSessionByPrefix(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Session: %s\n", sess.GetDisplayName())
		fmt.Printf("ID: %s\n", sess.ID)
		if sess.ThreadID != "" {
			fmt.Printf("Thread: %s\n", sess.ThreadID)
		}
		fmt.Printf("Model: %s\n", sess.Model)
		fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Messages: %d\n", sess.MessageCount())
		fmt.Println()

		for _, msg := range sess.Messages {
			switch msg.Kind {
			case t3.ContentImage:
				fmt.Printf("[%s] (image) %s\n", msg.Role, msg.URL)
			default:
				fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
			}
			fmt.Println()
		}

		return nil
	},
}

// sessionsDeleteCmd deletes a session
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.FindSessionByPrefix(args[0])
		if err != nil {
			return err
		}

		if err := session.DeleteSession(sess.ID); err != nil {
			return err
		}

		fmt.Printf("Deleted session: %s\n", sess.GetDisplayName())
		return nil
	},
}

// sessionsRenameCmd renames a session
var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <session-id> <new-name>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.FindSessionByPrefix(args[0])
		if err != nil {
			return err
		}

		oldName := sess.GetDisplayName()
		sess.Name = args[1]
		if err := session.SaveSession(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Renamed session %s to %q\n", oldName, sess.Name)
		return nil
	},
}

// sessionsClearCmd clears a session transcript
var sessionsClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Clear a session transcript",
	Long: `Clear a session transcript while keeping the session itself.

The thread id is also reset, so the next message starts a fresh backend
thread.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.FindSessionByPrefix(args[0])
		if err != nil {
			return err
		}

		count := sess.MessageCount()
		sess.Messages = []t3.Message{}
		sess.ThreadID = ""
		if err := session.SaveSession(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Cleared %d messages from session %s\n", count, sess.GetDisplayName())
		return nil
	},
}

// sessionsPruneCmd deletes old sessions
var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions older than the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if cfg.SessionRetentionDays <= 0 {
			fmt.Println("Session pruning is disabled (session_retention_days = 0).")
			return nil
		}

		deleted, err := session.PruneSessions(cfg.SessionRetentionDays)
		if err != nil {
			return fmt.Errorf("pruning sessions: %w", err)
		}

		if deleted == 0 {
			fmt.Printf("No sessions older than %d days.\n", cfg.SessionRetentionDays)
		} else {
			fmt.Printf("Deleted %d session(s) older than %d days.\n", deleted, cfg.SessionRetentionDays)
		}
		return nil
	},
}

// sessionsStartCmd starts an interactive session
var sessionsStartCmd = &cobra.Command{
	Use:   "start [session-id]",
	Short: "Start an interactive chat session",
	Long: `Start an interactive multi-turn chat session.

With a session id argument, resumes that session. Without one, creates a
new session. Type your messages at the prompt; enter 'exit' or 'quit' (or
press Ctrl-D) to leave. The transcript is saved after every turn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var sess *session.Session
		if len(args) > 0 {
			sess, err = session.FindSessionByPrefix(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Resuming session %s (%s, %d messages)\n",
				sess.GetDisplayName(), sess.Model, sess.MessageCount())
		} else {
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			sess = session.NewSession(cfg.Model, opts)
			fmt.Printf("Started new session %s (%s)\n", sess.GetShortID(), sess.Model)
		}
		fmt.Println("Type 'exit' or 'quit' to leave.")
		fmt.Println()

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		// Verify the credentials before entering the loop
		if err := client.Init(cmd.Context()); err != nil {
			return fmt.Errorf("connecting to service: %w", err)
		}

		// Restore the conversation and thread association
		client.SetThreadID(sess.ThreadID)
		for _, msg := range sess.Messages {
			client.AppendMessage(msg)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				// EOF (Ctrl-D)
				fmt.Println()
				break
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				break
			}

			userMessage := t3.NewMessage(t3.RoleUser, input)
			response, err := client.Send(cmd.Context(), sess.Model, &userMessage, sess.Options())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}

			sess.AddMessage(userMessage)
			sess.AddMessage(response)
			sess.ThreadID = client.ThreadID()
			if err := session.SaveSession(sess); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save session: %v\n", err)
			}

			fmt.Println(response.Content)
			fmt.Println()
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		fmt.Printf("Session saved: %s\n", sess.GetShortID())
		fmt.Printf("Resume with: t3c sessions start %s\n", sess.GetShortID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)
	sessionsCmd.AddCommand(sessionsStartCmd)
}
