package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sorane/t3c/internal/t3"
)

// Overrides carries the optional per-template settings a prompt file may
// declare.
type Overrides struct {
	Model           *string
	IncludeSearch   *bool
	ReasoningEffort *string
}

// FormatMessage formats the message with the named prompt template. The
// backend has no system role, so the template's system text is folded into
// the user turn. Returns the formatted message and any template overrides.
// An empty promptName passes the message through unchanged.
func FormatMessage(message string, promptName string, promptDirs []string, args []string) (string, Overrides, error) {
	if promptName == "" {
		return message, Overrides{}, nil
	}

	// Add .toml extension if not present
	promptFile := promptName
	if !strings.HasSuffix(promptFile, ".toml") {
		promptFile = promptFile + ".toml"
	}

	// Search for prompt file in all directories; later directories take
	// precedence over earlier ones.
	var promptPath string
	var found bool
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, promptFile)
		if _, err := os.Stat(candidatePath); err == nil {
			promptPath = candidatePath
			found = true
		}
	}

	if !found {
		return "", Overrides{}, fmt.Errorf("prompt file '%s' not found in any of the prompt directories: %v", promptFile, promptDirs)
	}

	// Load prompt template
	promptTemplate, err := LoadPrompt(promptPath)
	if err != nil {
		return "", Overrides{}, fmt.Errorf("error loading prompt file: %v", err)
	}

	// Process command line arguments
	argMap, err := processArgs(args)
	if err != nil {
		return "", Overrides{}, fmt.Errorf("error processing arguments: %v", err)
	}

	// Create a map of all replacements
	replacements := make(map[string]string)
	replacements["input"] = message
	for key, value := range argMap {
		replacements[key] = value
	}

	// Format both parts with all replacements
	systemText := promptTemplate.System
	userText := promptTemplate.User
	for key, value := range replacements {
		placeholder := fmt.Sprintf("{{%s}}", key)
		systemText = strings.ReplaceAll(systemText, placeholder, value)
		userText = strings.ReplaceAll(userText, placeholder, value)
	}

	// Validate reasoning effort if specified in the template
	if promptTemplate.ReasoningEffort != nil {
		if _, err := t3.ParseReasoningEffort(*promptTemplate.ReasoningEffort); err != nil {
			return "", Overrides{}, fmt.Errorf("invalid reasoning effort in prompt template: %w", err)
		}
	}

	overrides := Overrides{
		Model:           promptTemplate.Model,
		IncludeSearch:   promptTemplate.IncludeSearch,
		ReasoningEffort: promptTemplate.ReasoningEffort,
	}

	// Fold the system text into the single user turn
	formatted := userText
	if systemText != "" {
		formatted = systemText + "\n\n" + userText
	}
	return formatted, overrides, nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		// Handle quoted values
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		// Split on first unescaped colon
		var key, value string
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key = strings.TrimSpace(parts[0])
		value = strings.TrimSpace(parts[1])

		// Remove escape characters from value
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		result[key] = value
	}
	return result, nil
}
