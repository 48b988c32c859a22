package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/sorane/t3c/internal/t3"
)

// Session represents a persisted conversation with the service. Besides the
// transcript it records the backend thread id, so resuming a session keeps
// the server-side thread association.
type Session struct {
	ID              string       `json:"id"`               // UUID v4
	ThreadID        string       `json:"thread_id"`        // Backend thread id, set after the first send
	Name            string       `json:"name"`             // Optional session name (empty by default)
	TemplateName    string       `json:"template_name"`    // Prompt template name (reference info, can be empty)
	Model           string       `json:"model"`            // Model id
	ReasoningEffort string       `json:"reasoning_effort"` // low, medium, or high
	IncludeSearch   bool         `json:"include_search"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Messages        []t3.Message `json:"messages"`
}

// NewSession creates a new session for the given model and options.
func NewSession(model string, opts t3.Options) *Session {
	now := time.Now()
	return &Session{
		ID:              uuid.New().String(),
		Model:           model,
		ReasoningEffort: string(opts.ReasoningEffort),
		IncludeSearch:   opts.IncludeSearch,
		CreatedAt:       now,
		UpdatedAt:       now,
		Messages:        []t3.Message{},
	}
}

// AddMessage appends a message to the session transcript.
func (s *Session) AddMessage(message t3.Message) {
	s.Messages = append(s.Messages, message)
	s.UpdatedAt = time.Now()
}

// Options returns the request options recorded in the session.
func (s *Session) Options() t3.Options {
	opts := t3.NewOptions().WithSearch(s.IncludeSearch)
	if effort, err := t3.ParseReasoningEffort(s.ReasoningEffort); err == nil {
		opts = opts.WithReasoningEffort(effort)
	}
	return opts
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// GetDisplayName returns the display name for the session
// If name is set, returns the name. Otherwise, returns the short ID.
func (s *Session) GetDisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.GetShortID()
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}
