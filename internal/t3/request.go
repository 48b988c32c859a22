package t3

// ChatRequest represents the request body for the chat endpoint.
type ChatRequest struct {
	Messages          []RequestMessage `json:"messages"`
	ThreadMetadata    ThreadMetadata   `json:"threadMetadata"`
	ResponseMessageID string           `json:"responseMessageId"`
	Model             string           `json:"model"`
	ConvexSessionID   string           `json:"convexSessionId"`
	ModelParams       ModelParams      `json:"modelParams"`
	Preferences       Preferences      `json:"preferences"`
	UserInfo          UserInfo         `json:"userInfo"`
}

// RequestMessage represents a single conversation turn in the request body.
type RequestMessage struct {
	ID          string        `json:"id"`
	Parts       []MessagePart `json:"parts"`
	Role        string        `json:"role"`
	Attachments []any         `json:"attachments"`
}

// MessagePart represents one part of a message (the service only accepts text parts).
type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ThreadMetadata identifies the conversation thread on the service side.
type ThreadMetadata struct {
	ID string `json:"id"`
}

// ModelParams carries the per-request option flags.
type ModelParams struct {
	ReasoningEffort string `json:"reasoningEffort"`
	IncludeSearch   bool   `json:"includeSearch"`
}

// Preferences mirrors the personalization block the web client always sends.
// All fields are left empty.
type Preferences struct {
	Name           string   `json:"name"`
	Occupation     string   `json:"occupation"`
	SelectedTraits []string `json:"selectedTraits"`
	AdditionalInfo string   `json:"additionalInfo"`
}

// UserInfo mirrors the locale block the web client always sends.
type UserInfo struct {
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`
}

// BuildChatRequest assembles the request body for one chat turn from the full
// conversation, the selected model, and the request options. It is a pure
// transformation: it performs no I/O and does not mutate its inputs.
//
// Returns a ValidationError if the model identifier is empty or the
// conversation contains no messages.
func BuildChatRequest(messages []Message, model, threadID, responseMessageID, convexSessionID string, opts Options) (*ChatRequest, error) {
	if model == "" {
		return nil, &ValidationError{Field: "model", Reason: "model identifier must not be empty"}
	}
	if len(messages) == 0 {
		return nil, &ValidationError{Field: "messages", Reason: "conversation must contain at least one message"}
	}

	reqMessages := make([]RequestMessage, 0, len(messages))
	for _, msg := range messages {
		reqMessages = append(reqMessages, RequestMessage{
			ID:          msg.ID,
			Parts:       []MessagePart{{Type: "text", Text: msg.Content}},
			Role:        string(msg.Role),
			Attachments: []any{},
		})
	}

	return &ChatRequest{
		Messages:          reqMessages,
		ThreadMetadata:    ThreadMetadata{ID: threadID},
		ResponseMessageID: responseMessageID,
		Model:             model,
		ConvexSessionID:   convexSessionID,
		ModelParams: ModelParams{
			ReasoningEffort: string(opts.ReasoningEffort),
			IncludeSearch:   opts.IncludeSearch,
		},
		Preferences: Preferences{
			SelectedTraits: []string{},
		},
		UserInfo: UserInfo{
			Timezone: "America/New_York",
			Locale:   "en-US",
		},
	}, nil
}
