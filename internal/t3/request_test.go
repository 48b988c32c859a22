package t3

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestBuildChatRequest(t *testing.T) {
	messages := []Message{
		MessageWithID("id-1", RoleUser, "first"),
		MessageWithID("id-2", RoleAssistant, "second"),
		MessageWithID("id-3", RoleUser, "third"),
	}

	req, err := BuildChatRequest(messages, "gemini-2.5-flash", "thread-1", "resp-1", `"session-1"`, NewOptions())
	if err != nil {
		t.Fatalf("BuildChatRequest() error = %v", err)
	}

	if len(req.Messages) != 3 {
		t.Fatalf("BuildChatRequest() produced %d messages, want 3", len(req.Messages))
	}

	// Turn order and roles must be preserved
	wantOrder := []struct {
		id   string
		role string
		text string
	}{
		{"id-1", "user", "first"},
		{"id-2", "assistant", "second"},
		{"id-3", "user", "third"},
	}
	for i, want := range wantOrder {
		got := req.Messages[i]
		if got.ID != want.id || got.Role != want.role {
			t.Errorf("message %d = (%s, %s), want (%s, %s)", i, got.ID, got.Role, want.id, want.role)
		}
		if len(got.Parts) != 1 || got.Parts[0].Type != "text" || got.Parts[0].Text != want.text {
			t.Errorf("message %d parts = %+v, want single text part %q", i, got.Parts, want.text)
		}
	}

	if req.ThreadMetadata.ID != "thread-1" {
		t.Errorf("thread id = %q, want %q", req.ThreadMetadata.ID, "thread-1")
	}
	if req.ResponseMessageID != "resp-1" {
		t.Errorf("response message id = %q, want %q", req.ResponseMessageID, "resp-1")
	}
	if req.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", req.Model)
	}
	if req.ConvexSessionID != `"session-1"` {
		t.Errorf("convex session id = %q", req.ConvexSessionID)
	}
	if req.UserInfo.Timezone != "America/New_York" || req.UserInfo.Locale != "en-US" {
		t.Errorf("user info = %+v", req.UserInfo)
	}
}

func TestBuildChatRequestOptions(t *testing.T) {
	messages := []Message{NewMessage(RoleUser, "hi")}

	opts := NewOptions().WithReasoningEffort(ReasoningHigh).WithSearch(true)
	req, err := BuildChatRequest(messages, "m", "t", "r", "s", opts)
	if err != nil {
		t.Fatalf("BuildChatRequest() error = %v", err)
	}

	if req.ModelParams.ReasoningEffort != "high" {
		t.Errorf("reasoning effort = %q, want %q", req.ModelParams.ReasoningEffort, "high")
	}
	if !req.ModelParams.IncludeSearch {
		t.Errorf("include search = false, want true")
	}
}

func TestBuildChatRequestValidation(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		model    string
	}{
		{name: "empty model", messages: []Message{NewMessage(RoleUser, "hi")}, model: ""},
		{name: "empty conversation", messages: nil, model: "gemini-2.5-flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildChatRequest(tt.messages, tt.model, "t", "r", "s", NewOptions())
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("BuildChatRequest() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestBuildChatRequestDoesNotMutate(t *testing.T) {
	messages := []Message{MessageWithID("id-1", RoleUser, "original")}

	req, err := BuildChatRequest(messages, "m", "t", "r", "s", NewOptions())
	if err != nil {
		t.Fatalf("BuildChatRequest() error = %v", err)
	}
	req.Messages[0].Parts[0].Text = "changed"

	if messages[0].Content != "original" {
		t.Errorf("input message mutated: %q", messages[0].Content)
	}
}

func TestChatRequestWireShape(t *testing.T) {
	messages := []Message{MessageWithID("id-1", RoleUser, "hi")}
	req, err := BuildChatRequest(messages, "m", "t", "r", "s", NewOptions())
	if err != nil {
		t.Fatalf("BuildChatRequest() error = %v", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	body := string(data)

	// Empty collections must serialize as [], not null; the service rejects
	// null attachments and traits.
	for _, want := range []string{`"attachments":[]`, `"selectedTraits":[]`} {
		if !strings.Contains(body, want) {
			t.Errorf("request body missing %s:\n%s", want, body)
		}
	}
	for _, key := range []string{`"threadMetadata"`, `"responseMessageId"`, `"convexSessionId"`, `"modelParams"`, `"reasoningEffort"`, `"includeSearch"`, `"userInfo"`} {
		if !strings.Contains(body, key) {
			t.Errorf("request body missing key %s", key)
		}
	}
}
