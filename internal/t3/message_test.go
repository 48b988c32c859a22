package t3

import "testing"

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "hello")
	if msg.ID == "" {
		t.Error("NewMessage() produced empty id")
	}
	if msg.Role != RoleUser || msg.Content != "hello" || msg.Kind != ContentText {
		t.Errorf("NewMessage() = %+v", msg)
	}

	other := NewMessage(RoleUser, "hello")
	if msg.ID == other.ID {
		t.Error("NewMessage() produced duplicate ids")
	}
}

func TestNewImageMessage(t *testing.T) {
	msg := NewImageMessage(RoleAssistant, "https://cdn.example.com/img.png", "aGVsbG8=")
	if msg.Kind != ContentImage {
		t.Errorf("kind = %v, want ContentImage", msg.Kind)
	}
	if msg.URL != "https://cdn.example.com/img.png" || msg.Base64 != "aGVsbG8=" {
		t.Errorf("NewImageMessage() = %+v", msg)
	}
	// The URL doubles as the displayable content
	if msg.Content != msg.URL {
		t.Errorf("content = %q, want url", msg.Content)
	}
}

func TestAsContent(t *testing.T) {
	text := NewMessage(RoleAssistant, "hi")
	if got := text.AsContent(); got.Kind != ContentText || got.Text != "hi" {
		t.Errorf("AsContent() = %+v", got)
	}

	image := NewImageMessage(RoleAssistant, "https://cdn.example.com/img.png", "")
	if got := image.AsContent(); got.Kind != ContentImage || got.URL != image.URL {
		t.Errorf("AsContent() = %+v", got)
	}
}

func TestContentIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    bool
	}{
		{name: "empty text", content: Content{Kind: ContentText}, want: true},
		{name: "text", content: Content{Kind: ContentText, Text: "x"}, want: false},
		{name: "empty image", content: Content{Kind: ContentImage}, want: true},
		{name: "image with url", content: Content{Kind: ContentImage, URL: "u"}, want: false},
		{name: "image with base64", content: Content{Kind: ContentImage, Base64: "b"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
