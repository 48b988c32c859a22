// Package t3 provides the core client for the t3.chat web service.
// It holds the conversation state, builds chat requests, and exposes the
// typed content model shared by the wire parser and the CLI commands.
package t3

import (
	"github.com/google/uuid"
)

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentKind identifies the kind of content carried by a message or response.
type ContentKind int

const (
	// ContentText is plain assistant or user text.
	ContentText ContentKind = iota
	// ContentImage is a generated image, referenced by URL and/or inline base64 data.
	ContentImage
)

// Content is the result of one completed request: either text or an image
// descriptor. For images, URL and Base64 are each optional; at least one is
// set when the kind is ContentImage.
type Content struct {
	Kind   ContentKind
	Text   string
	URL    string
	Base64 string
}

// IsEmpty reports whether the content carries neither text nor image data.
func (c Content) IsEmpty() bool {
	return c.Kind == ContentText && c.Text == "" || c.Kind == ContentImage && c.URL == "" && c.Base64 == ""
}

// Message represents a single message in a conversation.
type Message struct {
	ID      string      `json:"id"`
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Kind    ContentKind `json:"kind"`
	URL     string      `json:"url,omitempty"`
	Base64  string      `json:"base64,omitempty"`
}

// NewMessage creates a new text message with a randomly generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
		Kind:    ContentText,
	}
}

// NewImageMessage creates a new image message with a randomly generated ID.
// The URL doubles as the plain content so text-only consumers still have
// something to display.
func NewImageMessage(role Role, url, base64Data string) Message {
	return Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: url,
		Kind:    ContentImage,
		URL:     url,
		Base64:  base64Data,
	}
}

// MessageWithID creates a new text message with a specific ID.
func MessageWithID(id string, role Role, content string) Message {
	return Message{
		ID:      id,
		Role:    role,
		Content: content,
		Kind:    ContentText,
	}
}

// AsContent returns the message body as a Content value.
func (m Message) AsContent() Content {
	if m.Kind == ContentImage {
		return Content{Kind: ContentImage, URL: m.URL, Base64: m.Base64}
	}
	return Content{Kind: ContentText, Text: m.Content}
}
