package t3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the address of the t3.chat web service.
	DefaultBaseURL = "https://t3.chat"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

	// refreshPath is the tRPC endpoint whose response rotates the session cookie.
	refreshPath = "/api/trpc/auth.getActiveSessions?batch=1&input=%7B%220%22%3A%7B%22json%22%3A%7B%22includeLocation%22%3Afalse%7D%7D%7D"

	chatPath = "/api/chat"
)

// Credentials holds the two opaque strings the service authenticates with.
// Neither is parsed beyond a non-emptiness check.
type Credentials struct {
	// Cookies is the full Cookie header value captured from a browser session.
	Cookies string
	// ConvexSessionID is the session id the web client sends in chat requests,
	// including the surrounding JSON quotes.
	ConvexSessionID string
}

// Validate checks that both credential strings are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Cookies) == "" {
		return &ValidationError{Field: "cookies", Reason: "cookie string must not be empty"}
	}
	if strings.TrimSpace(c.ConvexSessionID) == "" {
		return &ValidationError{Field: "session_id", Reason: "session id must not be empty"}
	}
	return nil
}

// Client is a session-scoped client for the t3.chat service. It owns the
// credentials, the conversation state, and the thread id assigned on the
// first send. A Client is not safe for concurrent use; callers must
// serialize turns.
type Client struct {
	// BaseURL is the service address; overridable for tests.
	BaseURL string

	cookies         string
	convexSessionID string
	threadID        string
	httpClient      *http.Client
	messages        []Message
	debug           bool
}

// NewClient creates a new client for the given credentials.
func NewClient(creds Credentials) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		BaseURL:         DefaultBaseURL,
		cookies:         creds.Cookies,
		convexSessionID: creds.ConvexSessionID,
		httpClient:      &http.Client{},
	}, nil
}

// SetDebug enables or disables debug output to stderr.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// applyBrowserHeaders sets the header set the web client sends on every
// request. The service rejects requests that look too little like a browser.
func (c *Client) applyBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Origin", c.BaseURL)
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Priority", "u=1, i")
	req.Header.Set("Sec-Ch-Ua", `"Not)A;Brand";v="8", "Chromium";v="138", "Google Chrome";v="138"`)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Cookie", c.cookies)
}

// Init performs the preliminary handshake by requesting the main page with
// the stored cookies. It verifies that the credentials are accepted before
// any chat traffic is sent.
func (c *Client) Init(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return &NetworkError{Op: "init", Err: err}
	}
	c.applyBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "init", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Op: "init", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return &NetworkError{Op: "init", StatusCode: resp.StatusCode}
	}
	return nil
}

// RefreshSession calls the active-sessions endpoint and adopts the rotated
// session cookie the service returns in the x-workos-session header. The
// service rotates this cookie frequently; without the refresh, long-lived
// clients start failing with auth errors.
func (c *Client) RefreshSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+refreshPath, nil)
	if err != nil {
		return &NetworkError{Op: "refresh session", Err: err}
	}
	c.applyBrowserHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Trpc-Accept", "application/jsonl")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "refresh session", Err: err}
	}
	defer resp.Body.Close()

	if session := resp.Header.Get("x-workos-session"); session != "" {
		c.rotateSessionCookie(session)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Op: "refresh session", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return &NetworkError{Op: "refresh session", StatusCode: resp.StatusCode}
	}
	return nil
}

// rotateSessionCookie replaces the wos-session part of the stored cookie
// string with the freshly issued value, keeping all other cookie parts.
func (c *Client) rotateSessionCookie(session string) {
	var parts []string
	for _, part := range strings.Split(c.cookies, ";") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || strings.HasPrefix(trimmed, "wos-session=") {
			continue
		}
		parts = append(parts, trimmed)
	}
	parts = append(parts, "wos-session="+session)
	c.cookies = strings.Join(parts, "; ")
}

// NewConversation resets the thread id and clears all messages.
func (c *Client) NewConversation() {
	c.threadID = ""
	c.messages = nil
}

// AppendMessage appends a message to the conversation without sending it.
func (c *Client) AppendMessage(message Message) {
	c.messages = append(c.messages, message)
}

// Messages returns the messages in the current conversation, in turn order.
func (c *Client) Messages() []Message {
	return c.messages
}

// ClearMessages removes all messages from the current conversation while
// keeping the thread id.
func (c *Client) ClearMessages() {
	c.messages = nil
}

// ThreadID returns the current thread id, or empty if no send has completed.
func (c *Client) ThreadID() string {
	return c.threadID
}

// SetThreadID restores a thread id, e.g. when resuming a persisted session.
func (c *Client) SetThreadID(id string) {
	c.threadID = id
}

// Send sends the conversation to the chat endpoint and returns the
// assistant's response message. If newMessage is non-nil it is appended to
// the conversation first. The full transcript is sent on every call; the
// service keeps no session memory of its own.
func (c *Client) Send(ctx context.Context, model string, newMessage *Message, opts Options) (Message, error) {
	if newMessage != nil {
		c.messages = append(c.messages, *newMessage)
	}

	threadID := c.threadID
	if threadID == "" {
		threadID = uuid.New().String()
	}

	// Validation happens before any network traffic, including the
	// best-effort session refresh.
	body, err := BuildChatRequest(c.messages, model, threadID, uuid.New().String(), c.convexSessionID, opts)
	if err != nil {
		return Message{}, err
	}

	if err := c.RefreshSession(ctx); err != nil && c.debug {
		fmt.Fprintf(os.Stderr, "session refresh failed: %v\n", err)
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return Message{}, &ParseError{Op: "send", Reason: "encoding request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+chatPath, bytes.NewReader(jsonData))
	if err != nil {
		return Message{}, &NetworkError{Op: "send", Err: err}
	}
	c.applyBrowserHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", c.BaseURL+"/chat/"+threadID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Message{}, &NetworkError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, &NetworkError{Op: "send", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Message{}, &AuthError{Op: "send", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		if c.debug {
			fmt.Fprintf(os.Stderr, "chat endpoint returned HTTP %d: %s\n", resp.StatusCode, string(raw))
		}
		return Message{}, &NetworkError{Op: "send", StatusCode: resp.StatusCode}
	}

	if c.debug {
		fmt.Fprintf(os.Stderr, "raw response body (%d bytes)\n", len(raw))
	}

	content, err := ParseResponse(string(raw))
	if err != nil {
		return Message{}, err
	}

	if c.threadID == "" {
		c.threadID = threadID
	}

	var assistant Message
	if content.Kind == ContentImage {
		assistant = NewImageMessage(RoleAssistant, content.URL, content.Base64)
	} else {
		assistant = NewMessage(RoleAssistant, content.Text)
	}
	c.messages = append(c.messages, assistant)
	return assistant, nil
}

// SendWithImageDownload sends a message like Send and, if the response is an
// image referenced only by URL, downloads it. When savePath is non-empty the
// image bytes are also written there.
func (c *Client) SendWithImageDownload(ctx context.Context, model string, newMessage *Message, opts Options, savePath string) (Message, error) {
	response, err := c.Send(ctx, model, newMessage, opts)
	if err != nil {
		return Message{}, err
	}

	if response.Kind == ContentImage && response.Base64 == "" && response.URL != "" {
		base64Data, err := c.DownloadImage(ctx, response.URL, savePath)
		if err != nil {
			return Message{}, err
		}
		response.Base64 = base64Data
		if len(c.messages) > 0 {
			c.messages[len(c.messages)-1].Base64 = base64Data
		}
	} else if response.Kind == ContentImage && response.Base64 != "" && savePath != "" {
		if _, err := c.SaveContent(ctx, response.AsContent(), savePath); err != nil {
			return Message{}, err
		}
	}
	return response, nil
}

// DownloadImage fetches an image URL and returns its bytes base64-encoded.
// When savePath is non-empty the raw bytes are also written to that path,
// creating parent directories as needed.
func (c *Client) DownloadImage(ctx context.Context, url, savePath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &NetworkError{Op: "download image", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Op: "download image", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &NetworkError{Op: "download image", StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Op: "download image", Err: err}
	}

	if savePath != "" {
		if err := writeFile(savePath, data); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// SaveContent persists image content to savePath. An inline base64 payload
// is decoded and written directly; content carrying only a URL is fetched
// first. Content with neither is returned unchanged, as is text content;
// callers that require a file must check the returned content.
func (c *Client) SaveContent(ctx context.Context, content Content, savePath string) (Content, error) {
	if content.Kind != ContentImage || savePath == "" {
		return content, nil
	}

	if content.Base64 != "" {
		data, err := base64.StdEncoding.DecodeString(content.Base64)
		if err != nil {
			return content, &ParseError{Op: "save image", Reason: "invalid base64 payload", Err: err}
		}
		if err := writeFile(savePath, data); err != nil {
			return content, err
		}
		return content, nil
	}

	if content.URL != "" {
		base64Data, err := c.DownloadImage(ctx, content.URL, savePath)
		if err != nil {
			return content, err
		}
		content.Base64 = base64Data
		return content, nil
	}

	// Neither base64 nor URL: nothing to save.
	return content, nil
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
