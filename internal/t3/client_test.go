package t3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Credentials{
		Cookies:         "wos-session=abc; other=1",
		ConvexSessionID: `"session-1"`,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.BaseURL = baseURL
	return client
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "empty cookies", creds: Credentials{ConvexSessionID: `"s"`}},
		{name: "empty session id", creds: Credentials{Cookies: "wos-session=abc"}},
		{name: "whitespace only", creds: Credentials{Cookies: "  ", ConvexSessionID: `"s"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.creds)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("NewClient() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestSend(t *testing.T) {
	var gotRequest ChatRequest
	var gotCookie, gotContentType string

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte(`data: {"type":"text-delta","delta":"Hello"}` + "\n" +
			`data: {"type":"text-delta","delta":" there"}` + "\n" +
			`data: [DONE]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	userMessage := NewMessage(RoleUser, "hi")
	response, err := client.Send(context.Background(), "gemini-2.5-flash", &userMessage, NewOptions())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if response.Role != RoleAssistant || response.Content != "Hello there" {
		t.Errorf("Send() = %+v", response)
	}

	// The full transcript (user turn plus assistant turn) is retained
	if len(client.Messages()) != 2 {
		t.Errorf("Messages() has %d entries, want 2", len(client.Messages()))
	}

	// The thread id from the request is adopted after a successful send
	if client.ThreadID() == "" {
		t.Error("ThreadID() is empty after send")
	}
	if gotRequest.ThreadMetadata.ID != client.ThreadID() {
		t.Errorf("request thread id %q != adopted thread id %q", gotRequest.ThreadMetadata.ID, client.ThreadID())
	}

	if gotRequest.Model != "gemini-2.5-flash" {
		t.Errorf("request model = %q", gotRequest.Model)
	}
	if gotRequest.ConvexSessionID != `"session-1"` {
		t.Errorf("request convex session id = %q", gotRequest.ConvexSessionID)
	}
	if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Parts[0].Text != "hi" {
		t.Errorf("request messages = %+v", gotRequest.Messages)
	}

	if !strings.Contains(gotCookie, "wos-session=") {
		t.Errorf("request cookie = %q, want wos-session part", gotCookie)
	}
	if gotContentType != "application/json" {
		t.Errorf("request content type = %q", gotContentType)
	}
}

func TestSendMultiTurn(t *testing.T) {
	var lastRequest ChatRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&lastRequest)
		w.Write([]byte(`data: {"type":"text-delta","delta":"reply"}` + "\n" + `data: [DONE]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	first := NewMessage(RoleUser, "first")
	if _, err := client.Send(ctx, "m", &first, NewOptions()); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}
	threadID := client.ThreadID()

	second := NewMessage(RoleUser, "second")
	if _, err := client.Send(ctx, "m", &second, NewOptions()); err != nil {
		t.Fatalf("second Send() error = %v", err)
	}

	// Second turn carries the whole transcript and keeps the thread id
	if len(lastRequest.Messages) != 3 {
		t.Errorf("second request has %d messages, want 3", len(lastRequest.Messages))
	}
	if lastRequest.ThreadMetadata.ID != threadID {
		t.Errorf("second request thread id = %q, want %q", lastRequest.ThreadMetadata.ID, threadID)
	}
	if client.ThreadID() != threadID {
		t.Errorf("thread id changed between turns: %q -> %q", threadID, client.ThreadID())
	}
}

func TestSendAuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	msg := NewMessage(RoleUser, "hi")
	_, err := client.Send(context.Background(), "m", &msg, NewOptions())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Send() error = %v, want AuthError", err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status code = %d, want 401", authErr.StatusCode)
	}
}

func TestSendValidatesBeforeNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	msg := NewMessage(RoleUser, "hi")
	_, err := client.Send(context.Background(), "", &msg, NewOptions())

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Send() error = %v, want ValidationError", err)
	}
	if requests != 0 {
		t.Errorf("server received %d requests, want 0", requests)
	}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr any
	}{
		{name: "accepted", status: http.StatusOK, wantErr: nil},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: &AuthError{}},
		{name: "server error", status: http.StatusInternalServerError, wantErr: &NetworkError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			err := client.Init(context.Background())

			switch tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Init() error = %v, want nil", err)
				}
			case *AuthError:
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("Init() error = %v, want AuthError", err)
				}
			case *NetworkError:
				var netErr *NetworkError
				if !errors.As(err, &netErr) {
					t.Fatalf("Init() error = %v, want NetworkError", err)
				}
			}
		})
	}
}

func TestRefreshSessionRotatesCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-workos-session", "rotated-value")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := client.RefreshSession(context.Background()); err != nil {
		t.Fatalf("RefreshSession() error = %v", err)
	}

	if !strings.Contains(client.cookies, "wos-session=rotated-value") {
		t.Errorf("cookies = %q, want rotated wos-session", client.cookies)
	}
	if strings.Contains(client.cookies, "wos-session=abc") {
		t.Errorf("cookies = %q, old wos-session still present", client.cookies)
	}
	if !strings.Contains(client.cookies, "other=1") {
		t.Errorf("cookies = %q, unrelated cookie dropped", client.cookies)
	}
}

func TestConversationState(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")

	client.AppendMessage(MessageWithID("a", RoleUser, "one"))
	client.AppendMessage(MessageWithID("b", RoleAssistant, "two"))
	client.SetThreadID("thread-9")

	if len(client.Messages()) != 2 {
		t.Fatalf("Messages() has %d entries, want 2", len(client.Messages()))
	}
	if client.Messages()[0].ID != "a" || client.Messages()[1].ID != "b" {
		t.Errorf("message order changed: %+v", client.Messages())
	}

	client.ClearMessages()
	if len(client.Messages()) != 0 {
		t.Errorf("ClearMessages() left %d messages", len(client.Messages()))
	}
	if client.ThreadID() != "thread-9" {
		t.Errorf("ClearMessages() dropped thread id")
	}

	client.SetThreadID("thread-9")
	client.AppendMessage(MessageWithID("c", RoleUser, "three"))
	client.NewConversation()
	if len(client.Messages()) != 0 || client.ThreadID() != "" {
		t.Errorf("NewConversation() did not reset state")
	}
}

func TestDownloadImage(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(imageBytes)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	savePath := filepath.Join(t.TempDir(), "nested", "out.png")

	base64Data, err := client.DownloadImage(context.Background(), server.URL+"/img.png", savePath)
	if err != nil {
		t.Fatalf("DownloadImage() error = %v", err)
	}

	if base64Data != base64.StdEncoding.EncodeToString(imageBytes) {
		t.Errorf("DownloadImage() base64 = %q", base64Data)
	}

	saved, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !bytes.Equal(saved, imageBytes) {
		t.Errorf("saved file = %v, want %v", saved, imageBytes)
	}
}

func TestSaveContent(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	ctx := context.Background()

	t.Run("inline base64 written byte for byte", func(t *testing.T) {
		raw := []byte("image-payload-of-any-length")
		content := Content{Kind: ContentImage, Base64: base64.StdEncoding.EncodeToString(raw)}
		savePath := filepath.Join(t.TempDir(), "img.png")

		if _, err := client.SaveContent(ctx, content, savePath); err != nil {
			t.Fatalf("SaveContent() error = %v", err)
		}
		saved, err := os.ReadFile(savePath)
		if err != nil {
			t.Fatalf("reading saved file: %v", err)
		}
		if !bytes.Equal(saved, raw) {
			t.Errorf("saved %d bytes, want %d matching bytes", len(saved), len(raw))
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		content := Content{Kind: ContentImage, Base64: "!!not base64!!"}
		_, err := client.SaveContent(ctx, content, filepath.Join(t.TempDir(), "img.png"))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("SaveContent() error = %v, want ParseError", err)
		}
	})

	t.Run("text content is a no-op", func(t *testing.T) {
		savePath := filepath.Join(t.TempDir(), "img.png")
		content := Content{Kind: ContentText, Text: "hello"}
		got, err := client.SaveContent(ctx, content, savePath)
		if err != nil {
			t.Fatalf("SaveContent() error = %v", err)
		}
		if got != content {
			t.Errorf("SaveContent() = %+v, want unchanged content", got)
		}
		if _, err := os.Stat(savePath); !os.IsNotExist(err) {
			t.Errorf("SaveContent() created a file for text content")
		}
	})
}

func TestSendWithImageDownload(t *testing.T) {
	imageBytes := []byte("generated-image-bytes")

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/cdn/img.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(imageBytes)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`data: {"type":"image-gen","url":"` + server.URL + `/cdn/img.png"}` + "\n" + `data: [DONE]`))
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	savePath := filepath.Join(t.TempDir(), "img.png")

	msg := NewMessage(RoleUser, "draw a cat")
	response, err := client.SendWithImageDownload(context.Background(), "gpt-image-1", &msg, NewOptions(), savePath)
	if err != nil {
		t.Fatalf("SendWithImageDownload() error = %v", err)
	}

	if response.Kind != ContentImage {
		t.Fatalf("response kind = %v, want ContentImage", response.Kind)
	}
	if response.Base64 != base64.StdEncoding.EncodeToString(imageBytes) {
		t.Errorf("response base64 not backfilled")
	}

	saved, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !bytes.Equal(saved, imageBytes) {
		t.Errorf("saved file does not match served image")
	}

	// The stored transcript also carries the downloaded data
	last := client.Messages()[len(client.Messages())-1]
	if last.Base64 != response.Base64 {
		t.Errorf("transcript message base64 not backfilled")
	}
}
