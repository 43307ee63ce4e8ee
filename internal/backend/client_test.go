package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendChat(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Response:  "She specializes in backend work.",
			SessionID: got.SessionID,
			Sources:   []string{"resume"},
			Audio:     base64.StdEncoding.EncodeToString([]byte("clip-bytes")),
		})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, SessionID: "session_123_abc"})

	reply, err := client.Send(context.Background(), "Tell me about her skills", true)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got.Message != "Tell me about her skills" {
		t.Errorf("message = %q", got.Message)
	}
	if got.SessionID != "session_123_abc" {
		t.Errorf("session_id = %q", got.SessionID)
	}
	if !got.UseVoice {
		t.Error("use_voice not forwarded")
	}
	if got.UserIP != "" {
		t.Errorf("user_ip = %q, want empty with lookup disabled", got.UserIP)
	}

	if reply.Text != "She specializes in backend work." {
		t.Errorf("reply text = %q", reply.Text)
	}
	if len(reply.Sources) != 1 || reply.Sources[0] != "resume" {
		t.Errorf("reply sources = %v", reply.Sources)
	}
	if string(reply.Audio) != "clip-bytes" {
		t.Errorf("reply audio = %q", reply.Audio)
	}
}

func TestSendChatServerError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "internal error", status: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound},
		{name: "bad request", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", tt.status)
			}))
			defer srv.Close()

			client := NewClient(Options{BaseURL: srv.URL})
			if _, err := client.Send(context.Background(), "hello", false); err == nil {
				t.Error("expected error for non-2xx status")
			}
		})
	}
}

func TestSendChatUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(Options{BaseURL: srv.URL})
	if _, err := client.Send(context.Background(), "hello", false); err == nil {
		t.Error("expected error for unreachable service")
	}
}

func TestSendChatMalformedAudioKeepsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{Response: "hello", Audio: "!!!not-base64!!!"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	reply, err := client.Send(context.Background(), "hi", true)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply.Text != "hello" {
		t.Errorf("reply text = %q", reply.Text)
	}
	if reply.Audio != nil {
		t.Error("malformed clip should be dropped")
	}
}

func TestSendChatAnnotatesUserIP(t *testing.T) {
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"ip": "203.0.113.9"})
	}))
	defer echo.Close()

	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, IPEchoURL: echo.URL})
	if _, err := client.Send(context.Background(), "hi", false); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.UserIP != "203.0.113.9" {
		t.Errorf("user_ip = %q, want echoed address", got.UserIP)
	}
}

func TestSendChatSurvivesIPLookupFailure(t *testing.T) {
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer echo.Close()

	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, IPEchoURL: echo.URL})
	reply, err := client.Send(context.Background(), "hi", false)
	if err != nil {
		t.Fatalf("Send() error = %v, lookup failures must be swallowed", err)
	}
	if reply.Text != "ok" {
		t.Errorf("reply text = %q", reply.Text)
	}
	if got.UserIP != "" {
		t.Errorf("user_ip = %q, want omitted on lookup failure", got.UserIP)
	}
}

func TestContact(t *testing.T) {
	var got ContactRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contact" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	err := client.Contact(context.Background(), "Jane Doe", "jane@example.com", "Hi Sandip!")
	if err != nil {
		t.Fatalf("Contact() error = %v", err)
	}
	if got.Name != "Jane Doe" || got.Email != "jane@example.com" || got.Message != "Hi Sandip!" {
		t.Errorf("contact payload = %+v", got)
	}
}
