// Package backend is the HTTP client for the remote portfolio assistant
// service. It covers the chat endpoint, the contact form, and the
// best-effort IP echo lookup that annotates both.
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sandipmaity/foliochat/internal/widget"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
)

// ChatRequest is the body posted to /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserIP    string `json:"user_ip,omitempty"`
	UseVoice  bool   `json:"use_voice,omitempty"`
}

// ChatResponse is the body returned by /chat. Audio, when present, is a
// base64-encoded clip of the spoken reply.
type ChatResponse struct {
	Response  string   `json:"response"`
	SessionID string   `json:"session_id"`
	Sources   []string `json:"sources,omitempty"`
	Audio     string   `json:"audio,omitempty"`
}

// ContactRequest is the body posted to /contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	UserIP  string `json:"user_ip,omitempty"`
}

// Client talks to the assistant service. It satisfies widget.Sender.
type Client struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
	ipEchoURL  string
	logger     *slog.Logger
}

// Options configure a Client. Zero values fall back to the defaults;
// an empty IPEchoURL disables the user_ip annotation entirely.
type Options struct {
	BaseURL   string
	SessionID string
	Timeout   time.Duration
	IPEchoURL string
	Logger    *slog.Logger
}

// NewClient creates an assistant service client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		baseURL:    opts.BaseURL,
		sessionID:  opts.SessionID,
		httpClient: &http.Client{Timeout: opts.Timeout},
		ipEchoURL:  opts.IPEchoURL,
		logger:     opts.Logger,
	}
}

// Send posts one chat message and returns the assistant's reply. Any
// transport problem, including a non-2xx status, surfaces as an error;
// the caller decides how to recover.
func (c *Client) Send(ctx context.Context, message string, voice bool) (widget.Reply, error) {
	req := ChatRequest{
		Message:   message,
		SessionID: c.sessionID,
		UserIP:    c.userIP(ctx),
		UseVoice:  voice,
	}

	var resp ChatResponse
	if err := c.post(ctx, "/chat", req, &resp); err != nil {
		return widget.Reply{}, err
	}

	reply := widget.Reply{Text: resp.Response, Sources: resp.Sources}
	if resp.Audio != "" {
		clip, err := base64.StdEncoding.DecodeString(resp.Audio)
		if err != nil {
			// A malformed clip only loses the audio path; text still renders.
			c.logger.Debug("dropping undecodable audio clip", "error", err)
		} else {
			reply.Audio = clip
		}
	}
	return reply, nil
}

// Contact submits the contact form. Fire-and-forget from the widget's
// perspective, but the caller gets the transport error for display.
func (c *Client) Contact(ctx context.Context, name, email, message string) error {
	req := ContactRequest{
		Name:    name,
		Email:   email,
		Message: message,
		UserIP:  c.userIP(ctx),
	}
	return c.post(ctx, "/contact", req, nil)
}

// post sends a JSON body and decodes a JSON response when out is non-nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
