// Package widget implements the portfolio assistant's chat widget as a
// headless state machine: visibility lifecycle with auto-open/auto-close
// timers, an append-only conversation history, and a request orchestrator
// that serializes sends to the remote assistant service.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// FallbackText is the assistant reply substituted when the remote
// service cannot be reached.
const FallbackText = "Sorry, I'm having trouble responding right now. Please make sure the backend server is running."

// Default timer delays. The auto-close delay only applies while the
// conversation is still empty.
const (
	DefaultAutoOpenDelay  = 3 * time.Second
	DefaultAutoCloseDelay = 10 * time.Second
)

var (
	// ErrEmptyMessage reports a send whose text was empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy reports a send attempted while another is still in flight.
	ErrBusy = errors.New("a request is already in flight")
)

// Reply is the assistant service's answer to one message.
type Reply struct {
	Text    string
	Sources []string
	Audio   []byte // optional synthesized clip
}

// Sender delivers one user message to the assistant service.
type Sender interface {
	Send(ctx context.Context, message string, voice bool) (Reply, error)
}

// Speaker renders an assistant reply audibly. Implementations must
// tolerate being invoked again before a prior utterance has finished.
type Speaker interface {
	Speak(text string, clip []byte)
}

// Options configure a Widget. Zero-value delays fall back to the
// defaults; Sender is required.
type Options struct {
	Sender         Sender
	Speaker        Speaker // optional, nil disables spoken replies
	Logger         *slog.Logger
	AutoOpenDelay  time.Duration
	AutoCloseDelay time.Duration
	Fallback       string          // assistant text on transport failure
	OnVisibility   func(open bool) // optional presentation hook
}

// Widget owns the chat widget's interaction state: visibility,
// conversation history, staged input text, and the single in-flight
// request slot.
type Widget struct {
	sender       Sender
	speaker      Speaker
	logger       *slog.Logger
	fallback     string
	closeDelay   time.Duration
	onVisibility func(open bool)

	history   *History
	autoOpen  oneShot
	autoClose oneShot

	mu      sync.Mutex
	open    bool
	loading bool
	staged  string
}

// New creates a widget and arms the auto-open timer. Call Stop when the
// widget is torn down so no timer fires against a disposed view.
func New(opts Options) *Widget {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AutoOpenDelay <= 0 {
		opts.AutoOpenDelay = DefaultAutoOpenDelay
	}
	if opts.AutoCloseDelay <= 0 {
		opts.AutoCloseDelay = DefaultAutoCloseDelay
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackText
	}

	w := &Widget{
		sender:       opts.Sender,
		speaker:      opts.Speaker,
		logger:       opts.Logger,
		fallback:     opts.Fallback,
		closeDelay:   opts.AutoCloseDelay,
		onVisibility: opts.OnVisibility,
		history:      NewHistory(),
	}

	w.autoOpen.Schedule(opts.AutoOpenDelay, w.Open)
	return w
}

// History returns the conversation store.
func (w *Widget) History() *History {
	return w.history
}

// IsOpen reports whether the widget window is visible.
func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Loading reports whether a chat request is in flight.
func (w *Widget) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Staged returns the staged input text.
func (w *Widget) Staged() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.staged
}

// SetStaged replaces the staged input text, e.g. when the user picks a
// quick-start suggestion.
func (w *Widget) SetStaged(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.staged = text
}

// Open makes the widget visible. An open transition while the
// conversation is empty (re)arms the idle auto-close timer.
func (w *Widget) Open() {
	w.mu.Lock()
	was := w.open
	w.open = true
	w.mu.Unlock()

	w.armAutoClose()
	if !was {
		w.notify(true)
	}
}

// Close hides the widget and cancels the idle auto-close timer.
func (w *Widget) Close() {
	w.mu.Lock()
	was := w.open
	w.open = false
	w.mu.Unlock()

	w.autoClose.Cancel()
	if was {
		w.notify(false)
	}
}

// Toggle flips visibility, resetting the auto-close timer the same way
// a manual open does.
func (w *Widget) Toggle() {
	if w.IsOpen() {
		w.Close()
	} else {
		w.Open()
	}
}

// armAutoClose schedules the idle close. A started conversation
// suppresses the behavior entirely, and the emptiness is re-checked at
// fire time in case a message arrived while the timer was pending.
func (w *Widget) armAutoClose() {
	if !w.history.Empty() {
		return
	}
	w.autoClose.Schedule(w.closeDelay, func() {
		if w.history.Empty() {
			w.Close()
		}
	})
}

// Send delivers one user message to the assistant service and appends
// both sides of the exchange to the history.
//
// Empty input (after trimming) and sends attempted while a request is
// already in flight are rejected without side effects; the returned
// sentinel says why. A transport failure is recovered locally by
// appending the fallback assistant message, so Send returns nil in that
// case: the conversation stays usable and the failure is only logged.
func (w *Widget) Send(ctx context.Context, text string, voice bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	w.mu.Lock()
	if w.loading {
		w.mu.Unlock()
		return ErrBusy
	}
	w.loading = true
	w.staged = ""
	w.mu.Unlock()

	// Optimistic append: the user message shows before the service confirms.
	w.history.Append(Message{Role: RoleUser, Text: text})

	reply, err := w.sender.Send(ctx, text, voice)
	if err != nil {
		// No retry; the user resends manually.
		w.logger.Warn("chat request failed", "error", err)
		w.history.Append(Message{Role: RoleAssistant, Text: w.fallback})
		w.setLoading(false)
		return nil
	}

	w.history.Append(Message{
		Role:    RoleAssistant,
		Text:    reply.Text,
		Sources: reply.Sources,
	})

	// The in-flight window ends once the reply is recorded. Playback runs
	// outside it: a reply being spoken must not reject new sends.
	w.setLoading(false)

	if voice && w.speaker != nil {
		w.speaker.Speak(reply.Text, reply.Audio)
	}
	return nil
}

func (w *Widget) setLoading(v bool) {
	w.mu.Lock()
	w.loading = v
	w.mu.Unlock()
}

// AppendGuidance adds an assistant-authored guidance message without a
// network call. The voice subsystem uses this for recognition errors.
func (w *Widget) AppendGuidance(text string) {
	w.history.Append(Message{Role: RoleAssistant, Text: text})
}

// Stop cancels all pending timers. Safe to call more than once.
func (w *Widget) Stop() {
	w.autoOpen.Cancel()
	w.autoClose.Cancel()
}

func (w *Widget) notify(open bool) {
	if w.onVisibility != nil {
		w.onVisibility(open)
	}
}
