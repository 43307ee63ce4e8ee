package voice

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the voice pipeline's current phase.
type State int

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateSpeaking
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	default:
		return "idle"
	}
}

// DefaultDebounce is the pause between a final transcript and the send
// it triggers, letting recognition settle.
const DefaultDebounce = 400 * time.Millisecond

// Options configure a Controller. Any of Recognizer, Synthesizer and
// Player may be nil; the corresponding affordance degrades to a no-op.
type Options struct {
	Recognizer   Recognizer
	Synthesizer  Synthesizer
	Player       Player
	Debounce     time.Duration
	Logger       *slog.Logger
	OnTranscript func(text string) // receives the debounced final transcript
	OnGuidance   func(text string) // receives assistant guidance on errors
}

// Controller runs the voice state machine:
// Idle -> Listening -> Processing -> Speaking -> Idle.
type Controller struct {
	recognizer   Recognizer
	synth        Synthesizer
	player       Player
	debounce     time.Duration
	logger       *slog.Logger
	onTranscript func(string)
	onGuidance   func(string)

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	pending *time.Timer
}

// NewController builds the voice controller.
func NewController(opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OnTranscript == nil {
		opts.OnTranscript = func(string) {}
	}
	if opts.OnGuidance == nil {
		opts.OnGuidance = func(string) {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		recognizer:   opts.Recognizer,
		synth:        opts.Synthesizer,
		player:       opts.Player,
		debounce:     opts.Debounce,
		logger:       opts.Logger,
		onTranscript: opts.OnTranscript,
		onGuidance:   opts.OnGuidance,
		ctx:          ctx,
		cancel:       cancel,
		state:        StateIdle,
	}
}

// Supported reports whether spoken input is available.
func (c *Controller) Supported() bool {
	return c.recognizer != nil
}

// CanSpeak reports whether spoken output is available.
func (c *Controller) CanSpeak() bool {
	return c.synth != nil || c.player != nil
}

// State returns the pipeline's current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ToggleListening starts capture when idle and stops it when listening.
// Without a recognizer the toggle has no effect beyond a debug log.
func (c *Controller) ToggleListening() {
	if c.recognizer == nil {
		c.logger.Debug("speech recognition unavailable, mic toggle ignored")
		return
	}

	c.mu.Lock()
	if c.state == StateListening {
		c.state = StateIdle
		c.mu.Unlock()
		c.recognizer.Stop()
		return
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateListening
	c.mu.Unlock()

	err := c.recognizer.Start(c.ctx, Events{
		OnResult: c.handleResult,
		OnError:  c.handleError,
		OnEnd:    c.handleEnd,
	})
	if err != nil {
		c.setState(StateIdle)
		c.logger.Warn("speech recognition failed to start", "error", err)
		c.onGuidance(GuidanceFor(err))
	}
}

// handleResult receives the final transcript and, after the debounce,
// hands it to the send hook.
func (c *Controller) handleResult(t Transcript) {
	c.mu.Lock()
	c.state = StateProcessing
	if c.pending != nil {
		c.pending.Stop()
	}
	text := t.Text
	c.pending = time.AfterFunc(c.debounce, func() {
		c.setState(StateIdle)
		c.onTranscript(text)
	})
	c.mu.Unlock()
}

// handleError surfaces a recognition failure as conversation guidance.
func (c *Controller) handleError(err error) {
	c.setState(StateIdle)
	c.logger.Warn("speech recognition error", "error", err)
	c.onGuidance(GuidanceFor(err))
}

// handleEnd covers capture ending without a result or error.
func (c *Controller) handleEnd() {
	c.mu.Lock()
	if c.state == StateListening {
		c.state = StateIdle
	}
	c.mu.Unlock()
}

// Speak renders an assistant reply audibly. A returned audio clip plays
// first; text-to-speech covers both the no-clip case and a clip that
// fails mid-playback. Any pending utterance is cancelled before the new
// one starts so audio never overlaps.
func (c *Controller) Speak(text string, clip []byte) {
	if !c.CanSpeak() {
		return
	}

	if c.synth != nil {
		c.synth.Cancel()
	}
	c.setState(StateSpeaking)
	defer c.setState(StateIdle)

	if len(clip) > 0 && c.player != nil {
		if err := c.player.Play(c.ctx, clip); err == nil {
			return
		} else {
			c.logger.Warn("audio clip playback failed, falling back to synthesis", "error", err)
		}
	}

	if c.synth == nil {
		return
	}
	if err := c.synth.Speak(c.ctx, text); err != nil {
		c.logger.Warn("speech synthesis failed", "error", err)
	}
}

// Stop tears down the pipeline: active capture stops, pending
// transcripts are dropped, and any utterance is cancelled.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	listening := c.state == StateListening
	c.state = StateIdle
	c.mu.Unlock()

	if listening && c.recognizer != nil {
		c.recognizer.Stop()
	}
	if c.synth != nil {
		c.synth.Cancel()
	}
	c.cancel()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
