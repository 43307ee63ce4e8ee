// Package voice layers optional spoken input and output onto the chat
// widget. Capture and playback capabilities are pluggable; when a
// capability is missing the affected affordance degrades to a no-op and
// the widget stays fully usable via text.
package voice

import (
	"context"
	"errors"
	"fmt"
)

// Transcript is a finalized speech-recognition result.
type Transcript struct {
	Text       string
	Confidence float64
}

// Events receives recognition callbacks. The controller wires them once
// when listening starts; implementations invoke them asynchronously.
type Events struct {
	OnResult func(Transcript)
	OnError  func(error)
	OnEnd    func()
}

// Recognizer captures spoken input and reports a final transcript
// through Events. Start returns once capture is underway; Stop aborts
// an active capture.
type Recognizer interface {
	Start(ctx context.Context, ev Events) error
	Stop()
}

// Synthesizer renders text audibly via text-to-speech. Cancel aborts an
// in-progress utterance; Speak implementations cancel any prior
// utterance themselves so audio never overlaps.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
	Cancel()
}

// Player plays an encoded audio clip, blocking until done. A playback
// error lets the caller fall back to synthesis.
type Player interface {
	Play(ctx context.Context, clip []byte) error
}

// ErrUnavailable reports that the platform lacks the capability.
var ErrUnavailable = errors.New("voice capability unavailable")

// ErrorCode classifies recognition failures the way the platform
// reports them.
type ErrorCode string

const (
	CodeNotAllowed   ErrorCode = "not-allowed"
	CodeNoSpeech     ErrorCode = "no-speech"
	CodeAudioCapture ErrorCode = "audio-capture"
)

// RecognitionError is a categorized speech-capture failure.
type RecognitionError struct {
	Code    ErrorCode
	Message string
}

func (e *RecognitionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("speech recognition error: %s", e.Code)
	}
	return fmt.Sprintf("speech recognition error: %s: %s", e.Code, e.Message)
}

// Guidance messages surfaced in the conversation when recognition fails.
const (
	GuidanceNotAllowed   = "I couldn't access your microphone. Please enable microphone permission and try again."
	GuidanceNoSpeech     = "I didn't catch that. Please try speaking again."
	GuidanceAudioCapture = "No microphone was found. Please check your microphone connection."
	GuidanceGeneric      = "Something went wrong with voice input. Please try again or type your question instead."
)

// GuidanceFor maps a recognition failure to the assistant-authored
// guidance text shown in the conversation.
func GuidanceFor(err error) string {
	var rec *RecognitionError
	if !errors.As(err, &rec) {
		return GuidanceGeneric
	}
	switch rec.Code {
	case CodeNotAllowed:
		return GuidanceNotAllowed
	case CodeNoSpeech:
		return GuidanceNoSpeech
	case CodeAudioCapture:
		return GuidanceAudioCapture
	default:
		return GuidanceGeneric
	}
}
