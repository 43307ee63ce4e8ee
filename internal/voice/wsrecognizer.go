package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// AudioSource supplies captured microphone audio one frame at a time.
// ReadFrame returns io.EOF once capture is finished.
type AudioSource interface {
	ReadFrame() ([]byte, error)
}

// streamResult is one recognition update from the speech endpoint.
type streamResult struct {
	Text       string       `json:"text"`
	Final      bool         `json:"final"`
	Confidence float64      `json:"confidence"`
	Error      *streamError `json:"error,omitempty"`
}

type streamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StreamRecognizer streams microphone audio to the assistant service's
// speech endpoint over a websocket and reports the final transcript.
type StreamRecognizer struct {
	url    string
	source AudioSource
	dialer *websocket.Dialer
	logger *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewStreamRecognizer builds a recognizer for the given ws:// or wss://
// endpoint.
func NewStreamRecognizer(url string, source AudioSource, logger *slog.Logger) *StreamRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamRecognizer{
		url:    url,
		source: source,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger: logger,
	}
}

// Start dials the speech endpoint and begins streaming audio frames.
// Callbacks fire from background goroutines: OnResult with the final
// transcript, OnError on a categorized failure, OnEnd when the stream
// closes either way.
func (r *StreamRecognizer) Start(ctx context.Context, ev Events) error {
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	conn, _, err := r.dialer.DialContext(ctx, r.url, header)
	if err != nil {
		return fmt.Errorf("connecting to speech endpoint: %w", err)
	}

	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	go r.sendAudio(ctx, conn)
	go r.receiveResults(conn, ev)
	return nil
}

// Stop aborts an active capture by closing the connection; the receive
// loop then winds down through OnEnd.
func (r *StreamRecognizer) Stop() {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()

	closeConn(conn)
}

// stopConn tears down one receive loop's own connection. The stored
// conn may already belong to a newer Start; only clear it if it is
// still ours.
func (r *StreamRecognizer) stopConn(conn *websocket.Conn) {
	r.mu.Lock()
	if r.conn == conn {
		r.conn = nil
	}
	r.mu.Unlock()

	closeConn(conn)
}

func closeConn(conn *websocket.Conn) {
	if conn == nil {
		return
	}
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	_ = conn.Close()
}

// sendAudio forwards frames from the source until it drains or the
// context ends. A zero-length trailing frame marks end of input.
func (r *StreamRecognizer) sendAudio(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := r.source.ReadFrame()
		if len(frame) > 0 {
			if werr := conn.WriteMessage(websocket.BinaryMessage, frame); werr != nil {
				r.logger.Debug("audio frame write failed", "error", werr)
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.logger.Debug("audio capture read failed", "error", err)
			}
			// End-of-input marker; the server finalizes the transcript.
			_ = conn.WriteMessage(websocket.BinaryMessage, nil)
			return
		}
	}
}

// receiveResults consumes recognition updates until a final transcript,
// a server-reported error, or connection teardown.
func (r *StreamRecognizer) receiveResults(conn *websocket.Conn, ev Events) {
	defer func() {
		r.stopConn(conn)
		if ev.OnEnd != nil {
			ev.OnEnd()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			if ev.OnError != nil {
				ev.OnError(fmt.Errorf("reading recognition result: %w", err))
			}
			return
		}

		var result streamResult
		if err := json.Unmarshal(data, &result); err != nil {
			if ev.OnError != nil {
				ev.OnError(fmt.Errorf("parsing recognition result: %w", err))
			}
			return
		}

		if result.Error != nil {
			if ev.OnError != nil {
				ev.OnError(&RecognitionError{
					Code:    ErrorCode(result.Error.Code),
					Message: result.Error.Message,
				})
			}
			return
		}

		if result.Final {
			if result.Text == "" {
				if ev.OnError != nil {
					ev.OnError(&RecognitionError{Code: CodeNoSpeech})
				}
				return
			}
			if ev.OnResult != nil {
				ev.OnResult(Transcript{Text: result.Text, Confidence: result.Confidence})
			}
			return
		}
		// Interim result; keep waiting for the final one.
	}
}
