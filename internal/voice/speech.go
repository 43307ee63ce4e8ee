package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Platform command candidates, probed in order.
var (
	synthCommands   = []string{"say", "espeak-ng", "espeak"}
	playerCommands  = []string{"afplay", "mpg123", "ffplay", "aplay"}
	captureCommands = []string{"rec", "arecord", "sox"}
)

func lookupFirst(candidates []string) (string, bool) {
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// CommandSynthesizer shells out to a platform text-to-speech command
// (say on macOS, espeak on Linux).
type CommandSynthesizer struct {
	command string

	mu      sync.Mutex
	running *exec.Cmd
}

// NewCommandSynthesizer builds a synthesizer around the given command,
// probing the platform defaults when command is empty. Returns
// ErrUnavailable when no usable command exists.
func NewCommandSynthesizer(command string) (*CommandSynthesizer, error) {
	if command == "" {
		found, ok := lookupFirst(synthCommands)
		if !ok {
			return nil, fmt.Errorf("no text-to-speech command found: %w", ErrUnavailable)
		}
		command = found
	} else if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("text-to-speech command %q: %w", command, ErrUnavailable)
	}
	return &CommandSynthesizer{command: command}, nil
}

// Speak renders text audibly, cancelling any utterance still playing.
func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	s.Cancel()

	cmd := exec.CommandContext(ctx, s.command, text)

	s.mu.Lock()
	s.running = cmd
	s.mu.Unlock()

	err := cmd.Run()

	s.mu.Lock()
	if s.running == cmd {
		s.running = nil
	}
	s.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}
	return nil
}

// Cancel kills an in-progress utterance, if any.
func (s *CommandSynthesizer) Cancel() {
	s.mu.Lock()
	running := s.running
	s.running = nil
	s.mu.Unlock()

	if running != nil && running.Process != nil {
		_ = running.Process.Kill()
	}
}

// CommandPlayer feeds an encoded audio clip to a playback command,
// either over stdin or through a temporary file for players that only
// accept a file path.
type CommandPlayer struct {
	command  string
	args     []string
	useStdin bool
}

// NewCommandPlayer builds a player around the given command, probing the
// platform defaults when command is empty.
func NewCommandPlayer(command string) (*CommandPlayer, error) {
	if command == "" {
		found, ok := lookupFirst(playerCommands)
		if !ok {
			return nil, fmt.Errorf("no audio playback command found: %w", ErrUnavailable)
		}
		command = found
	} else if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("audio playback command %q: %w", command, ErrUnavailable)
	}

	p := &CommandPlayer{command: command, useStdin: true}
	switch {
	case strings.HasSuffix(command, "ffplay"):
		p.args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-"}
	case strings.HasSuffix(command, "afplay"):
		// afplay only accepts a file path.
		p.useStdin = false
	default:
		p.args = []string{"-"}
	}
	return p, nil
}

// Play blocks until the clip finishes or the command fails. The error
// return lets the controller fall back to text-to-speech.
func (p *CommandPlayer) Play(ctx context.Context, clip []byte) error {
	args := p.args
	var stdin io.Reader
	if p.useStdin {
		stdin = bytes.NewReader(clip)
	} else {
		f, err := os.CreateTemp("", "foliochat-clip-*")
		if err != nil {
			return fmt.Errorf("audio playback: %w", err)
		}
		defer os.Remove(f.Name())
		if _, err := f.Write(clip); err != nil {
			f.Close()
			return fmt.Errorf("audio playback: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("audio playback: %w", err)
		}
		args = append(append([]string(nil), p.args...), f.Name())
	}

	cmd := exec.CommandContext(ctx, p.command, args...)
	cmd.Stdin = stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audio playback: %w", err)
	}
	return nil
}

// CommandAudioSource captures microphone audio by running a recording
// command that writes raw audio to stdout.
type CommandAudioSource struct {
	command string
	args    []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	buf    []byte
}

// NewCommandAudioSource builds a microphone source around the given
// command, probing the platform defaults when command is empty.
func NewCommandAudioSource(command string) (*CommandAudioSource, error) {
	if command == "" {
		found, ok := lookupFirst(captureCommands)
		if !ok {
			return nil, fmt.Errorf("no audio capture command found: %w", ErrUnavailable)
		}
		command = found
	} else if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("audio capture command %q: %w", command, ErrUnavailable)
	}

	s := &CommandAudioSource{command: command}
	// 16kHz 16-bit mono raw PCM to stdout.
	switch {
	case strings.HasSuffix(command, "arecord"):
		s.args = []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}
	default:
		s.args = []string{"-q", "-r", "16000", "-c", "1", "-b", "16", "-e", "signed", "-t", "raw", "-"}
	}
	return s, nil
}

// frameSize is 200ms of 16kHz 16-bit mono audio.
const frameSize = 6400

// ReadFrame returns the next captured frame, starting the recording
// command lazily on first read. io.EOF reports end of capture.
func (s *CommandAudioSource) ReadFrame() ([]byte, error) {
	s.mu.Lock()
	if s.cmd == nil {
		cmd := exec.Command(s.command, s.args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("audio capture pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("starting audio capture: %w", err)
		}
		s.cmd = cmd
		s.stdout = stdout
		s.buf = make([]byte, frameSize)
	}
	stdout := s.stdout
	buf := s.buf
	s.mu.Unlock()

	n, err := io.ReadFull(stdout, buf)
	if n > 0 {
		frame := make([]byte, n)
		copy(frame, buf[:n])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return frame, err
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return nil, err
}

// Close stops the recording command.
func (s *CommandAudioSource) Close() {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
}
