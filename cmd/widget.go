package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sandipmaity/foliochat/internal/config"
	"github.com/sandipmaity/foliochat/internal/voice"
	"github.com/sandipmaity/foliochat/internal/widget"
)

// widgetCmd represents the widget command
var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Start the interactive chat widget",
	Long: `Start the interactive chat widget in the terminal.

The widget behaves like its floating web counterpart: it opens on its
own shortly after launch, closes again if you haven't said anything,
and keeps the whole conversation on screen once you have. Voice input
is available when a speech endpoint is configured and a recording
command is present.

Examples:
  foliochat widget              # Start the widget
  foliochat widget --no-voice   # Text only, skip voice capability probing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client, err := newBackendClient(cfg)
		if err != nil {
			return err
		}

		suggestions, err := widget.LoadSuggestions(cfg.SuggestionsFile)
		if err != nil {
			return fmt.Errorf("loading suggestions: %w", err)
		}

		logger := newLogger()
		noVoice, _ := cmd.Flags().GetBool("no-voice")

		ui := &widgetUI{suggestions: suggestions}

		vc := buildVoiceController(cfg, logger, noVoice,
			func(transcript string) {
				ui.sendAndPrint(transcript, true)
			},
			func(guidance string) {
				ui.widget.AppendGuidance(guidance)
				ui.println(fmt.Sprintf("\nAssistant> %s\n", guidance))
			})

		var speaker widget.Speaker
		if vc.CanSpeak() {
			speaker = vc
		}

		w := widget.New(widget.Options{
			Sender:         client,
			Speaker:        speaker,
			Logger:         logger,
			AutoOpenDelay:  cfg.AutoOpenDelay(),
			AutoCloseDelay: cfg.AutoCloseDelay(),
			OnVisibility:   ui.visibilityChanged,
		})
		defer func() {
			w.Stop()
			vc.Stop()
		}()

		ui.widget = w
		ui.voice = vc

		return ui.run()
	},
}

// buildVoiceController assembles whatever voice capabilities the
// platform offers. Missing pieces degrade silently: the affected
// affordance becomes a no-op and text chat is unaffected.
func buildVoiceController(cfg *config.Config, logger *slog.Logger, noVoice bool, onTranscript, onGuidance func(string)) *voice.Controller {
	opts := voice.Options{
		Debounce:     cfg.VoiceDebounce(),
		Logger:       logger,
		OnTranscript: onTranscript,
		OnGuidance:   onGuidance,
	}

	if !noVoice {
		if cfg.VoiceASRURL != "" {
			source, err := voice.NewCommandAudioSource(cfg.VoiceRecCommand)
			if err != nil {
				logger.Debug("voice input unavailable", "error", err)
			} else {
				opts.Recognizer = voice.NewStreamRecognizer(cfg.VoiceASRURL, source, logger)
			}
		}
		if synth, err := voice.NewCommandSynthesizer(cfg.VoiceTTSCommand); err != nil {
			logger.Debug("speech synthesis unavailable", "error", err)
		} else {
			opts.Synthesizer = synth
		}
		if player, err := voice.NewCommandPlayer(cfg.VoicePlayCommand); err != nil {
			logger.Debug("audio playback unavailable", "error", err)
		} else {
			opts.Player = player
		}
	}

	return voice.NewController(opts)
}

// widgetUI renders the widget's state to the terminal and feeds user
// input back into it.
type widgetUI struct {
	widget      *widget.Widget
	voice       *voice.Controller
	suggestions []string

	mu sync.Mutex // serializes terminal output across goroutines
}

func (ui *widgetUI) run() error {
	fmt.Fprintln(os.Stderr, "=== Sandip's Portfolio Assistant ===")
	fmt.Fprintln(os.Stderr, "Type '/help' for commands, '/exit' or Ctrl+D to quit")
	fmt.Fprintln(os.Stderr, "====================================")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, "You> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			fmt.Fprintln(os.Stderr, "\nGoodbye!")
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if ui.handleCommand(input) {
				continue
			}
			fmt.Fprintln(os.Stderr, "Goodbye!")
			return nil
		}

		if !ui.widget.IsOpen() {
			ui.widget.Open()
		}
		ui.sendAndPrint(input, false)
	}
}

// sendAndPrint delivers a message and renders the assistant's reply.
// Shared between typed input and debounced voice transcripts.
func (ui *widgetUI) sendAndPrint(text string, fromVoice bool) {
	if fromVoice {
		ui.println(fmt.Sprintf("You (voice)> %s", text))
	}

	w := ui.widget
	before := w.History().Revision()

	done := make(chan bool)
	go showSpinner(done)
	err := w.Send(context.Background(), text, fromVoice)
	done <- true
	close(done)

	if err != nil {
		// Empty input and busy rejections are silent no-ops by design.
		if !errors.Is(err, widget.ErrEmptyMessage) && !errors.Is(err, widget.ErrBusy) {
			ui.println(fmt.Sprintf("Error: %v", err))
		}
		return
	}

	if w.History().Revision() == before {
		return
	}
	if last, ok := w.History().Last(); ok && last.Role == widget.RoleAssistant {
		ui.println(fmt.Sprintf("\nAssistant> %s", last.Text))
		if len(last.Sources) > 0 {
			ui.println(fmt.Sprintf("Sources: %s", strings.Join(last.Sources, ", ")))
		}
		ui.println("")
	}
}

// visibilityChanged renders auto-open/auto-close transitions, including
// the quick-start suggestions while the conversation is empty.
func (ui *widgetUI) visibilityChanged(open bool) {
	if !open {
		ui.println("(assistant window closed)")
		return
	}

	ui.println("(assistant window opened)")
	if ui.widget == nil || ui.widget.History().Empty() {
		ui.printSuggestions()
	}
}

func (ui *widgetUI) printSuggestions() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	fmt.Fprintln(os.Stderr, "Hello! I'm Sandip's AI assistant. Try asking:")
	for _, s := range ui.suggestions {
		fmt.Fprintf(os.Stderr, "  - %q\n", s)
	}
}

func (ui *widgetUI) println(line string) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	fmt.Println(line)
}

// handleCommand processes slash commands.
// Returns true to continue the loop, false to exit.
func (ui *widgetUI) handleCommand(command string) bool {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h     - Show this help message")
		fmt.Fprintln(os.Stderr, "  /suggest, /s  - Show quick-start suggestions")
		fmt.Fprintln(os.Stderr, "  /voice, /m    - Toggle microphone capture")
		fmt.Fprintln(os.Stderr, "  /toggle, /t   - Open or close the widget window")
		fmt.Fprintln(os.Stderr, "  /exit, /quit  - Exit")
		fmt.Fprintln(os.Stderr, "  Ctrl+D        - Exit")
		fmt.Fprintln(os.Stderr, "")
		return true
	case "/suggest", "/s":
		ui.printSuggestions()
		return true
	case "/voice", "/m":
		if !ui.voice.Supported() {
			// Capability missing: the toggle simply has no effect.
			return true
		}
		ui.voice.ToggleListening()
		if ui.voice.State() == voice.StateListening {
			ui.println("(listening... speak now, /voice again to stop)")
		}
		return true
	case "/toggle", "/t":
		ui.widget.Toggle()
		return true
	case "/exit", "/quit", "/q":
		return false
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (try /help)\n", command)
		return true
	}
}

func init() {
	rootCmd.AddCommand(widgetCmd)

	widgetCmd.Flags().Bool("no-voice", false, "Disable voice capture and playback")
}
