package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandipmaity/foliochat/internal/backend"
	"github.com/sandipmaity/foliochat/internal/config"
	"github.com/sandipmaity/foliochat/internal/session"
)

var chatVoice bool

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the portfolio assistant a single question",
	Long: `Ask the portfolio assistant a single question and print the reply.
This command performs a one-time call to the assistant service, reusing
the persistent session id so the conversation context carries over.

If no message is provided as an argument, it reads from stdin.

For an ongoing conversation with the full widget behavior, use
'foliochat widget' instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var message string
		if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = strings.TrimSpace(string(input))
		}
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("message is empty")
		}

		client, err := newBackendClient(cfg)
		if err != nil {
			return err
		}

		done := make(chan bool)
		go showSpinner(done)

		reply, err := client.Send(context.Background(), message, chatVoice)

		done <- true
		close(done)

		if err != nil {
			return fmt.Errorf("chat request: %w", err)
		}

		fmt.Println(reply.Text)
		if len(reply.Sources) > 0 {
			fmt.Printf("\nSources: %s\n", strings.Join(reply.Sources, ", "))
		}
		return nil
	},
}

// newBackendClient builds the assistant service client with the
// persisted session id.
func newBackendClient(cfg *config.Config) (*backend.Client, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolving session directory: %w", err)
	}

	id, err := session.NewStore(dir).Load()
	if err != nil {
		return nil, fmt.Errorf("loading session id: %w", err)
	}

	logger := newLogger()
	if verbose {
		fmt.Fprintf(os.Stderr, "Session: %s\n", id)
	}

	return backend.NewClient(backend.Options{
		BaseURL:   cfg.APIBaseURL,
		SessionID: id,
		Timeout:   cfg.Timeout(),
		IPEchoURL: cfg.IPEchoURL,
		Logger:    logger,
	}), nil
}

// showSpinner displays a spinner animation while waiting for response
func showSpinner(done chan bool) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	i := 0
	for {
		select {
		case <-done:
			// Clear the spinner line
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		default:
			fmt.Fprintf(os.Stderr, "\r%s Waiting for response...", spinners[i])
			i = (i + 1) % len(spinners)
			time.Sleep(80 * time.Millisecond)
		}
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&chatVoice, "voice", false, "Ask the service for a spoken reply clip")
}
