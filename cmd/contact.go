package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandipmaity/foliochat/internal/config"
)

var (
	contactName    string
	contactEmail   string
	contactMessage string
)

// contactCmd represents the contact command
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the portfolio contact form",
	Long: `Send a message through the portfolio contact form.
All three fields are required.

Examples:
  foliochat contact --name "Jane Doe" --email jane@example.com --message "Hi Sandip!"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(contactName) == "" {
			return fmt.Errorf("--name is required")
		}
		if strings.TrimSpace(contactEmail) == "" || !strings.Contains(contactEmail, "@") {
			return fmt.Errorf("--email must be a valid address")
		}
		if strings.TrimSpace(contactMessage) == "" {
			return fmt.Errorf("--message is required")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client, err := newBackendClient(cfg)
		if err != nil {
			return err
		}

		if err := client.Contact(context.Background(), contactName, contactEmail, contactMessage); err != nil {
			return fmt.Errorf("submitting contact form: %w", err)
		}

		fmt.Println("Message sent. Thanks for reaching out!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)

	contactCmd.Flags().StringVarP(&contactName, "name", "n", "", "Your name")
	contactCmd.Flags().StringVarP(&contactEmail, "email", "e", "", "Your email address")
	contactCmd.Flags().StringVarP(&contactMessage, "message", "m", "", "Your message")
}
