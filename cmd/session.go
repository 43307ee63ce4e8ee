package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandipmaity/foliochat/internal/session"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the persistent conversation session",
	Long: `Manage the persistent conversation session.

The assistant service keys conversation context on a session id that is
generated once and reused across runs. 'show' prints it, 'reset'
discards it so the next chat starts a fresh conversation.`,
}

// sessionShowCmd represents the session show command
var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current session id",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}

		id, ok := store.Current()
		if !ok {
			fmt.Println("No session yet. One will be created on the first chat.")
			return nil
		}
		fmt.Println(id)
		return nil
	},
}

// sessionResetCmd represents the session reset command
var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the session id and start fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}

		if err := store.Reset(); err != nil {
			return fmt.Errorf("resetting session: %w", err)
		}
		fmt.Println("Session reset. A new id will be created on the next chat.")
		return nil
	},
}

func sessionStore() (*session.Store, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolving session directory: %w", err)
	}
	return session.NewStore(dir), nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResetCmd)
}
