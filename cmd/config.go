package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandipmaity/foliochat/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: configfile, api_base_url, api_timeout, ip_echo_url,
auto_open_delay_ms, auto_close_delay_ms, voice_debounce_ms,
voice_asr_url, voice_tts_command, voice_play_command, voice_rec_command,
suggestions_file

Examples:
  foliochat config                # Show all configuration
  foliochat config api_base_url   # Show only the assistant service URL`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		// If a field is specified, show only that field
		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "api_base_url", "apibaseurl":
				fmt.Println(cfg.APIBaseURL)
			case "api_timeout", "apitimeout":
				fmt.Println(cfg.APITimeout)
			case "ip_echo_url", "ipechourl":
				fmt.Println(cfg.IPEchoURL)
			case "auto_open_delay_ms":
				fmt.Println(cfg.AutoOpenDelayMS)
			case "auto_close_delay_ms":
				fmt.Println(cfg.AutoCloseDelayMS)
			case "voice_debounce_ms":
				fmt.Println(cfg.VoiceDebounceMS)
			case "voice_asr_url":
				fmt.Println(cfg.VoiceASRURL)
			case "voice_tts_command":
				fmt.Println(cfg.VoiceTTSCommand)
			case "voice_play_command":
				fmt.Println(cfg.VoicePlayCommand)
			case "voice_rec_command":
				fmt.Println(cfg.VoiceRecCommand)
			case "suggestions_file":
				fmt.Println(cfg.SuggestionsFile)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				os.Exit(1)
			}
			return
		}

		// Display all configuration values
		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("APIBaseURL: %s\n", cfg.APIBaseURL)
		fmt.Printf("APITimeout: %ds\n", cfg.APITimeout)
		fmt.Printf("IPEchoURL: %s\n", cfg.IPEchoURL)
		fmt.Printf("AutoOpenDelay: %dms\n", cfg.AutoOpenDelayMS)
		fmt.Printf("AutoCloseDelay: %dms\n", cfg.AutoCloseDelayMS)
		fmt.Printf("VoiceDebounce: %dms\n", cfg.VoiceDebounceMS)
		fmt.Printf("VoiceASRURL: %s\n", cfg.VoiceASRURL)
		fmt.Printf("VoiceTTSCommand: %s\n", cfg.VoiceTTSCommand)
		fmt.Printf("VoicePlayCommand: %s\n", cfg.VoicePlayCommand)
		fmt.Printf("VoiceRecCommand: %s\n", cfg.VoiceRecCommand)
		fmt.Printf("SuggestionsFile: %s\n", cfg.SuggestionsFile)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
