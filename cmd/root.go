/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandipmaity/foliochat/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foliochat",
	Short: "Chat with Sandip's portfolio assistant",
	Long: `foliochat is the command-line client for Sandip's portfolio assistant.
It talks to the remote assistant service, keeps a persistent session id,
and supports optional voice input and spoken replies.
You can configure the tool using a TOML configuration file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/foliochat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env supplements the environment; absence is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix("FOLIOCHAT")
	viper.AutomaticEnv()

	// Register defaults so env/file values only need to override.
	defaults := config.NewDefaultConfig()
	viper.SetDefault("api_base_url", defaults.APIBaseURL)
	viper.SetDefault("api_timeout", defaults.APITimeout)
	viper.SetDefault("ip_echo_url", defaults.IPEchoURL)
	viper.SetDefault("auto_open_delay_ms", defaults.AutoOpenDelayMS)
	viper.SetDefault("auto_close_delay_ms", defaults.AutoCloseDelayMS)
	viper.SetDefault("voice_debounce_ms", defaults.VoiceDebounceMS)
	viper.SetDefault("voice_asr_url", defaults.VoiceASRURL)
	viper.SetDefault("voice_tts_command", defaults.VoiceTTSCommand)
	viper.SetDefault("voice_play_command", defaults.VoicePlayCommand)
	viper.SetDefault("voice_rec_command", defaults.VoiceRecCommand)
	viper.SetDefault("suggestions_file", defaults.SuggestionsFile)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "foliochat"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	// A missing config file is not an error; defaults and env apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI's logger. Verbose mode surfaces the debug
// records the widget otherwise swallows.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
