// Package config holds the CLI's viper-backed configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sandipmaity/foliochat/internal/backend"
)

// Config holds every tunable the widget and its clients expose.
// Delays are in milliseconds, the API timeout in seconds.
type Config struct {
	APIBaseURL       string `toml:"api_base_url" mapstructure:"api_base_url"`
	APITimeout       int    `toml:"api_timeout" mapstructure:"api_timeout"` // seconds
	IPEchoURL        string `toml:"ip_echo_url" mapstructure:"ip_echo_url"` // empty disables user_ip
	AutoOpenDelayMS  int    `toml:"auto_open_delay_ms" mapstructure:"auto_open_delay_ms"`
	AutoCloseDelayMS int    `toml:"auto_close_delay_ms" mapstructure:"auto_close_delay_ms"`
	VoiceDebounceMS  int    `toml:"voice_debounce_ms" mapstructure:"voice_debounce_ms"`
	VoiceASRURL      string `toml:"voice_asr_url" mapstructure:"voice_asr_url"` // ws(s) endpoint; empty disables the mic
	VoiceTTSCommand  string `toml:"voice_tts_command" mapstructure:"voice_tts_command"`
	VoicePlayCommand string `toml:"voice_play_command" mapstructure:"voice_play_command"`
	VoiceRecCommand  string `toml:"voice_rec_command" mapstructure:"voice_rec_command"`
	SuggestionsFile  string `toml:"suggestions_file" mapstructure:"suggestions_file"`
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		APIBaseURL:       backend.DefaultBaseURL,
		APITimeout:       30,
		IPEchoURL:        backend.DefaultIPEchoURL,
		AutoOpenDelayMS:  3000,
		AutoCloseDelayMS: 10000,
		VoiceDebounceMS:  400,
	}
}

// LoadConfig loads configuration from viper.
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	return config, nil
}

// Timeout returns the API request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// AutoOpenDelay returns the widget auto-open delay as a duration.
func (c *Config) AutoOpenDelay() time.Duration {
	return time.Duration(c.AutoOpenDelayMS) * time.Millisecond
}

// AutoCloseDelay returns the idle auto-close delay as a duration.
func (c *Config) AutoCloseDelay() time.Duration {
	return time.Duration(c.AutoCloseDelayMS) * time.Millisecond
}

// VoiceDebounce returns the transcript-to-send debounce as a duration.
func (c *Config) VoiceDebounce() time.Duration {
	return time.Duration(c.VoiceDebounceMS) * time.Millisecond
}
