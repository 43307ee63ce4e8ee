package widget

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// defaultSuggestions are the quick-start prompts shown while the
// conversation is still empty.
var defaultSuggestions = []string{
	"What is Sandip's experience?",
	"Tell me about her skills",
	"What projects has she worked on?",
}

// suggestionsFile is the structure of a TOML suggestions override file.
type suggestionsFile struct {
	Prompts []string `toml:"prompts"`
}

// DefaultSuggestions returns a copy of the built-in quick-start prompts.
func DefaultSuggestions() []string {
	copied := make([]string, len(defaultSuggestions))
	copy(copied, defaultSuggestions)
	return copied
}

// LoadSuggestions loads quick-start prompts from a TOML file. An empty
// path, or a file with no prompts, yields the built-in defaults.
func LoadSuggestions(path string) ([]string, error) {
	if path == "" {
		return DefaultSuggestions(), nil
	}

	var file suggestionsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decoding suggestions file: %w", err)
	}

	if len(file.Prompts) == 0 {
		return DefaultSuggestions(), nil
	}
	return file.Prompts, nil
}
