package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// SettingsFile answers boolean settings by re-reading a TOML file on every
// call, so edits take effect without a restart. Any failure to read or parse
// the file reads as "not set".
type SettingsFile struct {
	Path string
}

// Bool returns the boolean stored under key at the top level of the file.
func (s SettingsFile) Bool(key string) (value, ok bool) {
	if s.Path == "" {
		return false, false
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return false, false // Graceful degradation
	}

	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return false, false // Graceful degradation
	}
	b, ok := values[key].(bool)
	return b, ok
}
