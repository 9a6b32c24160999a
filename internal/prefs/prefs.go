// Package prefs provides read-only JSON key/value preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppDir is the directory under the user config dir holding config.json.
const AppDir = "digit-canvas"

const prefsFile = "config.json"

// Prefs stores preferences as a key-value map.
type Prefs struct {
	values map[string]interface{}
	path   string
}

// DefaultPath returns <user config dir>/digit-canvas/config.json.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppDir, prefsFile)
}

// Load reads preferences from path. A missing file yields empty Prefs; a file
// that exists but does not parse is an error.
func Load(path string) (*Prefs, error) {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		return p, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	return p, nil
}

// Path returns the file the preferences were read from.
func (p *Prefs) Path() string {
	return p.path
}

// IntWithFallback returns an integer preference, or fallback if not set.
func (p *Prefs) IntWithFallback(key string, fallback int) int {
	if v, ok := p.values[key]; ok {
		if n, ok := v.(float64); ok {
			return int(n)
		}
	}
	return fallback
}

// StringWithFallback returns a string preference, or fallback if not set.
func (p *Prefs) StringWithFallback(key, fallback string) string {
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	if v, ok := p.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
