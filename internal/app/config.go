package app

import (
	"fmt"

	"digit-canvas/internal/prefs"
)

// Backend names accepted in the configuration.
const (
	BackendDNN       = "dnn"
	BackendTesseract = "tesseract"
)

// Preference keys.
const (
	keyModelPath    = "model_path"
	keyModelConfig  = "model_config"
	keyBackend      = "backend"
	keyApplySoftmax = "apply_softmax"
	keyPixelSize    = "pixel_size"
	keyClearPolicy  = "clear_policy"
)

const (
	defaultModelPath = "model.onnx"
	defaultPixelSize = 20
)

// Config holds the startup settings.
type Config struct {
	ModelPath    string
	ModelConfig  string
	Backend      string
	ApplySoftmax bool
	PixelSize    int
	Clear        ClearPolicy
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		ModelPath: defaultModelPath,
		Backend:   BackendDNN,
		PixelSize: defaultPixelSize,
		Clear:     ClearBlank,
	}
}

// LoadConfig reads the config file at path, falling back to defaults for
// anything not set.
func LoadConfig(path string) (Config, error) {
	p, err := prefs.Load(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ConfigFromPrefs(p)
}

// ConfigFromPrefs builds a Config from loaded preferences.
func ConfigFromPrefs(p *prefs.Prefs) (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		ModelPath:    p.StringWithFallback(keyModelPath, def.ModelPath),
		ModelConfig:  p.StringWithFallback(keyModelConfig, def.ModelConfig),
		Backend:      p.StringWithFallback(keyBackend, def.Backend),
		ApplySoftmax: p.Bool(keyApplySoftmax, def.ApplySoftmax),
		PixelSize:    p.IntWithFallback(keyPixelSize, def.PixelSize),
	}

	policy, err := ParseClearPolicy(p.StringWithFallback(keyClearPolicy, "blank"))
	if err != nil {
		return def, err
	}
	cfg.Clear = policy

	if err := cfg.Validate(); err != nil {
		return def, fmt.Errorf("invalid config %s: %w", p.Path(), err)
	}
	return cfg, nil
}

// Validate checks the settings for values the program cannot run with.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendDNN:
		if c.ModelPath == "" {
			return fmt.Errorf("%s is required for the %s backend", keyModelPath, BackendDNN)
		}
	case BackendTesseract:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.PixelSize < 4 || c.PixelSize > 64 {
		return fmt.Errorf("%s %d out of range 4-64", keyPixelSize, c.PixelSize)
	}
	return nil
}

// ParseClearPolicy maps "blank" or "classify" to a ClearPolicy.
func ParseClearPolicy(s string) (ClearPolicy, error) {
	switch s {
	case "blank", "":
		return ClearBlank, nil
	case "classify":
		return ClearClassify, nil
	default:
		return ClearBlank, fmt.Errorf("unknown clear policy %q", s)
	}
}

func (p ClearPolicy) String() string {
	if p == ClearClassify {
		return "classify"
	}
	return "blank"
}
