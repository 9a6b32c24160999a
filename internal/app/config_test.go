package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "model.onnx", cfg.ModelPath)
	assert.Equal(t, 20, cfg.PixelSize)
	assert.Equal(t, ClearBlank, cfg.Clear)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"model_path": "/models/mnist.pb",
		"model_config": "/models/mnist.pbtxt",
		"apply_softmax": true,
		"pixel_size": 12,
		"clear_policy": "classify"
	}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		ModelPath:    "/models/mnist.pb",
		ModelConfig:  "/models/mnist.pbtxt",
		Backend:      BackendDNN,
		ApplySoftmax: true,
		PixelSize:    12,
		Clear:        ClearClassify,
	}, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bad json":    `{"model_path": `,
		"bad backend": `{"backend": "cuda"}`,
		"bad policy":  `{"clear_policy": "sometimes"}`,
		"bad size":    `{"pixel_size": 1}`,
		"empty model": `{"model_path": ""}`,
	}
	for name, body := range cases {
		name, body := name, body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
			assert.Equal(t, DefaultConfig(), cfg)
		})
	}
}

func TestTesseractNeedsNoModel(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Backend = BackendTesseract
	cfg.ModelPath = ""
	assert.NoError(t, cfg.Validate())
}

func TestClearPolicyString(t *testing.T) {
	t.Parallel()

	for _, p := range []ClearPolicy{ClearBlank, ClearClassify} {
		back, err := ParseClearPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}
