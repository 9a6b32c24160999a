// Package commands implements the digitpredict command tree.
package commands

import (
	"fmt"

	"digit-canvas/internal/app"
	"digit-canvas/internal/backend"
	"digit-canvas/internal/prefs"

	"github.com/spf13/cobra"
)

// options holds the persistent flags.
type options struct {
	configPath string
	modelPath  string
	backend    string
	softmax    bool
}

// openClassifier is swapped out in tests.
var openClassifier = backend.Open

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "digitpredict",
		Short:        "Classify handwritten digit images",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+prefs.DefaultPath()+")")
	root.PersistentFlags().StringVar(&opts.modelPath, "model", "", "model file, overrides model_path")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "classifier backend: dnn or tesseract")
	root.PersistentFlags().BoolVar(&opts.softmax, "softmax", false, "treat model output as logits")

	root.AddCommand(classifyCmd(opts), versionCmd())
	return root
}

// config loads the config file and applies the flags that were set.
func (o *options) config(cmd *cobra.Command) (app.Config, error) {
	path := o.configPath
	if path == "" {
		path = prefs.DefaultPath()
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.ModelPath = o.modelPath
	}
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("softmax") {
		cfg.ApplySoftmax = o.softmax
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
