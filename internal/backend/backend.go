// Package backend opens the classifier named in the configuration.
package backend

import (
	"fmt"
	"log"

	"digit-canvas/internal/app"
	"digit-canvas/internal/dnn"
	"digit-canvas/internal/ocr"
	"digit-canvas/internal/predict"
)

// Open returns a ready classifier for cfg. Load failures come back as
// *predict.ModelLoadError.
func Open(cfg app.Config) (predict.Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case app.BackendDNN:
		net, err := dnn.Load(cfg.ModelPath, cfg.ModelConfig, cfg.ApplySoftmax)
		if err != nil {
			return nil, err
		}
		return net, nil
	case app.BackendTesseract:
		engine, err := ocr.NewEngine()
		if err != nil {
			return nil, err
		}
		log.Printf("Using Tesseract digit recognizer")
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
