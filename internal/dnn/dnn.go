// Package dnn runs a pretrained digit classifier through OpenCV's DNN module.
package dnn

import (
	"fmt"
	"log"
	"os"

	"digit-canvas/internal/grid"
	"digit-canvas/internal/predict"

	"gocv.io/x/gocv"
)

// Classifier wraps a loaded network. It is not safe for concurrent use.
type Classifier struct {
	net     gocv.Net
	path    string
	softmax bool
}

var _ predict.Classifier = (*Classifier)(nil)

// Load reads the network at modelPath (ONNX, TensorFlow .pb, Caffe, ...).
// config is the optional companion file some formats need. With softmax set
// the network output is treated as logits.
func Load(modelPath, config string, softmax bool) (*Classifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, &predict.ModelLoadError{Path: modelPath, Err: err}
	}
	if config != "" {
		if _, err := os.Stat(config); err != nil {
			return nil, &predict.ModelLoadError{Path: config, Err: err}
		}
	}

	net := gocv.ReadNet(modelPath, config)
	if net.Empty() {
		net.Close()
		return nil, &predict.ModelLoadError{Path: modelPath, Err: fmt.Errorf("network is empty")}
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	log.Printf("Loaded model %s", modelPath)
	return &Classifier{net: net, path: modelPath, softmax: softmax}, nil
}

// Classify runs one forward pass.
func (c *Classifier) Classify(in grid.Tensor) (predict.Probabilities, error) {
	blob, err := inputBlob(in)
	if err != nil {
		return predict.Probabilities{}, err
	}
	defer blob.Close()

	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	defer out.Close()

	raw, err := out.DataPtrFloat32()
	if err != nil {
		return predict.Probabilities{}, fmt.Errorf("failed to read output: %w", err)
	}
	if len(raw) != predict.Classes {
		return predict.Probabilities{}, fmt.Errorf("model %s produced %d outputs, want %d",
			c.path, len(raw), predict.Classes)
	}

	scores := make([]float64, len(raw))
	for i, v := range raw {
		scores[i] = float64(v)
	}
	return predict.FromScores(scores, c.softmax)
}

// Close releases the network.
func (c *Classifier) Close() error {
	return c.net.Close()
}

// inputBlob copies the tensor into a float32 Mat with the tensor's own
// (1,28,28,1) dimensions, so NHWC models receive a single channel.
func inputBlob(in grid.Tensor) (gocv.Mat, error) {
	blob := gocv.NewMatWithSizes(in.Shape[:], gocv.MatTypeCV32F)
	data, err := blob.DataPtrFloat32()
	if err != nil {
		blob.Close()
		return gocv.Mat{}, fmt.Errorf("failed to build input: %w", err)
	}
	if len(data) != len(in.Data) {
		blob.Close()
		return gocv.Mat{}, fmt.Errorf("input blob holds %d values, tensor has %d", len(data), len(in.Data))
	}
	copy(data, in.Data)
	return blob, nil
}
