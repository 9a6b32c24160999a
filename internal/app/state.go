// Package app provides the drawing session, its configuration, and events.
package app

import (
	"errors"
	"fmt"
	"image"
	"log"

	"digit-canvas/internal/grid"
	"digit-canvas/internal/imageio"
	"digit-canvas/internal/predict"
)

// ErrBusy is returned when a grid change arrives while a classification
// cycle is still running, e.g. from inside an event listener.
var ErrBusy = errors.New("classification cycle in progress")

// CycleState is the position of the session in the redraw/classify cycle.
type CycleState int

const (
	StateIdle CycleState = iota
	StateDirty
	StateClassifying
	StateRendered
)

func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDirty:
		return "Dirty"
	case StateClassifying:
		return "Classifying"
	case StateRendered:
		return "Rendered"
	default:
		return "Unknown"
	}
}

// ClearPolicy decides what Clear does with the probability display.
type ClearPolicy int

const (
	// ClearBlank resets the display to blank without running the classifier.
	ClearBlank ClearPolicy = iota
	// ClearClassify runs a full cycle on the empty grid.
	ClearClassify
)

// EventType identifies different session events.
type EventType int

const (
	// EventGridChanged carries a GridChange.
	EventGridChanged EventType = iota
	// EventPrediction carries predict.Probabilities.
	EventPrediction
	// EventPredictionCleared carries nil.
	EventPredictionCleared
	// EventImported carries the source path.
	EventImported
	// EventExported carries the written path.
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// GridChange describes which cells a mutation touched. Full means every cell
// may have changed and Cells is nil.
type GridChange struct {
	Cells []grid.Cell
	Full  bool
}

// Session owns the grid and the classifier for one window. All methods are
// meant to be called from the UI event goroutine.
type Session struct {
	grid       *grid.Grid
	classifier predict.Classifier
	clear      ClearPolicy

	state      CycleState
	prediction predict.Probabilities
	predicted  bool

	listeners map[EventType][]EventListener
}

// Option configures a Session.
type Option func(*Session)

// WithClearPolicy sets the Clear behavior. The default is ClearBlank.
func WithClearPolicy(p ClearPolicy) Option {
	return func(s *Session) { s.clear = p }
}

// NewSession creates a session with an empty grid.
func NewSession(classifier predict.Classifier, opts ...Option) *Session {
	s := &Session{
		grid:       grid.New(),
		classifier: classifier,
		listeners:  make(map[EventType][]EventListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// Grid returns the session's grid. Callers must not mutate it directly.
func (s *Session) Grid() *grid.Grid {
	return s.grid
}

// State returns the cycle state. Outside of a listener it is always StateIdle.
func (s *Session) State() CycleState {
	return s.state
}

// Prediction returns the last displayed distribution, if any.
func (s *Session) Prediction() (predict.Probabilities, bool) {
	return s.prediction, s.predicted
}

// ClearPolicy returns the configured clear behavior.
func (s *Session) ClearPolicy() ClearPolicy {
	return s.clear
}

// Stamp paints the brush at (row, col) and reclassifies. A center outside the
// grid does nothing.
func (s *Session) Stamp(row, col int) error {
	if s.state != StateIdle {
		return ErrBusy
	}
	if !grid.InBounds(row, col) {
		return nil
	}
	touched := grid.Stamp(s.grid, row, col)
	return s.cycle(GridChange{Cells: touched})
}

// Clear empties the grid. Depending on the clear policy the display is either
// blanked or refreshed by a classification of the empty grid.
func (s *Session) Clear() error {
	if s.state != StateIdle {
		return ErrBusy
	}
	s.grid.Reset()
	if s.clear == ClearClassify {
		return s.cycle(GridChange{Full: true})
	}

	s.state = StateDirty
	s.Emit(EventGridChanged, GridChange{Full: true})
	s.prediction = predict.Probabilities{}
	s.predicted = false
	s.Emit(EventPredictionCleared, nil)
	s.state = StateIdle
	return nil
}

// Import decodes the image at path, fits it to the grid, and reclassifies.
// On a decode failure the grid is left unchanged.
func (s *Session) Import(path string) error {
	if s.state != StateIdle {
		return ErrBusy
	}
	img, err := imageio.Load(path)
	if err != nil {
		return err
	}
	if err := s.ImportImage(img); err != nil {
		return err
	}
	log.Printf("Imported %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	s.Emit(EventImported, path)
	return nil
}

// ImportImage replaces the grid with an already decoded image and
// reclassifies.
func (s *Session) ImportImage(img image.Image) error {
	if s.state != StateIdle {
		return ErrBusy
	}
	if err := s.grid.Load(grid.FromImage(img)); err != nil {
		return err
	}
	return s.cycle(GridChange{Full: true})
}

// Export writes the grid as an 8-bit gray image and returns the path written.
func (s *Session) Export(path string) (string, error) {
	written, err := imageio.Save(path, s.grid.Image())
	if err != nil {
		return written, err
	}
	log.Printf("Exported drawing to %s", written)
	s.Emit(EventExported, written)
	return written, nil
}

// cycle runs Dirty -> Classifying -> Rendered -> Idle for a mutation that has
// already been applied to the grid.
func (s *Session) cycle(change GridChange) error {
	s.state = StateDirty
	defer func() { s.state = StateIdle }()
	s.Emit(EventGridChanged, change)

	s.state = StateClassifying
	probs, err := s.classifier.Classify(s.grid.ToModelInput())
	if err != nil {
		return fmt.Errorf("failed to classify drawing: %w", err)
	}

	s.state = StateRendered
	s.prediction = probs
	s.predicted = true
	s.Emit(EventPrediction, probs)
	return nil
}
