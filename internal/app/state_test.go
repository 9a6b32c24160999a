package app

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"digit-canvas/internal/grid"
	"digit-canvas/internal/imageio"
	"digit-canvas/internal/predict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier records its inputs and returns a fixed answer.
type fakeClassifier struct {
	inputs []grid.Tensor
	result predict.Probabilities
	err    error
	closed bool
}

func (f *fakeClassifier) Classify(in grid.Tensor) (predict.Probabilities, error) {
	f.inputs = append(f.inputs, in)
	return f.result, f.err
}

func (f *fakeClassifier) Close() error {
	f.closed = true
	return nil
}

func seven() predict.Probabilities {
	return predict.Probabilities{0, 0, 0, 0, 0, 0, 0, 0.9, 0.1, 0}
}

// recorder counts events by type.
type recorder struct {
	changes     []GridChange
	predictions []predict.Probabilities
	cleared     int
	imported    []string
	exported    []string
}

func record(s *Session) *recorder {
	r := &recorder{}
	s.On(EventGridChanged, func(data interface{}) { r.changes = append(r.changes, data.(GridChange)) })
	s.On(EventPrediction, func(data interface{}) {
		r.predictions = append(r.predictions, data.(predict.Probabilities))
	})
	s.On(EventPredictionCleared, func(interface{}) { r.cleared++ })
	s.On(EventImported, func(data interface{}) { r.imported = append(r.imported, data.(string)) })
	s.On(EventExported, func(data interface{}) { r.exported = append(r.exported, data.(string)) })
	return r
}

func TestStampRunsOneCycle(t *testing.T) {
	t.Parallel()

	fc := &fakeClassifier{result: seven()}
	s := NewSession(fc)
	rec := record(s)

	require.NoError(t, s.Stamp(5, 6))

	assert.Equal(t, StateIdle, s.State())
	require.Len(t, fc.inputs, 1)
	assert.Equal(t, grid.InputShape, fc.inputs[0].Shape)
	assert.Equal(t, float32(1), fc.inputs[0].At(5, 6))

	require.Len(t, rec.changes, 1)
	assert.False(t, rec.changes[0].Full)
	assert.Contains(t, rec.changes[0].Cells, grid.Cell{Row: 5, Col: 6})
	assert.Len(t, rec.changes[0].Cells, 9)

	require.Len(t, rec.predictions, 1)
	assert.Equal(t, seven(), rec.predictions[0])
	p, ok := s.Prediction()
	assert.True(t, ok)
	assert.Equal(t, seven(), p)
}

func TestStampOutsideGridIsIgnored(t *testing.T) {
	t.Parallel()

	fc := &fakeClassifier{result: seven()}
	s := NewSession(fc)
	rec := record(s)

	require.NoError(t, s.Stamp(-1, 3))
	require.NoError(t, s.Stamp(3, grid.Size))
	assert.Empty(t, fc.inputs)
	assert.Empty(t, rec.changes)
	assert.True(t, s.Grid().IsBlank())
}

func TestStampClassifierError(t *testing.T) {
	t.Parallel()

	boom := errors.New("inference failed")
	fc := &fakeClassifier{err: boom}
	s := NewSession(fc)
	rec := record(s)

	err := s.Stamp(10, 10)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, uint8(255), s.Grid().At(10, 10), "ink is kept")
	assert.Len(t, rec.changes, 1)
	assert.Empty(t, rec.predictions)
}

func TestReentrantChangeIsRejected(t *testing.T) {
	t.Parallel()

	s := NewSession(&fakeClassifier{result: seven()})
	var states []CycleState
	var inner []error
	s.On(EventGridChanged, func(interface{}) {
		states = append(states, s.State())
		inner = append(inner, s.Stamp(1, 1), s.Clear())
	})
	s.On(EventPrediction, func(interface{}) { states = append(states, s.State()) })

	require.NoError(t, s.Stamp(20, 20))
	assert.Equal(t, []CycleState{StateDirty, StateRendered}, states)
	for _, err := range inner {
		assert.ErrorIs(t, err, ErrBusy)
	}
	assert.Zero(t, s.Grid().At(1, 1))
	assert.Equal(t, StateIdle, s.State())
}

func TestClearPolicies(t *testing.T) {
	t.Parallel()

	t.Run("blank", func(t *testing.T) {
		t.Parallel()
		fc := &fakeClassifier{result: seven()}
		s := NewSession(fc)
		require.NoError(t, s.Stamp(14, 14))
		rec := record(s)

		require.NoError(t, s.Clear())
		assert.True(t, s.Grid().IsBlank())
		assert.Len(t, fc.inputs, 1, "clear must not classify")
		assert.Equal(t, 1, rec.cleared)
		require.Len(t, rec.changes, 1)
		assert.True(t, rec.changes[0].Full)
		_, ok := s.Prediction()
		assert.False(t, ok)
	})

	t.Run("classify", func(t *testing.T) {
		t.Parallel()
		fc := &fakeClassifier{result: predict.Uniform()}
		s := NewSession(fc, WithClearPolicy(ClearClassify))
		require.NoError(t, s.Stamp(14, 14))
		rec := record(s)

		require.NoError(t, s.Clear())
		require.Len(t, fc.inputs, 2)
		for _, v := range fc.inputs[1].Data {
			require.Zero(t, v)
		}
		assert.Zero(t, rec.cleared)
		assert.Len(t, rec.predictions, 1)
	})
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "digit.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestImport(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 100, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.White)
		}
	}
	path := writePNG(t, src)

	fc := &fakeClassifier{result: seven()}
	s := NewSession(fc)
	rec := record(s)

	require.NoError(t, s.Import(path))
	require.Len(t, fc.inputs, 1)
	for _, v := range fc.inputs[0].Data {
		assert.Equal(t, float32(1), v)
	}
	assert.Equal(t, []string{path}, rec.imported)
	require.Len(t, rec.changes, 1)
	assert.True(t, rec.changes[0].Full)
	assert.Len(t, rec.predictions, 1)
}

func TestImportFailureLeavesGrid(t *testing.T) {
	t.Parallel()

	bad := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(bad, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	fc := &fakeClassifier{result: seven()}
	s := NewSession(fc)
	require.NoError(t, s.Stamp(8, 8))
	before := *s.Grid()
	rec := record(s)

	err := s.Import(bad)
	var derr *imageio.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, before, *s.Grid())
	assert.Empty(t, rec.changes)
	assert.Empty(t, rec.imported)
	assert.Len(t, fc.inputs, 1)
}

func TestExport(t *testing.T) {
	t.Parallel()

	s := NewSession(&fakeClassifier{result: seven()})
	require.NoError(t, s.Stamp(3, 4))
	rec := record(s)

	written, err := s.Export(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	assert.Equal(t, []string{written}, rec.exported)

	img, err := imageio.Load(written)
	require.NoError(t, err)
	gray := grid.FromImage(img)
	assert.Equal(t, uint8(255), gray.GrayAt(4, 3).Y)
	assert.Equal(t, uint8(167), gray.GrayAt(4, 2).Y)
}

func TestExportFailure(t *testing.T) {
	t.Parallel()

	s := NewSession(&fakeClassifier{result: seven()})
	rec := record(s)
	_, err := s.Export(filepath.Join(t.TempDir(), "missing", "out.png"))
	var werr *imageio.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Empty(t, rec.exported)
}
