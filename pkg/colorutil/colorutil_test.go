package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGray(t *testing.T) {
	t.Parallel()

	for _, v := range []uint8{0, 51, 167, 255} {
		c := Gray(v)
		assert.Equal(t, v, c.R)
		assert.Equal(t, c.R, c.G)
		assert.Equal(t, c.G, c.B)
		assert.Equal(t, uint8(255), c.A)
	}
	assert.Equal(t, Black, Gray(0))
	assert.Equal(t, White, Gray(255))
}
