package modules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/utils"
	"gorgonia.org/tensor"
)

// patternTensor builds a (1, 3, size, size) tensor with a diagonal intensity
// ramp so gradients are non-zero everywhere.
func patternTensor(size int) *tensor.Dense {
	data := make([]float32, 3*size*size)
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := float32(math.Sin(float64(x)*0.3) + math.Cos(float64(y)*0.2))
			data[y*size+x] = v
			data[plane+y*size+x] = v
			data[2*plane+y*size+x] = v
		}
	}
	return tensor.New(tensor.WithShape(1, 3, size, size), tensor.WithBacking(data))
}

func flatTensor(size int) *tensor.Dense {
	data := make([]float32, 3*size*size)
	for i := range data {
		data[i] = 0.5
	}
	return tensor.New(tensor.WithShape(1, 3, size, size), tensor.WithBacking(data))
}

func TestHOGExtractor_EmbedUnitNorm(t *testing.T) {
	extractor, err := NewHOGExtractor(112, nil)
	assert.NoError(t, err)

	emb, err := extractor.Embed(patternTensor(112))
	assert.NoError(t, err)
	assert.Len(t, emb, 512)
	assert.InDelta(t, 1.0, utils.L2Norm(emb), 1e-4)
}

func TestHOGExtractor_EmbedDeterministic(t *testing.T) {
	extractor, err := NewHOGExtractor(112, nil)
	assert.NoError(t, err)

	a, err := extractor.Embed(patternTensor(112))
	assert.NoError(t, err)
	b, err := extractor.Embed(patternTensor(112))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHOGExtractor_FlatImageZeroSentinel(t *testing.T) {
	extractor, err := NewHOGExtractor(112, nil)
	assert.NoError(t, err)

	// No gradients anywhere degenerates to the zero sentinel.
	emb, err := extractor.Embed(flatTensor(112))
	assert.NoError(t, err)
	assert.Len(t, emb, 512)
	for _, v := range emb {
		assert.Equal(t, float32(0), v)
	}
}

func TestHOGExtractor_RejectsBadShape(t *testing.T) {
	extractor, err := NewHOGExtractor(112, nil)
	assert.NoError(t, err)

	bad := tensor.New(tensor.WithShape(3, 112, 112), tensor.Of(tensor.Float32))
	_, err = extractor.Embed(bad)
	assert.Error(t, err)

	rect := tensor.New(tensor.WithShape(1, 3, 112, 96), tensor.Of(tensor.Float32))
	_, err = extractor.Embed(rect)
	assert.Error(t, err)
}

func TestNewHOGExtractor_RejectsTinyInputSize(t *testing.T) {
	// Anything below one grid cell per pixel would divide by zero in the
	// cell assignment.
	for _, size := range []int{0, 1, 4, 7} {
		_, err := NewHOGExtractor(size, nil)
		assert.Error(t, err, "size %d", size)
	}

	_, err := NewHOGExtractor(8, nil)
	assert.NoError(t, err)
}

func TestHOGExtractor_RejectsMismatchedSide(t *testing.T) {
	extractor, err := NewHOGExtractor(112, nil)
	assert.NoError(t, err)

	// Well-formed tensor of the wrong side must error, not panic.
	small := tensor.New(tensor.WithShape(1, 3, 4, 4), tensor.Of(tensor.Float32))
	_, err = extractor.Embed(small)
	assert.Error(t, err)
}

func TestHOGExtractor_Variant(t *testing.T) {
	extractor, err := NewHOGExtractor(112, nil)
	assert.NoError(t, err)
	assert.Equal(t, config.VariantHOG, extractor.Variant())
	assert.Equal(t, 112, extractor.InputSize())
}
