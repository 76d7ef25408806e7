package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestDecodeImageToMat_GarbageBytes(t *testing.T) {
	// Valid buffer, not an image; must fail instead of yielding an empty Mat.
	_, err := DecodeImageToMat([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDecodeImageToMat_EmptyBuffer(t *testing.T) {
	_, err := DecodeImageToMat(nil)
	assert.Error(t, err)
}

func TestDecodeImageToMat_RoundTrip(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 64, 48, gocv.MatTypeCV8UC3)
	defer src.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, src)
	assert.NoError(t, err)
	defer buf.Close()

	mat, err := DecodeImageToMat(buf.GetBytes())
	assert.NoError(t, err)
	defer mat.Close()

	assert.False(t, mat.Empty())
	assert.Equal(t, 64, mat.Size()[0])
	assert.Equal(t, 48, mat.Size()[1])
}

func TestBGRToRGB(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer src.Close()

	dst := BGRToRGB(src)
	defer dst.Close()

	// Blue in BGR becomes the last channel in RGB.
	v := dst.GetVecbAt(0, 0)
	assert.Equal(t, uint8(0), v[0])
	assert.Equal(t, uint8(255), v[2])
}
