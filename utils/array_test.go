package utils

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesToT32_Float32(t *testing.T) {
	want := []float32{1.5, -2.25, 0}
	buf := make([]byte, 4*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	got := BytesToT32[float32](buf)
	assert.Equal(t, want, got)
}

func TestBytesToT32_Int32(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], uint32(42))
	binary.LittleEndian.PutUint32(buf[4:], uint32(0xFFFFFFFF))

	got := BytesToT32[int32](buf)
	assert.Equal(t, []int32{42, -1}, got)
}

func TestBytesToT32_Empty(t *testing.T) {
	assert.Nil(t, BytesToT32[float32](nil))
	assert.Nil(t, BytesToT32[float32]([]byte{}))
}
