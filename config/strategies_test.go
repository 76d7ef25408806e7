package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDetectionStrategies_Order(t *testing.T) {
	strategies := DefaultDetectionStrategies()
	assert.Len(t, strategies, 3)

	primary := strategies[0]
	assert.Equal(t, "primary", primary.Name)
	assert.Equal(t, 1.05, primary.ScaleFactor)
	assert.Equal(t, 4, primary.MinNeighbors)
	assert.Equal(t, 20, primary.MinSize)
	assert.Equal(t, 0.8, primary.MaxSizeFrac)
	assert.True(t, primary.Equalize)
	assert.False(t, primary.FullResolution)

	permissive := strategies[1]
	assert.Equal(t, "permissive", permissive.Name)
	assert.Equal(t, 1.1, permissive.ScaleFactor)
	assert.Equal(t, 3, permissive.MinNeighbors)
	assert.Equal(t, 15, permissive.MinSize)
	assert.False(t, permissive.Equalize)

	fullres := strategies[2]
	assert.True(t, fullres.FullResolution)
	assert.True(t, fullres.Equalize)
}

func TestDefaultDetectionStrategies_ReturnsCopy(t *testing.T) {
	first := DefaultDetectionStrategies()
	first[0].MinNeighbors = 99

	second := DefaultDetectionStrategies()
	assert.Equal(t, 4, second[0].MinNeighbors)
}
