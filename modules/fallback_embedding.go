package modules

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"gorgonia.org/tensor"
)

// HOGExtractor is the degraded-mode extractor used when no trained model is
// available: block-wise gradient orientation histograms over the prepared
// face tensor. Its vectors are tagged with their own variant because they are
// not comparable with model embeddings.
type HOGExtractor struct {
	inputSize int
	gridCells int
	bins      int
	logger    *slog.Logger
}

func NewHOGExtractor(inputSize int, logger *slog.Logger) (*HOGExtractor, error) {
	const gridCells = 8
	if inputSize < gridCells {
		return nil, fmt.Errorf("input size %d is below the %d-cell grid", inputSize, gridCells)
	}
	return &HOGExtractor{
		inputSize: inputSize,
		gridCells: gridCells,
		bins:      8,
		logger:    logger,
	}, nil
}

func (e *HOGExtractor) Variant() config.ExtractorVariant {
	return config.VariantHOG
}

func (e *HOGExtractor) InputSize() int {
	return e.inputSize
}

// Embed computes an 8×8-cell, 8-bin gradient orientation histogram (512
// dimensions) from a prepared (1, 3, S, S) tensor and unit-normalizes it.
// Deterministic for a given input.
func (e *HOGExtractor) Embed(t *tensor.Dense) ([]float32, error) {
	shape := t.Shape()
	if len(shape) != 4 || shape[0] != 1 || shape[1] != 3 {
		return nil, fmt.Errorf("expected tensor of shape (1, 3, S, S), got %v", shape)
	}
	side := shape[2]
	if shape[3] != side {
		return nil, fmt.Errorf("expected square input, got %v", shape)
	}
	if side != e.inputSize {
		return nil, fmt.Errorf("expected side %d, got %d", e.inputSize, side)
	}

	data := t.Float32s()
	plane := side * side

	// Luminance from the RGB planes.
	gray := make([]float32, plane)
	for i := range gray {
		gray[i] = 0.299*data[i] + 0.587*data[plane+i] + 0.114*data[2*plane+i]
	}

	feat := make([]float32, e.gridCells*e.gridCells*e.bins)
	cellSize := side / e.gridCells
	for y := 1; y < side-1; y++ {
		for x := 1; x < side-1; x++ {
			gx := float64(gray[y*side+x+1] - gray[y*side+x-1])
			gy := float64(gray[(y+1)*side+x] - gray[(y-1)*side+x])
			mag := math.Sqrt(gx*gx + gy*gy)
			if mag == 0 {
				continue
			}

			angle := math.Atan2(gy, gx)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			bin := int(angle/(2*math.Pi)*float64(e.bins)) % e.bins

			cy := y / cellSize
			if cy >= e.gridCells {
				cy = e.gridCells - 1
			}
			cx := x / cellSize
			if cx >= e.gridCells {
				cx = e.gridCells - 1
			}
			feat[(cy*e.gridCells+cx)*e.bins+bin] += float32(mag)
		}
	}

	return NormalizeEmbedding(feat, e.logger), nil
}
