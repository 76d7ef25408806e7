package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed strategies.yaml
var strategiesYAML []byte

// DetectionStrategy is one attempt in the detector's ordered retry sequence.
// The detector runs strategies in declaration order and stops at the first
// one that yields candidates.
type DetectionStrategy struct {
	Name           string  `yaml:"name"`
	ScaleFactor    float64 `yaml:"scale_factor"`
	MinNeighbors   int     `yaml:"min_neighbors"`
	MinSize        int     `yaml:"min_size"`
	MaxSizeFrac    float64 `yaml:"max_size_frac"`
	Equalize       bool    `yaml:"equalize"`
	FullResolution bool    `yaml:"full_resolution"`
}

type strategyFile struct {
	Strategies []DetectionStrategy `yaml:"strategies"`
}

var defaultStrategies []DetectionStrategy

func init() {
	var f strategyFile
	if err := yaml.Unmarshal(strategiesYAML, &f); err != nil {
		// Embedded file, cannot fail outside a broken build.
		panic("failed to unmarshal embedded strategies.yaml: " + err.Error())
	}
	defaultStrategies = f.Strategies
}

// DefaultDetectionStrategies returns the built-in detection retry sequence.
func DefaultDetectionStrategies() []DetectionStrategy {
	out := make([]DetectionStrategy, len(defaultStrategies))
	copy(out, defaultStrategies)
	return out
}
