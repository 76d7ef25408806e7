package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TRITON_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("CONFIDENCE_THRESHOLD", "")
	t.Setenv("MAX_ATTENDANCE_PER_DAY", "")

	s := LoadSettings()
	assert.Equal(t, "127.0.0.1:8001", s.TritonURL)
	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, 8000, s.Port)
	assert.Equal(t, DefaultFaceEmbeddingParams.ModelName, s.ModelName)
	assert.Equal(t, DefaultFaceEmbeddingParams.Threshold, s.ConfidenceThreshold)
	assert.Equal(t, 2, s.MaxAttendancePerDay)
	assert.False(t, s.UseFallbackExtractor)
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.85")
	t.Setenv("MAX_ATTENDANCE_PER_DAY", "3")
	t.Setenv("USE_FALLBACK_EXTRACTOR", "true")
	t.Setenv("EMBEDDING_MODEL_NAME", "arcface_r100")

	s := LoadSettings()
	assert.Equal(t, 9090, s.Port)
	assert.InDelta(t, 0.85, float64(s.ConfidenceThreshold), 1e-6)
	assert.Equal(t, 3, s.MaxAttendancePerDay)
	assert.True(t, s.UseFallbackExtractor)
	assert.Equal(t, "arcface_r100", s.ModelName)
}

func TestLoadSettings_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("MAX_ATTENDANCE_PER_DAY", "-5")

	s := LoadSettings()
	assert.Equal(t, 8000, s.Port)
	assert.Equal(t, 2, s.MaxAttendancePerDay)
}
