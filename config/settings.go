package config

import (
	"os"
	"strconv"
)

// Settings holds process configuration read from environment variables.
// A .env file is loaded by the CLI before Settings is built.
type Settings struct {
	DatabaseURL  string
	MaxOpenConns int
	MaxIdleConns int

	TritonURL   string
	ModelName   string
	CascadeFile string

	APIKey              string
	ConfidenceThreshold float32
	MaxAttendancePerDay int

	Host string
	Port int

	// UseFallbackExtractor switches the pipeline to the degraded-mode
	// gradient histogram extractor when no trained model is reachable.
	UseFallbackExtractor bool
}

func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

func LoadSettings() *Settings {
	return &Settings{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
		MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),

		TritonURL:   envString("TRITON_URL", "127.0.0.1:8001"),
		ModelName:   envString("EMBEDDING_MODEL_NAME", DefaultFaceEmbeddingParams.ModelName),
		CascadeFile: envString("CASCADE_FILE", DefaultFaceDetectorParams.CascadeFile),

		APIKey:              os.Getenv("API_KEY"),
		ConfidenceThreshold: float32(envFloat("CONFIDENCE_THRESHOLD", float64(DefaultFaceEmbeddingParams.Threshold))),
		MaxAttendancePerDay: envInt("MAX_ATTENDANCE_PER_DAY", DefaultAttendancePolicyParams.MaxPerDay),

		Host: envString("HOST", "0.0.0.0"),
		Port: envInt("PORT", 8000),

		UseFallbackExtractor: envBool("USE_FALLBACK_EXTRACTOR"),
	}
}
