package config

import "time"

type FaceEmbeddingParams struct {
	ModelName string        `json:"model_name"`
	Mean      float64       `json:"mean"`
	Scale     float64       `json:"scale"`
	Threshold float32       `json:"threshold"`
	ImgSize   int           `json:"img_size"`
	Timeout   time.Duration `json:"timeout"`
}

func NewFaceEmbeddingParams(modelName string, mean, scale float64, threshold float32, imgSize int, timeout time.Duration) *FaceEmbeddingParams {
	return &FaceEmbeddingParams{
		ModelName: modelName,
		Mean:      mean,
		Scale:     scale,
		Threshold: threshold,
		ImgSize:   imgSize,
		Timeout:   timeout,
	}
}

// DefaultFaceEmbeddingParams maps byte values to [-1, 1] exactly as the
// embedding model was trained: (v - 127.5) / 127.5.
var DefaultFaceEmbeddingParams = &FaceEmbeddingParams{
	ModelName: "face_embedding",
	Mean:      127.5,
	Scale:     0.00784313725490196,
	Threshold: 0.80,
	ImgSize:   112,
	Timeout:   10 * time.Second,
}

type FaceDetectorParams struct {
	CascadeFile    string  `json:"cascade_file"`
	MaxWorkingSize int     `json:"max_working_size"`
	ClipLimit      float64 `json:"clip_limit"`
	TileGridSize   int     `json:"tile_grid_size"`
	MarginFrac     float64 `json:"margin_frac"`
	MinRegionPx    int     `json:"min_region_px"`
}

func NewFaceDetectorParams(cascadeFile string, maxWorkingSize int, clipLimit float64, tileGridSize int, marginFrac float64, minRegionPx int) *FaceDetectorParams {
	return &FaceDetectorParams{
		CascadeFile:    cascadeFile,
		MaxWorkingSize: maxWorkingSize,
		ClipLimit:      clipLimit,
		TileGridSize:   tileGridSize,
		MarginFrac:     marginFrac,
		MinRegionPx:    minRegionPx,
	}
}

var DefaultFaceDetectorParams = &FaceDetectorParams{
	CascadeFile:    "models/haarcascade_frontalface_default.xml",
	MaxWorkingSize: 640,
	ClipLimit:      2.0,
	TileGridSize:   8,
	MarginFrac:     0.10,
	MinRegionPx:    20,
}

type AttendancePolicyParams struct {
	MaxPerDay int `json:"max_per_day"`
}

func NewAttendancePolicyParams(maxPerDay int) *AttendancePolicyParams {
	return &AttendancePolicyParams{MaxPerDay: maxPerDay}
}

var DefaultAttendancePolicyParams = &AttendancePolicyParams{
	MaxPerDay: 2,
}
