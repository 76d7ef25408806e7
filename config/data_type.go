package config

import "time"

// ExtractorVariant tags the feature extractor that produced an embedding.
// Vectors from different variants live in incomparable spaces and must never
// be scored against each other.
type ExtractorVariant string

const (
	// VariantModel marks embeddings produced by the trained inference model.
	VariantModel ExtractorVariant = "model"
	// VariantHOG marks embeddings produced by the degraded-mode gradient
	// histogram extractor.
	VariantHOG ExtractorVariant = "hog"
)

type Size struct {
	Width  int
	Height int
}

func (s *Size) Max() int {
	if s.Height > s.Width {
		return s.Height
	}
	return s.Width
}

func (s *Size) Min() int {
	if s.Height < s.Width {
		return s.Height
	}
	return s.Width
}

// EnrolledIdentity is a stored reference signature for one person.
type EnrolledIdentity struct {
	IdentityID  string           `json:"identity_id"`
	DisplayName string           `json:"display_name"`
	Embedding   []float32        `json:"-"`
	Variant     ExtractorVariant `json:"variant"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AttendanceRecord is one accepted visit. Records are append-only.
type AttendanceRecord struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	DisplayName string    `json:"display_name"`
	Confidence  float32   `json:"confidence"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// MatchResult is the best-scoring enrolled identity for a probe.
type MatchResult struct {
	IdentityID  string  `json:"identity_id"`
	DisplayName string  `json:"display_name"`
	Similarity  float32 `json:"similarity"`
}

// RecognitionOutcome is the end-to-end result of a verify or identify request.
// Negative outcomes (no match, below threshold, cap exceeded) are carried here
// as values; only system failures surface as errors.
type RecognitionOutcome struct {
	Matched          bool    `json:"matched"`
	IdentityID       string  `json:"identity_id,omitempty"`
	DisplayName      string  `json:"display_name,omitempty"`
	Confidence       float32 `json:"confidence"`
	BestConfidence   float32 `json:"best_confidence"`
	AttendanceMarked bool    `json:"attendance_marked"`
	AttendanceID     string  `json:"attendance_id,omitempty"`
	CountToday       int     `json:"count_today"`
	CapExceeded      bool    `json:"cap_exceeded"`
}
