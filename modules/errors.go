package modules

import "errors"

var (
	// ErrDecodeFailed reports malformed image bytes. Terminal for the request.
	ErrDecodeFailed = errors.New("cannot decode image bytes")
	// ErrNoFaceDetected reports that every detection strategy came up empty.
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrInferenceFailed reports an inference backend execution error.
	ErrInferenceFailed = errors.New("inference backend failure")
	// ErrNotEnrolled reports a verify-mode lookup miss.
	ErrNotEnrolled = errors.New("identity not enrolled")
	// ErrVariantMismatch reports an attempt to compare embeddings produced by
	// different extractor variants.
	ErrVariantMismatch = errors.New("embedding extractor variants differ")
	// ErrDimensionMismatch reports embeddings of different lengths.
	ErrDimensionMismatch = errors.New("embedding dimensions differ")
)
