package modules

import (
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/utils"
)

// Score computes the bounded similarity between two unit-normalized
// embeddings. Cosine similarity reduces to the dot product, clipped to
// [-1, 1] for floating-point safety and mapped to [0, 1] via (s+1)/2.
// Identical vectors score 1.0, orthogonal 0.5, opposite 0.0.
func Score(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	s := utils.Clip(utils.Dot(a, b), -1.0, 1.0)
	return float32((s + 1.0) / 2.0), nil
}

// VerifyResult is the outcome of a known-identity check.
type VerifyResult struct {
	Accepted   bool
	Confidence float32
}

// IdentifyResult is the outcome of an open-set search. Match is nil when no
// candidate reached the threshold; Best carries the best score seen either
// way, for diagnostics.
type IdentifyResult struct {
	Match *config.MatchResult
	Best  float32
}

// IdentityResolver compares probe embeddings against enrolled ones under a
// fixed acceptance threshold.
type IdentityResolver struct {
	Threshold float32
}

func NewIdentityResolver(threshold float32) *IdentityResolver {
	return &IdentityResolver{Threshold: threshold}
}

// Verify scores one probe against one enrolled identity. Cross-variant
// comparisons are rejected outright.
func (r *IdentityResolver) Verify(probe []float32, probeVariant config.ExtractorVariant, enrolled config.EnrolledIdentity) (*VerifyResult, error) {
	if enrolled.Variant != probeVariant {
		return nil, ErrVariantMismatch
	}

	confidence, err := Score(probe, enrolled.Embedding)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Accepted:   confidence >= r.Threshold,
		Confidence: confidence,
	}, nil
}

// Identify scans the full candidate sequence for the best match. Every
// candidate is scored (the global maximum must be exact, so no early exit);
// strictly-greater comparisons keep the first of tied maxima, deterministic
// with respect to input order. An empty candidate set returns immediately
// without scoring.
func (r *IdentityResolver) Identify(probe []float32, probeVariant config.ExtractorVariant, candidates []config.EnrolledIdentity) (*IdentifyResult, error) {
	if len(candidates) == 0 {
		return &IdentifyResult{}, nil
	}

	bestIdx := -1
	var best float32
	for i, c := range candidates {
		if c.Variant != probeVariant {
			return nil, ErrVariantMismatch
		}
		s, err := Score(probe, c.Embedding)
		if err != nil {
			return nil, err
		}
		if bestIdx == -1 || s > best {
			bestIdx, best = i, s
		}
	}

	res := &IdentifyResult{Best: best}
	if best >= r.Threshold {
		winner := candidates[bestIdx]
		res.Match = &config.MatchResult{
			IdentityID:  winner.IdentityID,
			DisplayName: winner.DisplayName,
			Similarity:  best,
		}
	}
	return res, nil
}
