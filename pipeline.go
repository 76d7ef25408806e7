package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/internal/store"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/modules"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/utils"
)

// Pipeline wires detection, embedding extraction, identity resolution and the
// attendance policy into the three top-level operations: Enroll, Verify and
// Identify.
type Pipeline struct {
	Detector  *modules.FaceDetector
	Extractor modules.FeatureExtractor
	Resolver  *modules.IdentityResolver
	Policy    *modules.AttendancePolicy

	enrolled   store.EnrolledStore
	attendance store.AttendanceStore

	embedParams *config.FaceEmbeddingParams
	logger      *slog.Logger
	now         func() time.Time

	// probe maps an encoded image to an embedding; overridable in tests.
	probe func(image []byte) ([]float32, error)
}

// NewPipeline initializes a pipeline from its already-constructed parts.
func NewPipeline(
	detector *modules.FaceDetector,
	extractor modules.FeatureExtractor,
	embedParams *config.FaceEmbeddingParams,
	policy *modules.AttendancePolicy,
	enrolled store.EnrolledStore,
	attendance store.AttendanceStore,
	logger *slog.Logger,
) *Pipeline {
	p := &Pipeline{
		Detector:    detector,
		Extractor:   extractor,
		Resolver:    modules.NewIdentityResolver(embedParams.Threshold),
		Policy:      policy,
		enrolled:    enrolled,
		attendance:  attendance,
		embedParams: embedParams,
		logger:      logger,
		now:         time.Now,
	}
	p.probe = p.probeFromImage
	return p
}

/*
ProbeEmbedding runs the full image-to-embedding chain: decode, detect the most
prominent face, prepare the face tensor and extract the identity signature.

Inputs:

  - image ([]byte): encoded image (JPEG or PNG).

Outputs:

  - embedding ([]float32): unit-length identity vector, or the all-zero
    sentinel for degenerate raw outputs.

Returns ErrDecodeFailed for undecodable buffers and ErrNoFaceDetected when no
face survives the detection strategy sequence.
*/
func (p *Pipeline) ProbeEmbedding(image []byte) ([]float32, error) {
	return p.probe(image)
}

func (p *Pipeline) probeFromImage(image []byte) ([]float32, error) {
	img, err := utils.DecodeImageToMat(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", modules.ErrDecodeFailed, err)
	}
	defer img.Close()

	region, err := p.Detector.Detect(*img)
	if err != nil {
		return nil, err
	}
	defer region.Close()

	t, err := modules.PrepareFaceTensor(region.Face, p.Extractor.InputSize(), p.embedParams.Mean, p.embedParams.Scale)
	if err != nil {
		return nil, err
	}

	return p.Extractor.Embed(t)
}

/*
Enroll registers or replaces an identity's reference embedding from a single
face image.

Inputs:

  - ctx (context.Context): request context.
  - identityID (string): stable identity key; re-enrollment replaces the
    stored embedding.
  - displayName (string): human-readable name carried into match results.
  - image ([]byte): encoded face image.

Outputs:

  - identity (*config.EnrolledIdentity): the stored identity record.
*/
func (p *Pipeline) Enroll(ctx context.Context, identityID, displayName string, image []byte) (*config.EnrolledIdentity, error) {
	embedding, err := p.ProbeEmbedding(image)
	if err != nil {
		return nil, err
	}

	identity := config.EnrolledIdentity{
		IdentityID:  identityID,
		DisplayName: displayName,
		Embedding:   embedding,
		Variant:     p.Extractor.Variant(),
	}
	if err := p.enrolled.Upsert(ctx, identity); err != nil {
		return nil, err
	}

	p.logger.Info("identity enrolled",
		"identity_id", identityID,
		"dim", len(embedding),
		"variant", identity.Variant,
	)
	return &identity, nil
}

/*
Verify checks a face image against one claimed identity and, on acceptance,
attempts to record attendance under the daily cap.

Inputs:

  - ctx (context.Context): request context.
  - identityID (string): the claimed identity.
  - image ([]byte): encoded face image.

Outputs:

  - outcome (*config.RecognitionOutcome): match decision, confidence and the
    attendance result.

Returns ErrNotEnrolled when the claimed identity is unknown and
ErrVariantMismatch when the stored embedding came from a different extractor.
*/
func (p *Pipeline) Verify(ctx context.Context, identityID string, image []byte) (*config.RecognitionOutcome, error) {
	enrolled, err := p.enrolled.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if enrolled == nil {
		return nil, modules.ErrNotEnrolled
	}

	embedding, err := p.ProbeEmbedding(image)
	if err != nil {
		return nil, err
	}

	result, err := p.Resolver.Verify(embedding, p.Extractor.Variant(), *enrolled)
	if err != nil {
		return nil, err
	}

	outcome := &config.RecognitionOutcome{
		Matched:        result.Accepted,
		Confidence:     result.Confidence,
		BestConfidence: result.Confidence,
	}
	if !result.Accepted {
		return outcome, nil
	}

	outcome.IdentityID = enrolled.IdentityID
	outcome.DisplayName = enrolled.DisplayName
	if err := p.markAttendance(ctx, enrolled, result.Confidence, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

/*
Identify searches the whole enrolled gallery for the best match to a face
image and, on a match, attempts to record attendance under the daily cap.

Inputs:

  - ctx (context.Context): request context.
  - image ([]byte): encoded face image.

Outputs:

  - outcome (*config.RecognitionOutcome): best-match decision, confidence and
    the attendance result. BestConfidence carries the top score even when no
    candidate reached the threshold.
*/
func (p *Pipeline) Identify(ctx context.Context, image []byte) (*config.RecognitionOutcome, error) {
	embedding, err := p.ProbeEmbedding(image)
	if err != nil {
		return nil, err
	}

	candidates, err := p.enrolled.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result, err := p.Resolver.Identify(embedding, p.Extractor.Variant(), candidates)
	if err != nil {
		return nil, err
	}

	outcome := &config.RecognitionOutcome{BestConfidence: result.Best}
	if result.Match == nil {
		return outcome, nil
	}

	outcome.Matched = true
	outcome.IdentityID = result.Match.IdentityID
	outcome.DisplayName = result.Match.DisplayName
	outcome.Confidence = result.Match.Similarity

	winner, err := p.enrolled.Get(ctx, result.Match.IdentityID)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		// Gallery changed between the scan and the lookup; report the match
		// without attendance.
		return outcome, nil
	}
	if err := p.markAttendance(ctx, winner, result.Match.Similarity, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

// markAttendance applies the daily-cap policy and persists the visit through
// the store's conditional insert. A policy refusal or a lost insert race both
// surface as CapExceeded, never as an error.
func (p *Pipeline) markAttendance(ctx context.Context, identity *config.EnrolledIdentity, confidence float32, outcome *config.RecognitionOutcome) error {
	now := p.now()
	count, err := p.attendance.CountToday(ctx, identity.IdentityID, now)
	if err != nil {
		return err
	}
	outcome.CountToday = count

	decision := p.Policy.Decide(count)
	if !decision.Allowed {
		outcome.CapExceeded = true
		return nil
	}

	id, inserted, err := p.attendance.InsertIfUnderCap(ctx, config.AttendanceRecord{
		IdentityID:  identity.IdentityID,
		DisplayName: identity.DisplayName,
		Confidence:  confidence,
		RecordedAt:  now,
	}, p.Policy.MaxPerDay)
	if err != nil {
		return err
	}
	if !inserted {
		outcome.CapExceeded = true
		return nil
	}

	outcome.AttendanceMarked = true
	outcome.AttendanceID = id
	outcome.CountToday = count + 1
	return nil
}

// ListEnrolled returns the full enrolled gallery.
func (p *Pipeline) ListEnrolled(ctx context.Context) ([]config.EnrolledIdentity, error) {
	return p.enrolled.ListAll(ctx)
}

// RemoveEnrolled deletes an identity's reference embedding. Past attendance
// records stay untouched.
func (p *Pipeline) RemoveEnrolled(ctx context.Context, identityID string) error {
	return p.enrolled.Delete(ctx, identityID)
}

// ListAttendance returns the attendance records for one calendar day.
func (p *Pipeline) ListAttendance(ctx context.Context, day time.Time) ([]config.AttendanceRecord, error) {
	return p.attendance.ListDay(ctx, day)
}
