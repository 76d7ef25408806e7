package attendance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/internal/store"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/modules"
	"gorgonia.org/tensor"
)

// fakeExtractor satisfies modules.FeatureExtractor without a backend; the
// pipeline's probe hook bypasses Embed entirely in these tests.
type fakeExtractor struct {
	variant config.ExtractorVariant
}

func (f *fakeExtractor) Embed(_ *tensor.Dense) ([]float32, error) { return nil, nil }
func (f *fakeExtractor) Variant() config.ExtractorVariant         { return f.variant }
func (f *fakeExtractor) InputSize() int                           { return 112 }

func unitVec(dim, axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1.0
	return v
}

func negate(v []float32) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

type testRig struct {
	pipeline *Pipeline
	probe    *[]float32
}

func newTestRig(maxPerDay int) *testRig {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	params := *config.DefaultFaceEmbeddingParams

	p := NewPipeline(
		nil,
		&fakeExtractor{variant: config.VariantModel},
		&params,
		modules.NewAttendancePolicy(maxPerDay),
		store.NewMemoryEnrolledStore(),
		store.NewMemoryAttendanceStore(),
		logger,
	)

	probe := make([]float32, 512)
	p.probe = func(_ []byte) ([]float32, error) {
		out := make([]float32, len(probe))
		copy(out, probe)
		return out, nil
	}
	p.now = func() time.Time {
		return time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	}

	return &testRig{pipeline: p, probe: &probe}
}

func (r *testRig) setProbe(v []float32) {
	*r.probe = v
}

func TestPipeline_EnrollThenVerify(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()
	ref := unitVec(512, 0)

	rig.setProbe(ref)
	identity, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)
	assert.Equal(t, "alice", identity.IdentityID)
	assert.Equal(t, config.VariantModel, identity.Variant)

	outcome, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, outcome.Matched)
	assert.InDelta(t, 1.0, outcome.Confidence, 1e-6)
	assert.True(t, outcome.AttendanceMarked)
	assert.NotEmpty(t, outcome.AttendanceID)
	assert.Equal(t, 1, outcome.CountToday)
}

func TestPipeline_VerifyRejectsImpostor(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()
	ref := unitVec(512, 0)

	rig.setProbe(ref)
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	rig.setProbe(negate(ref))
	outcome, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.InDelta(t, 0.0, outcome.Confidence, 1e-6)
	assert.False(t, outcome.AttendanceMarked)
	assert.Empty(t, outcome.AttendanceID)
}

func TestPipeline_VerifyUnknownIdentity(t *testing.T) {
	rig := newTestRig(2)

	_, err := rig.pipeline.Verify(context.Background(), "nobody", []byte("img"))
	assert.ErrorIs(t, err, modules.ErrNotEnrolled)
}

func TestPipeline_ReenrollReplacesEmbedding(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()

	rig.setProbe(unitVec(512, 0))
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	// Re-enroll with a different reference; the old embedding must be gone.
	rig.setProbe(unitVec(512, 1))
	_, err = rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	outcome, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, outcome.Matched)

	all, err := rig.pipeline.ListEnrolled(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPipeline_IdentifyPicksBestMatch(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()

	rig.setProbe(unitVec(512, 0))
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	rig.setProbe(unitVec(512, 1))
	_, err = rig.pipeline.Enroll(ctx, "bob", "Bob", []byte("img"))
	assert.NoError(t, err)

	rig.setProbe(unitVec(512, 1))
	outcome, err := rig.pipeline.Identify(ctx, []byte("img"))
	assert.NoError(t, err)
	assert.True(t, outcome.Matched)
	assert.Equal(t, "bob", outcome.IdentityID)
	assert.Equal(t, "Bob", outcome.DisplayName)
	assert.True(t, outcome.AttendanceMarked)
}

func TestPipeline_IdentifyEmptyGallery(t *testing.T) {
	rig := newTestRig(2)

	rig.setProbe(unitVec(512, 0))
	outcome, err := rig.pipeline.Identify(context.Background(), []byte("img"))
	assert.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.Equal(t, float32(0), outcome.BestConfidence)
	assert.False(t, outcome.AttendanceMarked)
}

func TestPipeline_IdentifyBelowThreshold(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()

	rig.setProbe(unitVec(512, 0))
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	// Orthogonal probe scores 0.5, below the 0.8 threshold.
	rig.setProbe(unitVec(512, 1))
	outcome, err := rig.pipeline.Identify(ctx, []byte("img"))
	assert.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.InDelta(t, 0.5, outcome.BestConfidence, 1e-6)
	assert.False(t, outcome.AttendanceMarked)
}

func TestPipeline_DailyCap(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()
	ref := unitVec(512, 0)

	rig.setProbe(ref)
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	first, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, first.AttendanceMarked)
	assert.Equal(t, 1, first.CountToday)
	assert.False(t, first.CapExceeded)

	second, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, second.AttendanceMarked)
	assert.Equal(t, 2, second.CountToday)

	// Third visit still matches but no longer records attendance.
	third, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, third.Matched)
	assert.False(t, third.AttendanceMarked)
	assert.True(t, third.CapExceeded)
	assert.Equal(t, 2, third.CountToday)
}

func TestPipeline_CapResetsNextDay(t *testing.T) {
	rig := newTestRig(1)
	ctx := context.Background()
	ref := unitVec(512, 0)

	rig.setProbe(ref)
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	first, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, first.AttendanceMarked)

	capped, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, capped.CapExceeded)

	rig.pipeline.now = func() time.Time {
		return time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	}
	nextDay, err := rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)
	assert.True(t, nextDay.AttendanceMarked)
	assert.False(t, nextDay.CapExceeded)
}

func TestPipeline_ProbeEmbeddingDecodeFailure(t *testing.T) {
	rig := newTestRig(2)

	// Use the real image path: garbage bytes must fail before detection runs.
	rig.pipeline.probe = rig.pipeline.probeFromImage
	_, err := rig.pipeline.ProbeEmbedding([]byte("valid bytes, not an image"))
	assert.ErrorIs(t, err, modules.ErrDecodeFailed)
}

func TestPipeline_RemoveEnrolled(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()

	rig.setProbe(unitVec(512, 0))
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	assert.NoError(t, rig.pipeline.RemoveEnrolled(ctx, "alice"))

	_, err = rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.ErrorIs(t, err, modules.ErrNotEnrolled)
}

func TestPipeline_ListAttendance(t *testing.T) {
	rig := newTestRig(2)
	ctx := context.Background()

	rig.setProbe(unitVec(512, 0))
	_, err := rig.pipeline.Enroll(ctx, "alice", "Alice", []byte("img"))
	assert.NoError(t, err)

	_, err = rig.pipeline.Verify(ctx, "alice", []byte("img"))
	assert.NoError(t, err)

	records, err := rig.pipeline.ListAttendance(ctx, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].IdentityID)
}
