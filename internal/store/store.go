package store

import (
	"context"
	"time"

	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
)

// EnrolledStore persists reference embeddings. The stored vector must round-
// trip the embedding exactly: same dimension, same float32 values, no lossy
// re-encoding.
type EnrolledStore interface {
	ListAll(ctx context.Context) ([]config.EnrolledIdentity, error)
	// Get returns nil without error when the identity is not enrolled.
	Get(ctx context.Context, identityID string) (*config.EnrolledIdentity, error)
	Upsert(ctx context.Context, identity config.EnrolledIdentity) error
	Delete(ctx context.Context, identityID string) error
}

// AttendanceStore persists visit records. Records are append-only.
type AttendanceStore interface {
	CountToday(ctx context.Context, identityID string, day time.Time) (int, error)
	// InsertIfUnderCap records the visit only while the identity's count for
	// the record's calendar day is below maxPerDay. The count check and the
	// insert must be atomic with respect to concurrent calls for the same
	// identity and day. It reports the new record id and whether the insert
	// happened; a skipped insert is not an error.
	InsertIfUnderCap(ctx context.Context, rec config.AttendanceRecord, maxPerDay int) (string, bool, error)
	ListDay(ctx context.Context, day time.Time) ([]config.AttendanceRecord, error)
}

// dayBounds returns the UTC half-open interval covering t's calendar day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
