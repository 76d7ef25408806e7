package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
)

// MemoryEnrolledStore is an in-memory EnrolledStore for tests and for running
// without a database.
type MemoryEnrolledStore struct {
	mu         sync.RWMutex
	identities map[string]config.EnrolledIdentity
}

func NewMemoryEnrolledStore() *MemoryEnrolledStore {
	return &MemoryEnrolledStore{identities: make(map[string]config.EnrolledIdentity)}
}

var _ EnrolledStore = (*MemoryEnrolledStore)(nil)

func (s *MemoryEnrolledStore) ListAll(_ context.Context) ([]config.EnrolledIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]config.EnrolledIdentity, 0, len(s.identities))
	for _, id := range s.identities {
		out = append(out, id)
	}
	return out, nil
}

func (s *MemoryEnrolledStore) Get(_ context.Context, identityID string) (*config.EnrolledIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identities[identityID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (s *MemoryEnrolledStore) Upsert(_ context.Context, identity config.EnrolledIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.identities[identity.IdentityID]; ok {
		identity.CreatedAt = existing.CreatedAt
	} else {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now
	s.identities[identity.IdentityID] = identity
	return nil
}

func (s *MemoryEnrolledStore) Delete(_ context.Context, identityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.identities, identityID)
	return nil
}

// MemoryAttendanceStore is an in-memory AttendanceStore. The mutex makes the
// count-and-insert of InsertIfUnderCap atomic, matching the SQL
// implementation's single-statement guarantee.
type MemoryAttendanceStore struct {
	mu      sync.Mutex
	records []config.AttendanceRecord
}

func NewMemoryAttendanceStore() *MemoryAttendanceStore {
	return &MemoryAttendanceStore{}
}

var _ AttendanceStore = (*MemoryAttendanceStore)(nil)

func (s *MemoryAttendanceStore) countLocked(identityID string, day time.Time) int {
	start, end := dayBounds(day)
	count := 0
	for _, rec := range s.records {
		u := rec.RecordedAt.UTC()
		if rec.IdentityID == identityID && !u.Before(start) && u.Before(end) {
			count++
		}
	}
	return count
}

func (s *MemoryAttendanceStore) CountToday(_ context.Context, identityID string, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.countLocked(identityID, day), nil
}

func (s *MemoryAttendanceStore) InsertIfUnderCap(_ context.Context, rec config.AttendanceRecord, maxPerDay int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countLocked(rec.IdentityID, rec.RecordedAt) >= maxPerDay {
		return "", false, nil
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.records = append(s.records, rec)
	return rec.ID, true, nil
}

func (s *MemoryAttendanceStore) ListDay(_ context.Context, day time.Time) ([]config.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := dayBounds(day)
	var out []config.AttendanceRecord
	for _, rec := range s.records {
		u := rec.RecordedAt.UTC()
		if !u.Before(start) && u.Before(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}
