package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
)

// AttendanceRepository stores visit records in PostgreSQL.
type AttendanceRepository struct {
	pool *Pool
}

func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

var _ AttendanceStore = (*AttendanceRepository)(nil)

func (r *AttendanceRepository) CountToday(ctx context.Context, identityID string, day time.Time) (int, error) {
	start, end := dayBounds(day)
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE identity_id = $1 AND recorded_at >= $2 AND recorded_at < $3`,
		identityID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting attendance for %s: %w", identityID, err)
	}
	return count, nil
}

// dayLockKey maps a timestamp to its UTC day ordinal, the second half of the
// advisory lock key for that identity and day.
func dayLockKey(t time.Time) int32 {
	start, _ := dayBounds(t)
	return int32(start.Unix() / 86400)
}

// InsertIfUnderCap checks the cap and inserts inside one transaction holding
// pg_advisory_xact_lock(hashtext(identity_id), day). Under READ COMMITTED a
// plain conditional insert reads its own snapshot and cannot see another
// session's uncommitted row, so two concurrent recognitions would both pass
// the count check; the transaction-scoped lock serializes them per identity
// and day and releases at commit or rollback.
func (r *AttendanceRepository) InsertIfUnderCap(ctx context.Context, rec config.AttendanceRecord, maxPerDay int) (string, bool, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	start, end := dayBounds(rec.RecordedAt)

	tx, err := r.pool.DB().BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("beginning attendance transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), $2)`,
		rec.IdentityID, dayLockKey(rec.RecordedAt)); err != nil {
		return "", false, fmt.Errorf("locking attendance for %s: %w", rec.IdentityID, err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE identity_id = $1 AND recorded_at >= $2 AND recorded_at < $3`,
		rec.IdentityID, start, end).Scan(&count); err != nil {
		return "", false, fmt.Errorf("counting attendance for %s: %w", rec.IdentityID, err)
	}
	if count >= maxPerDay {
		return "", false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_records (id, identity_id, display_name, confidence, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.IdentityID, rec.DisplayName, rec.Confidence, rec.RecordedAt); err != nil {
		return "", false, fmt.Errorf("recording attendance for %s: %w", rec.IdentityID, err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("committing attendance for %s: %w", rec.IdentityID, err)
	}
	return rec.ID, true, nil
}

func (r *AttendanceRepository) ListDay(ctx context.Context, day time.Time) ([]config.AttendanceRecord, error) {
	start, end := dayBounds(day)
	rows, err := r.pool.Query(ctx, `
		SELECT id, identity_id, display_name, confidence, recorded_at
		FROM attendance_records
		WHERE recorded_at >= $1 AND recorded_at < $2
		ORDER BY recorded_at`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing attendance: %w", err)
	}
	defer rows.Close()

	var records []config.AttendanceRecord
	for rows.Next() {
		var rec config.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.IdentityID, &rec.DisplayName, &rec.Confidence, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attendance records: %w", err)
	}
	return records, nil
}
