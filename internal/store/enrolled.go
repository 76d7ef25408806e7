package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
)

// EnrolledRepository stores reference embeddings in PostgreSQL using pgvector.
type EnrolledRepository struct {
	pool *Pool
}

func NewEnrolledRepository(pool *Pool) *EnrolledRepository {
	return &EnrolledRepository{pool: pool}
}

var _ EnrolledStore = (*EnrolledRepository)(nil)

func (r *EnrolledRepository) ListAll(ctx context.Context) ([]config.EnrolledIdentity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT identity_id, display_name, embedding, variant, created_at, updated_at
		FROM enrolled_faces
		ORDER BY identity_id`)
	if err != nil {
		return nil, fmt.Errorf("listing enrolled identities: %w", err)
	}
	defer rows.Close()

	var identities []config.EnrolledIdentity
	for rows.Next() {
		var id config.EnrolledIdentity
		var vec pgvector.Vector
		if err := rows.Scan(&id.IdentityID, &id.DisplayName, &vec, &id.Variant, &id.CreatedAt, &id.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning enrolled identity: %w", err)
		}
		id.Embedding = vec.Slice()
		identities = append(identities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrolled identities: %w", err)
	}
	return identities, nil
}

func (r *EnrolledRepository) Get(ctx context.Context, identityID string) (*config.EnrolledIdentity, error) {
	var id config.EnrolledIdentity
	var vec pgvector.Vector
	err := r.pool.QueryRow(ctx, `
		SELECT identity_id, display_name, embedding, variant, created_at, updated_at
		FROM enrolled_faces
		WHERE identity_id = $1`, identityID).
		Scan(&id.IdentityID, &id.DisplayName, &vec, &id.Variant, &id.CreatedAt, &id.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching enrolled identity %s: %w", identityID, err)
	}
	id.Embedding = vec.Slice()
	return &id, nil
}

// Upsert inserts the identity or replaces its embedding, name and variant.
// Re-enrollment keeps created_at and bumps updated_at.
func (r *EnrolledRepository) Upsert(ctx context.Context, identity config.EnrolledIdentity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO enrolled_faces (identity_id, display_name, embedding, variant, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (identity_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			embedding = EXCLUDED.embedding,
			variant = EXCLUDED.variant,
			updated_at = now()`,
		identity.IdentityID, identity.DisplayName, pgvector.NewVector(identity.Embedding), identity.Variant)
	if err != nil {
		return fmt.Errorf("upserting enrolled identity %s: %w", identity.IdentityID, err)
	}
	return nil
}

func (r *EnrolledRepository) Delete(ctx context.Context, identityID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM enrolled_faces WHERE identity_id = $1`, identityID)
	if err != nil {
		return fmt.Errorf("deleting enrolled identity %s: %w", identityID, err)
	}
	return nil
}
