package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/pkg/database"
	apperrors "github.com/0xsarwagya/thahrav-new/pkg/errors"
)

// VerificationTokenRepository implements repository.VerificationTokenRepository
// using PostgreSQL.
type VerificationTokenRepository struct {
	pool database.DBTX
}

// NewVerificationTokenRepository creates a new PostgreSQL-backed token repository.
func NewVerificationTokenRepository(pool database.DBTX) *VerificationTokenRepository {
	return &VerificationTokenRepository{pool: pool}
}

// Create stores a new token hash for the given identifier.
func (r *VerificationTokenRepository) Create(ctx context.Context, t *domain.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (identifier, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query,
		t.Identifier,
		t.TokenHash,
		t.ExpiresAt,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification token: %w", err)
	}

	return nil
}

// Consume deletes the token matching identifier and hash and returns the
// deleted row. The DELETE ... RETURNING makes consumption atomic: two
// concurrent callbacks with the same token race on the delete, and exactly
// one of them gets the row back.
func (r *VerificationTokenRepository) Consume(ctx context.Context, identifier, tokenHash string) (*domain.VerificationToken, error) {
	query := `
		DELETE FROM verification_tokens
		WHERE identifier = $1 AND token_hash = $2
		RETURNING identifier, token_hash, expires_at, created_at`

	var t domain.VerificationToken
	err := r.pool.QueryRow(ctx, query, identifier, tokenHash).Scan(
		&t.Identifier,
		&t.TokenHash,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("consume verification token: %w", err)
	}

	return &t, nil
}
