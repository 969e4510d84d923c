package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/pkg/database"
	apperrors "github.com/0xsarwagya/thahrav-new/pkg/errors"
)

func newTokenTestFixture(t *testing.T) (*VerificationTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewVerificationTokenRepository(mock)
	return repo, mock
}

func TestVerificationTokenRepository_Create_Success(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	tok := &domain.VerificationToken{
		Identifier: "alice@example.com",
		TokenHash:  "hash-abc",
		ExpiresAt:  now.Add(24 * time.Hour),
		CreatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO verification_tokens").
		WithArgs(tok.Identifier, tok.TokenHash, tok.ExpiresAt, tok.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tok)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationTokenRepository_Consume_Success(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	expires := now.Add(24 * time.Hour)

	mock.ExpectQuery("DELETE FROM verification_tokens").
		WithArgs("alice@example.com", "hash-abc").
		WillReturnRows(pgxmock.NewRows([]string{"identifier", "token_hash", "expires_at", "created_at"}).
			AddRow("alice@example.com", "hash-abc", expires, now))

	tok, err := repo.Consume(context.Background(), "alice@example.com", "hash-abc")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", tok.Identifier)
	assert.Equal(t, expires, tok.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationTokenRepository_Consume_AlreadyUsed(t *testing.T) {
	repo, mock := newTokenTestFixture(t)
	defer mock.Close()

	// Second consumption of the same token finds no row.
	mock.ExpectQuery("DELETE FROM verification_tokens").
		WithArgs("alice@example.com", "hash-abc").
		WillReturnError(pgx.ErrNoRows)

	tok, err := repo.Consume(context.Background(), "alice@example.com", "hash-abc")
	assert.Nil(t, tok)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
