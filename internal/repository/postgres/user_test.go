package postgres

import (
	"context"
	"errors"
	"fmt"
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

func newUserTestFixture(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func strptr(s string) *string { return &s }

func sampleUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:        "u-1234",
		Email:     "alice@example.com",
		Name:      strptr("Alice"),
		Image:     strptr("https://cdn.example.com/alice.png"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func userTestColumns() []string {
	return []string{"id", "email", "name", "image", "email_verified", "created_at", "updated_at"}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userTestColumns()).AddRow(
		u.ID, u.Email, u.Name, u.Image, u.EmailVerified, u.CreatedAt, u.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Name, u.Image, u.EmailVerified, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Name, u.Image, u.EmailVerified, u.CreatedAt, u.UpdatedAt).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "expected ErrInvalidInput, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID / GetByEmail
// ---------------------------------------------------------------------------

func TestUserRepository_GetByID_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id =").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Name, got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id =").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email =").
		WithArgs(u.Email).
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdateProfile
// ---------------------------------------------------------------------------

func TestUserRepository_UpdateProfile_NameOnly(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	u.Name = strptr("Ada Lovelace")

	mock.ExpectQuery(`UPDATE users SET name = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(u.Name, pgxmock.AnyArg(), u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.UpdateProfile(context.Background(), u.ID, domain.ProfileUpdate{
		NameSet: true,
		Name:    u.Name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile_ClearNameSetImage(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	u.Name = nil
	u.Image = strptr("https://x.com/a.png")

	mock.ExpectQuery(`UPDATE users SET name = \$1, image = \$2, updated_at = \$3 WHERE id = \$4 RETURNING`).
		WithArgs(pgxmock.AnyArg(), u.Image, pgxmock.AnyArg(), u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.UpdateProfile(context.Background(), u.ID, domain.ProfileUpdate{
		NameSet:  true,
		Name:     nil,
		ImageSet: true,
		Image:    u.Image,
	})
	require.NoError(t, err)
	assert.Nil(t, got.Name)
	assert.Equal(t, "https://x.com/a.png", *got.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile_RepeatedUpdateIsIdempotent(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	u.Name = strptr("Ada Lovelace")
	upd := domain.ProfileUpdate{NameSet: true, Name: u.Name}

	// The same change set produces the same statement and arguments on every
	// replay, so the stored row converges with only updated_at moving.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`UPDATE users SET name = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
			WithArgs(u.Name, pgxmock.AnyArg(), u.ID).
			WillReturnRows(userRow(u))
	}

	first, err := repo.UpdateProfile(context.Background(), u.ID, upd)
	require.NoError(t, err)
	second, err := repo.UpdateProfile(context.Background(), u.ID, upd)
	require.NoError(t, err)

	first.UpdatedAt = second.UpdatedAt
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile_NoFields(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	got, err := repo.UpdateProfile(context.Background(), "u-1", domain.ProfileUpdate{})
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestUserRepository_UpdateProfile_UserMissing(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	name := strptr("Ada")
	mock.ExpectQuery(`UPDATE users SET name = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(name, pgxmock.AnyArg(), "missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.UpdateProfile(context.Background(), "missing-id", domain.ProfileUpdate{
		NameSet: true,
		Name:    name,
	})
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// SetEmailVerified
// ---------------------------------------------------------------------------

func TestUserRepository_SetEmailVerified_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE users SET email_verified =").
		WithArgs(at, pgxmock.AnyArg(), "u-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetEmailVerified(context.Background(), "u-1234", at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetEmailVerified_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE users SET email_verified =").
		WithArgs(at, pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetEmailVerified(context.Background(), "missing-id", at)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
