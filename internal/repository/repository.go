package repository

import (
	"context"
	"time"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateProfile applies a sparse update to the user's display attributes
	// and returns the updated row. Absent fields are left untouched; explicit
	// nulls clear the column.
	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error)

	// SetEmailVerified records the moment the user's email was verified.
	SetEmailVerified(ctx context.Context, id string, at time.Time) error
}

// AddressRepository defines the interface for address persistence operations.
// All reads and writes are scoped to an owner: an address is only ever visible
// to, or mutable by, the user it belongs to.
type AddressRepository interface {
	// Create inserts a new address into the store.
	Create(ctx context.Context, address *domain.Address) error

	// ListByUserID returns all addresses belonging to the given user,
	// newest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.Address, error)

	// UpdateOwned applies a sparse update to the address identified by id,
	// but only if it belongs to userID. A non-existent or foreign address
	// yields ErrNotFound; ownership failures are indistinguishable from
	// absence.
	UpdateOwned(ctx context.Context, id, userID string, upd domain.AddressUpdate) (*domain.Address, error)
}

// VerificationTokenRepository stores single-use magic-link tokens.
type VerificationTokenRepository interface {
	// Create stores a new token hash for the given identifier.
	Create(ctx context.Context, token *domain.VerificationToken) error

	// Consume atomically deletes the token matching identifier and hash and
	// returns the deleted row. A token can only ever be consumed once;
	// a missing or already-consumed token yields ErrNotFound.
	Consume(ctx context.Context, identifier, tokenHash string) (*domain.VerificationToken, error)
}
