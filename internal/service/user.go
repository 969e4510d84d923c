package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/internal/event"
	"github.com/0xsarwagya/thahrav-new/internal/repository"
	apperrors "github.com/0xsarwagya/thahrav-new/pkg/errors"
)

// UserService implements the business logic for profile and address
// operations. Every operation is ownership-scoped: the caller's identity is
// the only key used to read or mutate rows.
type UserService struct {
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreateAddressInput holds the parameters for creating a new address. The
// flags arrive pre-defaulted by the validation layer.
type CreateAddressInput struct {
	Line1      string
	Line2      string
	State      string
	Zip        string
	Country    string
	IsDefault  bool
	IsShipping bool
	IsBilling  bool
}

// GetCurrentUser returns the caller's own user row.
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("User not found in the database")
		}
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a sparse profile update to the caller's own row and
// returns the updated user. A zero-row result is not-found, kept distinct
// from a query error.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.Empty() {
		return nil, apperrors.InvalidInput("At least one field (name or image) is required for update")
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("User not found in the database")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := s.producer.PublishProfileUpdated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.profile_updated event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", user.ID))

	return user, nil
}

// ListAddresses returns every address owned by the caller. No pagination, no
// ordering guarantee beyond the store's.
func (s *UserService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// CreateAddress inserts a new address stamped with the caller as owner and
// server-generated id and timestamps, and returns the persisted row.
func (s *UserService) CreateAddress(ctx context.Context, userID string, input CreateAddressInput) (*domain.Address, error) {
	now := time.Now().UTC()
	address := &domain.Address{
		ID:         uuid.New().String(),
		UserID:     userID,
		Line1:      input.Line1,
		Line2:      input.Line2,
		State:      input.State,
		Zip:        input.Zip,
		Country:    input.Country,
		IsDefault:  input.IsDefault,
		IsShipping: input.IsShipping,
		IsBilling:  input.IsBilling,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	if err := s.producer.PublishAddressCreated(ctx, address); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish address.created event",
			slog.String("address_id", address.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "address created",
		slog.String("address_id", address.ID),
		slog.String("user_id", userID),
	)

	return address, nil
}

// UpdateAddress applies a sparse update to one address, scoped to the caller.
// A target that does not exist and a target owned by someone else are the
// same outcome on purpose: zero rows matched, reported as not-found without
// revealing which case it was.
func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID string, upd domain.AddressUpdate) (*domain.Address, error) {
	if upd.Empty() {
		return nil, apperrors.InvalidInput("At least one field must be provided for update")
	}

	address, err := s.addressRepo.UpdateOwned(ctx, addressID, userID, upd)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Address not found or doesn't belong to you")
		}
		return nil, fmt.Errorf("update address: %w", err)
	}

	if err := s.producer.PublishAddressUpdated(ctx, address); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish address.updated event",
			slog.String("address_id", address.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "address updated",
		slog.String("address_id", address.ID),
		slog.String("user_id", userID),
	)

	return address, nil
}
