package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/internal/event"
	"github.com/0xsarwagya/thahrav-new/internal/mailer"
	"github.com/0xsarwagya/thahrav-new/internal/repository"
	apperrors "github.com/0xsarwagya/thahrav-new/pkg/errors"
	"github.com/0xsarwagya/thahrav-new/pkg/validator"
)

// tokenTTL is the magic-link lifetime.
const tokenTTL = 24 * time.Hour

// AuthService implements the passwordless sign-in flow: mint a single-use
// token, mail the link, and on callback consume the token and upsert the user.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.VerificationTokenRepository
	mail      mailer.Mailer
	producer  *event.Producer
	secret    []byte
	baseURL   string
	logger    *slog.Logger

	now func() time.Time
}

// NewAuthService creates a new auth service. secret keys the HMAC that hashes
// tokens at rest; baseURL is the public origin magic links point at.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.VerificationTokenRepository,
	mail mailer.Mailer,
	producer *event.Producer,
	secret, baseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mail:      mail,
		producer:  producer,
		secret:    []byte(secret),
		baseURL:   baseURL,
		logger:    logger,
		now:       time.Now,
	}
}

// SignIn mints a single-use token for the email and mails the magic link.
// The outcome never reveals whether the address belongs to a known user.
func (s *AuthService) SignIn(ctx context.Context, email string) error {
	if !validator.Check(email, "required,email") {
		return apperrors.InvalidInput("Please provide a valid email address")
	}

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate sign-in token: %w", err)
	}

	now := s.now().UTC()
	record := &domain.VerificationToken{
		Identifier: email,
		TokenHash:  s.hashToken(token),
		ExpiresAt:  now.Add(tokenTTL),
		CreatedAt:  now,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("store sign-in token: %w", err)
	}

	link := s.magicLink(email, token)
	if err := s.mail.Send(ctx, mailer.MagicLinkMessage(email, link)); err != nil {
		return fmt.Errorf("send sign-in email: %w", err)
	}

	if err := s.producer.PublishSignInRequested(ctx, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish auth.signin_requested event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "magic link sent", slog.String("email", email))

	return nil
}

// Callback consumes the token from a magic link and returns the signed-in
// user, creating the row on first sign-in. Unknown, already-used and expired
// tokens all fail the same way.
func (s *AuthService) Callback(ctx context.Context, email, token string) (*domain.User, error) {
	if email == "" || token == "" {
		return nil, apperrors.Unauthorized("Invalid or expired sign-in link")
	}

	record, err := s.tokenRepo.Consume(ctx, email, s.hashToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired sign-in link")
		}
		return nil, fmt.Errorf("consume sign-in token: %w", err)
	}

	now := s.now().UTC()
	if record.Expired(now) {
		return nil, apperrors.Unauthorized("Invalid or expired sign-in link")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.EmailVerified == nil {
			if err := s.userRepo.SetEmailVerified(ctx, user.ID, now); err != nil {
				s.logger.ErrorContext(ctx, "failed to record email verification",
					slog.String("user_id", user.ID),
					slog.String("error", err.Error()),
				)
			} else {
				user.EmailVerified = &now
			}
		}
	case errors.Is(err, apperrors.ErrNotFound):
		user, err = s.registerUser(ctx, email, now)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("look up user: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// registerUser creates the user row on first sign-in.
func (s *AuthService) registerUser(ctx context.Context, email string, now time.Time) (*domain.User, error) {
	user := &domain.User{
		ID:            uuid.New().String(),
		Email:         email,
		EmailVerified: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// magicLink builds the callback URL carrying the raw token.
func (s *AuthService) magicLink(email, token string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return s.baseURL + "/api/v1/auth/callback?" + q.Encode()
}

// hashToken computes the keyed hash stored at rest; the raw token only ever
// travels in the email.
func (s *AuthService) hashToken(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// generateToken returns a URL-safe token with 256 bits of entropy.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
