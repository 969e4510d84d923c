package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// MaxAge is the absolute session lifetime.
	MaxAge = 30 * 24 * time.Hour
	// UpdateAge is the sliding refresh interval: a session older than this
	// since its last refresh gets its expiry pushed out on the next request.
	UpdateAge = 24 * time.Hour
)

// Manager issues, resolves and clears sessions, pairing the store with the
// cookie plumbing.
type Manager struct {
	store  Store
	opts   CookieOptions
	logger *slog.Logger

	now func() time.Time
}

// NewManager creates a session manager. Secure controls both the cookie
// Secure attribute and the cookie name prefix.
func NewManager(store Store, secure bool, logger *slog.Logger) *Manager {
	return &Manager{
		store: store,
		opts: CookieOptions{
			Secure: secure,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Issue creates a new session for the user and sets the session cookie.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, userID, email string) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := Session{
		ID:          id,
		UserID:      userID,
		Email:       email,
		CreatedAt:   now,
		RefreshedAt: now,
		ExpiresAt:   now.Add(MaxAge),
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	SetCookie(w, s.ID, s.ExpiresAt, m.opts)
	return &s, nil
}

// Resolve looks up the session referenced by the request cookie. A missing
// cookie, unknown session or expired session all resolve to (nil, nil).
// Sessions past their refresh interval get their expiry slid forward and the
// cookie re-issued; a failed refresh is logged but does not fail resolution.
func (m *Manager) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	id := ReadCookie(r, m.opts)
	if id == "" {
		return nil, nil
	}

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if s == nil {
		return nil, nil
	}

	now := m.now().UTC()
	if now.After(s.ExpiresAt) {
		return nil, nil
	}

	if now.Sub(s.RefreshedAt) >= UpdateAge {
		refreshed := *s
		refreshed.RefreshedAt = now
		refreshed.ExpiresAt = now.Add(MaxAge)
		if err := m.store.Update(ctx, refreshed); err != nil {
			m.logger.WarnContext(ctx, "session refresh failed",
				slog.String("error", err.Error()),
			)
		} else {
			s = &refreshed
			SetCookie(w, s.ID, s.ExpiresAt, m.opts)
		}
	}

	return s, nil
}

// Clear deletes the session referenced by the request cookie, if any, and
// unsets the cookie either way.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer ClearCookie(w, m.opts)

	id := ReadCookie(r, m.opts)
	if id == "" {
		return nil
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
