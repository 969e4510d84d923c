package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	sessions map[string]Session
	getErr   error
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]Session)}
}

func (m *memStore) Create(_ context.Context, s Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) Update(_ context.Context, s Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestManager(store Store) *Manager {
	return NewManager(store, false, testLogger())
}

func requestWithCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestManager_IssueAndResolve(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	w := httptest.NewRecorder()
	s, err := m.Issue(context.Background(), w, "u-1", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "u-1", s.UserID)
	assert.WithinDuration(t, time.Now().Add(MaxAge), s.ExpiresAt, time.Minute)

	r := requestWithCookie(t, w)
	w2 := httptest.NewRecorder()
	got, err := m.Resolve(context.Background(), w2, r)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestManager_Resolve_NoCookie(t *testing.T) {
	m := newTestManager(newMemStore())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := m.Resolve(context.Background(), httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_Resolve_UnknownSession(t *testing.T) {
	m := newTestManager(newMemStore())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "does-not-exist"})

	got, err := m.Resolve(context.Background(), httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_Resolve_ExpiredSession(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	store.sessions["expired"] = Session{
		ID:        "expired",
		UserID:    "u-1",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "expired"})

	got, err := m.Resolve(context.Background(), httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_Resolve_SlidingRefresh(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	// A session last refreshed two days ago is past the refresh interval.
	created := time.Now().UTC().Add(-48 * time.Hour)
	store.sessions["stale"] = Session{
		ID:          "stale",
		UserID:      "u-1",
		CreatedAt:   created,
		RefreshedAt: created,
		ExpiresAt:   created.Add(MaxAge),
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "stale"})

	w := httptest.NewRecorder()
	got, err := m.Resolve(context.Background(), w, r)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Expiry was pushed out and the cookie re-issued.
	assert.WithinDuration(t, time.Now().Add(MaxAge), got.ExpiresAt, time.Minute)
	assert.NotEmpty(t, w.Result().Cookies())

	stored := store.sessions["stale"]
	assert.WithinDuration(t, time.Now(), stored.RefreshedAt, time.Minute)
}

func TestManager_Resolve_FreshSessionNotRefreshed(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	now := time.Now().UTC()
	store.sessions["fresh"] = Session{
		ID:          "fresh",
		UserID:      "u-1",
		CreatedAt:   now,
		RefreshedAt: now,
		ExpiresAt:   now.Add(MaxAge),
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "fresh"})

	w := httptest.NewRecorder()
	_, err := m.Resolve(context.Background(), w, r)
	require.NoError(t, err)

	// No cookie re-issue for a session inside the refresh interval.
	assert.Empty(t, w.Result().Cookies())
}

func TestManager_Clear(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)

	w := httptest.NewRecorder()
	s, err := m.Issue(context.Background(), w, "u-1", "alice@example.com")
	require.NoError(t, err)

	r := requestWithCookie(t, w)
	w2 := httptest.NewRecorder()
	require.NoError(t, m.Clear(context.Background(), w2, r))

	_, ok := store.sessions[s.ID]
	assert.False(t, ok)

	// The clearing cookie must be expired.
	cookies := w2.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
