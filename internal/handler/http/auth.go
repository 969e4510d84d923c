package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/0xsarwagya/thahrav-new/internal/service"
	"github.com/0xsarwagya/thahrav-new/internal/session"
	"github.com/0xsarwagya/thahrav-new/pkg/httputil"
)

// AuthHandler handles the passwordless sign-in endpoints.
type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions, logger: logger}
}

// SignInRequest is the JSON request body for requesting a magic link.
type SignInRequest struct {
	Email string `json:"email"`
}

// SignIn handles POST /api/v1/auth/signin. It always responds with the same
// neutral message on success so callers cannot probe which emails exist.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.service.SignIn(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to send sign-in email", h.logger)
		return
	}

	httputil.WriteData(w, map[string]string{
		"message": "Check your email for a sign-in link",
	})
}

// Callback handles GET /api/v1/auth/callback?email=...&token=... It consumes
// the magic-link token, establishes a session cookie, and returns the user.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")

	user, err := h.service.Callback(r.Context(), email, token)
	if err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to complete sign-in", h.logger)
		return
	}

	if _, err := h.sessions.Issue(r.Context(), w, user.ID, user.Email); err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to complete sign-in", h.logger)
		return
	}

	httputil.WriteData(w, user)
}

// SignOut handles POST /api/v1/auth/signout. Clearing an absent session is
// still a success.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context(), w, r); err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to sign out", h.logger)
		return
	}

	httputil.WriteData(w, map[string]string{
		"message": "Signed out",
	})
}
