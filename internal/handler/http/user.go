package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/internal/service"
	"github.com/0xsarwagya/thahrav-new/pkg/httputil"
	"github.com/0xsarwagya/thahrav-new/pkg/middleware"
	"github.com/0xsarwagya/thahrav-new/pkg/validator"
)

// UserHandler handles HTTP requests for the current-user profile endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		middleware.WriteUnauthorized(w)
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to fetch user data", h.logger)
		return
	}

	httputil.WriteData(w, user)
}

// UpdateProfile handles PUT /api/v1/users/me
//
// The body is parsed into an untyped map first so an absent key and an
// explicit null stay distinct: absent leaves the column untouched, null
// clears it.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		middleware.WriteUnauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	upd, msg := parseProfileUpdate(raw)
	if msg != "" {
		// Expected outcome, not logged as an error.
		httputil.WriteErrorMessage(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to update user data", h.logger)
		return
	}

	httputil.WriteData(w, user)
}

// parseProfileUpdate validates the raw body into a sparse profile update.
// It returns a non-empty message on the first failing rule.
func parseProfileUpdate(raw map[string]json.RawMessage) (domain.ProfileUpdate, string) {
	var upd domain.ProfileUpdate

	if v, ok := raw["name"]; ok {
		upd.NameSet = true
		if string(v) != "null" {
			var name string
			if err := json.Unmarshal(v, &name); err != nil {
				return upd, "Name must be a string"
			}
			if utf8.RuneCountInString(name) < 3 {
				return upd, "Name must be at least 3 characters"
			}
			if utf8.RuneCountInString(name) > 50 {
				return upd, "Name cannot exceed 50 characters"
			}
			upd.Name = &name
		}
	}

	if v, ok := raw["image"]; ok {
		upd.ImageSet = true
		if string(v) != "null" {
			var image string
			if err := json.Unmarshal(v, &image); err != nil {
				return upd, "Image must be a string"
			}
			if !validator.Check(image, "url") {
				return upd, "Please provide a valid URL for the image"
			}
			upd.Image = &image
		}
	}

	// At least one of the two must carry a value; two explicit nulls are as
	// empty as an empty body.
	if upd.Name == nil && upd.Image == nil {
		return upd, "At least one field (name or image) is required for update"
	}

	return upd, ""
}
