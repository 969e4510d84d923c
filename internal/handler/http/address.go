package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/internal/service"
	"github.com/0xsarwagya/thahrav-new/pkg/httputil"
	"github.com/0xsarwagya/thahrav-new/pkg/middleware"
	"github.com/0xsarwagya/thahrav-new/pkg/validator"
)

// AddressHandler handles HTTP requests for the address endpoints.
type AddressHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address HTTP handler.
func NewAddressHandler(svc *service.UserService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateAddressRequest is the JSON request body for creating an address.
// The flag pointers distinguish an absent flag from an explicit false so the
// defaults only apply when the key is missing.
type CreateAddressRequest struct {
	Line1      string `json:"line1" validate:"required,min=1"`
	Line2      string `json:"line2"`
	State      string `json:"state" validate:"required,min=1"`
	Zip        string `json:"zip" validate:"required,min=3"`
	Country    string `json:"country" validate:"required,min=2"`
	IsDefault  *bool  `json:"is_default"`
	IsShipping *bool  `json:"is_shipping"`
	IsBilling  *bool  `json:"is_billing"`
}

// UpdateAddressRequest is the JSON request body for updating an address. The
// target id travels in the body.
type UpdateAddressRequest struct {
	ID         string  `json:"id" validate:"required,uuid"`
	Line1      *string `json:"line1" validate:"omitempty,min=1"`
	Line2      *string `json:"line2"`
	State      *string `json:"state" validate:"omitempty,min=1"`
	Zip        *string `json:"zip" validate:"omitempty,min=3"`
	Country    *string `json:"country" validate:"omitempty,min=2"`
	IsDefault  *bool   `json:"is_default"`
	IsShipping *bool   `json:"is_shipping"`
	IsBilling  *bool   `json:"is_billing"`
}

// hasUpdates reports whether any mutable field besides id is present.
func (r *UpdateAddressRequest) hasUpdates() bool {
	return r.Line1 != nil || r.Line2 != nil || r.State != nil || r.Zip != nil ||
		r.Country != nil || r.IsDefault != nil || r.IsShipping != nil || r.IsBilling != nil
}

// --- Handlers ---

// List handles GET /api/v1/users/me/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		middleware.WriteUnauthorized(w)
		return
	}

	addresses, err := h.service.ListAddresses(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to fetch addresses", h.logger)
		return
	}

	httputil.WriteData(w, addresses)
}

// Create handles POST /api/v1/users/me/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		middleware.WriteUnauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.CreateAddressInput{
		Line1:      req.Line1,
		Line2:      req.Line2,
		State:      req.State,
		Zip:        req.Zip,
		Country:    req.Country,
		IsDefault:  flagOrDefault(req.IsDefault, false),
		IsShipping: flagOrDefault(req.IsShipping, true),
		IsBilling:  flagOrDefault(req.IsBilling, false),
	}

	address, err := h.service.CreateAddress(r.Context(), userID, input)
	if err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to create address", h.logger)
		return
	}

	httputil.WriteData(w, address)
}

// Update handles PUT /api/v1/users/me/addresses
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		middleware.WriteUnauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}
	if !req.hasUpdates() {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "At least one field must be provided for update")
		return
	}

	upd := domain.AddressUpdate{
		Line1:      req.Line1,
		Line2:      req.Line2,
		State:      req.State,
		Zip:        req.Zip,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
		IsShipping: req.IsShipping,
		IsBilling:  req.IsBilling,
	}

	address, err := h.service.UpdateAddress(r.Context(), userID, req.ID, upd)
	if err != nil {
		httputil.WriteError(w, r, err, "Internal Server Error: Failed to update address", h.logger)
		return
	}

	httputil.WriteData(w, address)
}

// --- Helpers ---

// writeValidationError surfaces the first failing rule's message. Validation
// 400s are expected outcomes and are not logged as errors.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, verr.First())
		return
	}
	httputil.WriteErrorMessage(w, http.StatusBadRequest, "validation failed")
}

func flagOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
