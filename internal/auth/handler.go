package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atelier-lms/atelier/internal/authz"
	"github.com/atelier-lms/atelier/internal/platform/httpx"
	"github.com/atelier-lms/atelier/internal/shared"
)

// Operation ids registered by this module.
const (
	OpLogin   = "auth.login"
	OpRefresh = "auth.refresh"
	OpLogout  = "auth.logout"
)

// Operations declares this module's entries for the authorization registry.
// Login and refresh are public with no policy: the request authenticates
// itself by payload, not by bearer token.
func Operations() []authz.Operation {
	return []authz.Operation{
		{ID: OpLogin, Public: true},
		{ID: OpRefresh, Public: true},
		{ID: OpLogout},
	}
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authz:     mw,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(OpLogin)).Post("/login", h.handleLogin)
	r.With(h.authz.Require(OpRefresh)).Post("/refresh", h.handleRefresh)
	r.With(h.authz.Require(OpLogout)).Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required,uuid4"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("email and password are required"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("refreshToken is required"))
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("refresh failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("refreshToken is required"))
		return
	}

	result, err := h.service.Logout(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("logout failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
