package users

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
	OpList   = "users.list"
	OpGet    = "users.get"
	OpCreate = "users.create"
	OpUpdate = "users.update"
	OpDelete = "users.delete"
)

// Operations declares this module's entries for the authorization registry.
// Get and update have no policy: any authenticated principal reaches the
// use-case, which enforces admin-or-self.
func Operations() []authz.Operation {
	return []authz.Operation{
		{ID: OpList, Policy: shared.Allow(shared.MatchRole(shared.RoleAdmin))},
		{ID: OpGet},
		{ID: OpCreate, Policy: shared.Allow(shared.MatchRole(shared.RoleAdmin))},
		{ID: OpUpdate},
		{ID: OpDelete, Policy: shared.Allow(shared.MatchRole(shared.RoleAdmin))},
	}
}

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, validator: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(OpList)).Get("/", h.list)
	r.With(h.authz.Require(OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(OpUpdate)).Patch("/{id}", h.update)
	r.With(h.authz.Require(OpDelete)).Delete("/{id}", h.remove)
}

type createUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Name     string   `json:"name" validate:"required,max=200"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles" validate:"omitempty,dive,required"`
}

type updateUserRequest struct {
	Name   *string  `json:"name" validate:"omitempty,max=200"`
	Active *bool    `json:"active"`
	Roles  []string `json:"roles" validate:"omitempty,dive,required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	req, perr := httpx.PageRequestFromQuery(r)
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	result, err := h.service.List(r.Context(), principal, req)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	id, perr := httpx.PathID(r, "id")
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	result, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.logger.Error("get user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid user payload"))
		return
	}
	roles, perr := parseRoles(req.Roles)
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	result, err := h.service.Create(r.Context(), principal, CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Roles:    roles,
	})
	if err != nil {
		h.logger.Error("create user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusCreated, result.Value())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	id, perr := httpx.PathID(r, "id")
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid user payload"))
		return
	}
	var roles []shared.Role
	if req.Roles != nil {
		parsed, perr := parseRoles(req.Roles)
		if perr != nil {
			httpx.RespondError(w, perr)
			return
		}
		roles = parsed
	}
	result, err := h.service.Update(r.Context(), principal, id, UpdateUserInput{
		Name:   req.Name,
		Active: req.Active,
		Roles:  roles,
	})
	if err != nil {
		h.logger.Error("update user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	id, perr := httpx.PathID(r, "id")
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	result, err := h.service.Delete(r.Context(), principal, id)
	if err != nil {
		h.logger.Error("delete user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseRoles(names []string) ([]shared.Role, *shared.Error) {
	roles := make([]shared.Role, 0, len(names))
	for _, name := range names {
		role, err := shared.ParseRole(name)
		if err != nil {
			return nil, shared.BadRequestError("unknown role %q", name)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
