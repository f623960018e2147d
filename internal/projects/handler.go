package projects

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
	OpList   = "projects.list"
	OpGet    = "projects.get"
	OpCreate = "projects.create"
	OpUpdate = "projects.update"
	OpDelete = "projects.delete"
)

// Operations declares this module's entries for the authorization registry.
// Create uses a deny-mode policy on the guest role: any authenticated role
// may create, and new roles added later are admitted without a policy edit.
func Operations() []authz.Operation {
	return []authz.Operation{
		{ID: OpList},
		{ID: OpGet},
		{ID: OpCreate, Policy: shared.Deny(shared.MatchRole(shared.RoleGuest))},
		{ID: OpUpdate},
		{ID: OpDelete},
	}
}

// Handler manages project endpoints.
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

// MountRoutes registers project routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(OpList)).Get("/", h.list)
	r.With(h.authz.Require(OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(OpUpdate)).Patch("/{id}", h.update)
	r.With(h.authz.Require(OpDelete)).Delete("/{id}", h.remove)
}

type createProjectRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Summary  string `json:"summary" validate:"max=2000"`
	CourseID *int64 `json:"courseId" validate:"omitempty,gt=0"`
}

type updateProjectRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Summary *string `json:"summary" validate:"omitempty,max=2000"`
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
		h.logger.Error("list projects failed", slog.Any("error", err))
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
		h.logger.Error("get project failed", slog.Any("error", err))
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
	var req createProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid project payload"))
		return
	}
	result, err := h.service.Create(r.Context(), principal, CreateProjectInput{
		Name:     req.Name,
		Summary:  req.Summary,
		CourseID: req.CourseID,
	})
	if err != nil {
		h.logger.Error("create project failed", slog.Any("error", err))
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
	var req updateProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid project payload"))
		return
	}
	result, err := h.service.Update(r.Context(), principal, id, UpdateProjectInput{
		Name:    req.Name,
		Summary: req.Summary,
	})
	if err != nil {
		h.logger.Error("update project failed", slog.Any("error", err))
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
		h.logger.Error("delete project failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
