package courses

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atelier-lms/atelier/internal/authz"
	"github.com/atelier-lms/atelier/internal/platform/httpx"
	"github.com/atelier-lms/atelier/internal/shared"
)

// Operation ids registered by this module.
const (
	OpList    = "courses.list"
	OpGet     = "courses.get"
	OpCreate  = "courses.create"
	OpUpdate  = "courses.update"
	OpPublish = "courses.publish"
	OpDelete  = "courses.delete"
)

var anyRole = regexp.MustCompile(`.*`)

// Operations declares this module's entries for the authorization registry.
// List and get combine Public with a match-anything allow policy: a request
// without credentials browses as guest, while invalid credentials are still
// rejected.
func Operations() []authz.Operation {
	return []authz.Operation{
		{ID: OpList, Public: true, Policy: shared.Allow(shared.MatchPattern(anyRole))},
		{ID: OpGet, Public: true, Policy: shared.Allow(shared.MatchPattern(anyRole))},
		{ID: OpCreate, Policy: shared.Allow(shared.MatchAnyRole(shared.RoleAuthor, shared.RoleAdmin))},
		{ID: OpUpdate},
		{ID: OpPublish},
		{ID: OpDelete, Policy: shared.Allow(shared.MatchRole(shared.RoleAdmin))},
	}
}

// Handler manages course endpoints.
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

// MountRoutes registers course routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(OpList)).Get("/", h.list)
	r.With(h.authz.Require(OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(OpUpdate)).Patch("/{id}", h.update)
	r.With(h.authz.Require(OpPublish)).Post("/{id}/publish", h.publish)
	r.With(h.authz.Require(OpDelete)).Delete("/{id}", h.remove)
}

type createCourseRequest struct {
	Slug        string `json:"slug" validate:"required,max=120"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
}

type updateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
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
		h.logger.Error("list courses failed", slog.Any("error", err))
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
		h.logger.Error("get course failed", slog.Any("error", err))
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
	var req createCourseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid course payload"))
		return
	}
	result, err := h.service.Create(r.Context(), principal, CreateCourseInput{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("create course failed", slog.Any("error", err))
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
	var req updateCourseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid course payload"))
		return
	}
	result, err := h.service.Update(r.Context(), principal, id, UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("update course failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	id, perr := httpx.PathID(r, "id")
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	result, err := h.service.Publish(r.Context(), principal, id)
	if err != nil {
		h.logger.Error("publish course failed", slog.Any("error", err))
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
		h.logger.Error("delete course failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
