package topics

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atelier-lms/atelier/internal/authz"
	"github.com/atelier-lms/atelier/internal/platform/httpx"
	"github.com/atelier-lms/atelier/internal/shared"
)

// Operation ids registered by this module.
const (
	OpList   = "topics.list"
	OpGet    = "topics.get"
	OpCreate = "topics.create"
	OpUpdate = "topics.update"
	OpPin    = "topics.pin"
	OpDelete = "topics.delete"
)

var anyRole = regexp.MustCompile(`.*`)

// Operations declares this module's entries for the authorization registry.
func Operations() []authz.Operation {
	return []authz.Operation{
		{ID: OpList, Public: true, Policy: shared.Allow(shared.MatchPattern(anyRole))},
		{ID: OpGet, Public: true, Policy: shared.Allow(shared.MatchPattern(anyRole))},
		{ID: OpCreate, Policy: shared.Deny(shared.MatchRole(shared.RoleGuest))},
		{ID: OpUpdate},
		{ID: OpPin, Policy: shared.Allow(shared.MatchRole(shared.RoleAdmin))},
		{ID: OpDelete},
	}
}

// Handler manages topic endpoints.
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

// MountRoutes registers topic routes. The list endpoint scopes to a course
// via the course query parameter.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(OpList)).Get("/", h.list)
	r.With(h.authz.Require(OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(OpUpdate)).Patch("/{id}", h.update)
	r.With(h.authz.Require(OpPin)).Post("/{id}/pin", h.pin)
	r.With(h.authz.Require(OpDelete)).Delete("/{id}", h.remove)
}

type createTopicRequest struct {
	CourseID int64  `json:"courseId" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body" validate:"required,max=20000"`
}

type updateTopicRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Body  *string `json:"body" validate:"omitempty,max=20000"`
}

type pinTopicRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	courseID, err := strconv.ParseInt(r.URL.Query().Get("course"), 10, 64)
	if err != nil || courseID <= 0 {
		httpx.RespondError(w, shared.BadRequestError("course query parameter is required"))
		return
	}
	req, perr := httpx.PageRequestFromQuery(r)
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	result, serr := h.service.ListByCourse(r.Context(), principal, courseID, req)
	if serr != nil {
		h.logger.Error("list topics failed", slog.Any("error", serr))
		httpx.RespondError(w, serr)
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
		h.logger.Error("get topic failed", slog.Any("error", err))
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
	var req createTopicRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid topic payload"))
		return
	}
	result, err := h.service.Create(r.Context(), principal, CreateTopicInput{
		CourseID: req.CourseID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		h.logger.Error("create topic failed", slog.Any("error", err))
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
	var req updateTopicRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("invalid topic payload"))
		return
	}
	result, err := h.service.Update(r.Context(), principal, id, UpdateTopicInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		h.logger.Error("update topic failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	httpx.JSON(w, http.StatusOK, result.Value())
}

func (h *Handler) pin(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	id, perr := httpx.PathID(r, "id")
	if perr != nil {
		httpx.RespondError(w, perr)
		return
	}
	var req pinTopicRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.BadRequestError("malformed request body"))
		return
	}
	result, err := h.service.Pin(r.Context(), principal, id, req.Pinned)
	if err != nil {
		h.logger.Error("pin topic failed", slog.Any("error", err))
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
		h.logger.Error("delete topic failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result.IsLeft() {
		httpx.RespondError(w, result.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
