package assignment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"records-service/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/assignments", h.CreateAssignment)
	router.Get("/assignments", h.GetAllAssignments)
	router.Get("/assignments/{id}", h.GetAssignment)
	router.Patch("/assignments/{id}", h.UpdateAssignment)
	router.Delete("/assignments/{id}", h.DeleteAssignment)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var assignment Assignment
	if err := json.NewDecoder(r.Body).Decode(&assignment); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&assignment); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "creating assignment",
		"class_id", assignment.ClassID, "title", assignment.Title)
	created, err := h.service.CreateAssignment(r.Context(), &assignment)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllAssignments(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)
	classID, _ := strconv.Atoi(r.URL.Query().Get("class_id"))

	assignments, err := h.service.GetAllAssignments(r.Context(), classID, limit, offset)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, assignments)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	assignment, err := h.service.GetAssignmentByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	var patch Update
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&patch); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "updating assignment", "id", id)
	updated, err := h.service.UpdateAssignment(r.Context(), id, patch)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting assignment", "id", id)
	removed, err := h.service.DeleteAssignment(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]int64{"rowsRemoved": removed})
}
