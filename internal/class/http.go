package class

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
	router.Post("/classes", h.CreateClass)
	router.Get("/classes", h.GetAllClasses)
	router.Get("/classes/{id}", h.GetClass)
	router.Patch("/classes/{id}", h.UpdateClass)
	router.Delete("/classes/{id}", h.DeleteClass)
}

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var class Class
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&class); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "creating class", "code", class.Code)
	created, err := h.service.CreateClass(r.Context(), &class)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllClasses(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)

	classes, err := h.service.GetAllClasses(r.Context(), limit, offset)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, classes)
}

func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
		return
	}

	class, err := h.service.GetClassByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, class)
}

func (h *Handler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
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

	h.logger.InfoContext(r.Context(), "updating class", "id", id)
	updated, err := h.service.UpdateClass(r.Context(), id, patch)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting class", "id", id)
	removed, err := h.service.DeleteClass(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]int64{"rowsRemoved": removed})
}
