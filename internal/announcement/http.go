package announcement

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
	router.Post("/announcements", h.PostAnnouncement)
	router.Get("/announcements", h.GetAllAnnouncements)
	router.Get("/announcements/{id}", h.GetAnnouncement)
	router.Delete("/announcements/{id}", h.DeleteAnnouncement)
}

func (h *Handler) PostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var a Announcement
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&a); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "posting announcement", "classID", a.ClassID, "authorID", a.AuthorID)
	created, err := h.service.PostAnnouncement(r.Context(), &a)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)

	classID := 0
	if raw := r.URL.Query().Get("classId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
			return
		}
		classID = id
	}

	announcements, err := h.service.GetAllAnnouncements(r.Context(), classID, limit, offset)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, announcements)
}

func (h *Handler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid announcement ID")
		return
	}

	a, err := h.service.GetAnnouncementByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid announcement ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting announcement", "id", id)
	if err := h.service.DeleteAnnouncement(r.Context(), id); err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
