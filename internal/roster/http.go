package roster

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
	router.Post("/teacher-classes", h.AssignTeacher)
	router.Get("/teacher-classes", h.ListTeacherClasses)
	router.Delete("/teacher-classes/{teacherID}/{classID}", h.UnassignTeacher)

	router.Post("/enrollments", h.EnrollStudent)
	router.Get("/enrollments", h.ListEnrollments)
	router.Delete("/enrollments/{userID}/{classID}", h.UnenrollStudent)
}

func (h *Handler) AssignTeacher(w http.ResponseWriter, r *http.Request) {
	var tc TeacherClass
	if err := json.NewDecoder(r.Body).Decode(&tc); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&tc); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "assigning teacher to class",
		"teacher_id", tc.TeacherID, "class_id", tc.ClassID)
	created, err := h.service.AssignTeacher(r.Context(), &tc)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListTeacherClasses(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)
	teacherID, _ := strconv.Atoi(r.URL.Query().Get("teacher_id"))
	classID, _ := strconv.Atoi(r.URL.Query().Get("class_id"))

	rows, err := h.service.ListTeacherClasses(r.Context(), teacherID, classID, limit, offset)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *Handler) UnassignTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID, err := strconv.Atoi(chi.URLParam(r, "teacherID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid teacher ID")
		return
	}
	classID, err := strconv.Atoi(chi.URLParam(r, "classID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
		return
	}

	h.logger.InfoContext(r.Context(), "unassigning teacher from class",
		"teacher_id", teacherID, "class_id", classID)
	if err := h.service.UnassignTeacher(r.Context(), teacherID, classID); err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) EnrollStudent(w http.ResponseWriter, r *http.Request) {
	var e Enrollment
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&e); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "enrolling student",
		"user_id", e.UserID, "class_id", e.ClassID)
	created, err := h.service.EnrollStudent(r.Context(), &e)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)
	userID, _ := strconv.Atoi(r.URL.Query().Get("user_id"))
	classID, _ := strconv.Atoi(r.URL.Query().Get("class_id"))

	rows, err := h.service.ListEnrollments(r.Context(), userID, classID, limit, offset)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *Handler) UnenrollStudent(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	classID, err := strconv.Atoi(chi.URLParam(r, "classID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid class ID")
		return
	}

	h.logger.InfoContext(r.Context(), "unenrolling student",
		"user_id", userID, "class_id", classID)
	if err := h.service.UnenrollStudent(r.Context(), userID, classID); err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
