package submission

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
	router.Post("/submissions", h.CreateSubmission)
	router.Get("/submissions", h.GetAllSubmissions)
	router.Get("/submissions/{id}", h.GetSubmission)
	router.Patch("/submissions/{id}", h.UpdateSubmission)
	router.Delete("/submissions/{id}", h.DeleteSubmission)

	router.Post("/submissions/{id}/attachments", h.AddAttachment)
	router.Get("/submissions/{id}/attachments", h.ListAttachments)
	router.Delete("/submissions/{id}/attachments/{attachmentID}", h.DeleteAttachment)
}

// CreateRequest is the caller's view of a new submission: the attempt number
// is never accepted from outside, the sequencer assigns it.
type CreateRequest struct {
	AssignmentID int      `json:"assignmentId" validate:"required,gt=0"`
	StudentID    int      `json:"studentId" validate:"required,gt=0"`
	Grade        *float64 `json:"grade" validate:"omitempty,gte=0"`
	Feedback     *string  `json:"feedback"`
}

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "creating submission",
		"assignment_id", req.AssignmentID, "student_id", req.StudentID)

	created, err := h.service.CreateSubmission(r.Context(), &Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		Grade:        req.Grade,
		Feedback:     req.Feedback,
	})
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllSubmissions(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)
	assignmentID, _ := strconv.Atoi(r.URL.Query().Get("assignment_id"))
	studentID, _ := strconv.Atoi(r.URL.Query().Get("student_id"))

	subs, err := h.service.GetAllSubmissions(r.Context(), assignmentID, studentID, limit, offset)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	sub, err := h.service.GetSubmissionByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid submission ID")
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

	h.logger.InfoContext(r.Context(), "updating submission", "id", id)
	updated, err := h.service.UpdateSubmission(r.Context(), id, patch)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting submission", "id", id)
	removed, err := h.service.DeleteSubmission(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]int64{"rowsRemoved": removed})
}

func (h *Handler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	var att Attachment
	if err := json.NewDecoder(r.Body).Decode(&att); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	att.SubmissionID = id
	if err := h.validate.Struct(&att); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "adding attachment",
		"submission_id", id, "kind", att.Kind)
	created, err := h.service.AddAttachment(r.Context(), &att)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	atts, err := h.service.ListAttachments(r.Context(), id)
	if err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, atts)
}

func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}
	attachmentID, err := strconv.Atoi(chi.URLParam(r, "attachmentID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid attachment ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting attachment",
		"submission_id", id, "attachment_id", attachmentID)
	if err := h.service.DeleteAttachment(r.Context(), id, attachmentID); err != nil {
		httputil.RespondWithDomainError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
