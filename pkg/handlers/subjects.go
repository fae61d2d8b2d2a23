package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// SubjectsHandler handles subject HTTP requests.
type SubjectsHandler struct {
	studyService services.StudyService
	logger       *zap.Logger
}

// NewSubjectsHandler creates a new subjects handler.
func NewSubjectsHandler(studyService services.StudyService, logger *zap.Logger) *SubjectsHandler {
	return &SubjectsHandler{
		studyService: studyService,
		logger:       logger,
	}
}

// RegisterRoutes registers the subject routes on the given mux.
func (h *SubjectsHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/subjects"

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
	mux.HandleFunc("GET "+base+"/{id}/topics", h.ListTopics)
}

// List handles GET /api/subjects
func (h *SubjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.studyService.ListSubjects(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "subject", "list_subjects_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, subjects)
}

// Get handles GET /api/subjects/{id}
func (h *SubjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseSubjectID(w, r, h.logger)
	if !ok {
		return
	}

	subject, err := h.studyService.GetSubject(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "subject", "get_subject_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, subject)
}

// Create handles POST /api/subjects
func (h *SubjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSubjectInput
	if err := decodeJSONBody(r, w, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid subject data")
		return
	}

	subject, err := h.studyService.CreateSubject(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "subject", "create_subject_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, subject)
}

// Update handles PATCH /api/subjects/{id}
func (h *SubjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseSubjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateSubjectInput
	if err := decodeJSONBody(r, w, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid subject data")
		return
	}

	subject, err := h.studyService.UpdateSubjectName(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "subject", "update_subject_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, subject)
}

// Delete handles DELETE /api/subjects/{id}. Deleting an unknown subject
// succeeds.
func (h *SubjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseSubjectID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.studyService.DeleteSubject(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "subject", "delete_subject_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTopics handles GET /api/subjects/{id}/topics
func (h *SubjectsHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseSubjectID(w, r, h.logger)
	if !ok {
		return
	}

	topics, err := h.studyService.ListTopics(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "subject", "list_topics_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, topics)
}
