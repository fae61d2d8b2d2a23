package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// TopicsHandler handles topic HTTP requests.
type TopicsHandler struct {
	studyService services.StudyService
	logger       *zap.Logger
}

// NewTopicsHandler creates a new topics handler.
func NewTopicsHandler(studyService services.StudyService, logger *zap.Logger) *TopicsHandler {
	return &TopicsHandler{
		studyService: studyService,
		logger:       logger,
	}
}

// RegisterRoutes registers the topic routes on the given mux.
func (h *TopicsHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/topics"

	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.UpdateConfidence)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// Get handles GET /api/topics/{id}
func (h *TopicsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTopicID(w, r, h.logger)
	if !ok {
		return
	}

	topic, err := h.studyService.GetTopic(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "topic", "get_topic_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, topic)
}

// Create handles POST /api/topics
func (h *TopicsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTopicInput
	if err := decodeJSONBody(r, w, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid topic data")
		return
	}

	topic, err := h.studyService.CreateTopic(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "topic", "create_topic_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, topic)
}

// UpdateConfidence handles PATCH /api/topics/{id}
func (h *TopicsHandler) UpdateConfidence(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTopicID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateTopicConfidenceInput
	if err := decodeJSONBody(r, w, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid topic data")
		return
	}

	topic, err := h.studyService.UpdateTopicConfidence(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "topic", "update_topic_failed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, topic)
}

// Delete handles DELETE /api/topics/{id}. Deleting an unknown topic succeeds.
func (h *TopicsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTopicID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.studyService.DeleteTopic(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "topic", "delete_topic_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
