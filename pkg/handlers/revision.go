package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// StatsResponse for GET /api/stats
type StatsResponse struct {
	models.Stats
	Percentages StatsPercentages `json:"percentages"`
}

// StatsPercentages holds each bucket's share of all topics.
type StatsPercentages struct {
	Confident    int `json:"confident"`
	Somewhat     int `json:"somewhat"`
	NotConfident int `json:"notConfident"`
}

// PriorityResponse for GET /api/priority
type PriorityResponse struct {
	models.PriorityGroups
	Summaries []models.GroupSummary `json:"summaries"`
}

// RevisionHandler serves the aggregated revision views.
type RevisionHandler struct {
	studyService services.StudyService
	logger       *zap.Logger
}

// NewRevisionHandler creates a new revision handler.
func NewRevisionHandler(studyService services.StudyService, logger *zap.Logger) *RevisionHandler {
	return &RevisionHandler{
		studyService: studyService,
		logger:       logger,
	}
}

// RegisterRoutes registers the revision routes on the given mux.
func (h *RevisionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /api/priority", h.Priority)
}

// Stats handles GET /api/stats
func (h *RevisionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.studyService.GetStats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "stats", "get_stats_failed")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, StatsResponse{
		Stats: stats,
		Percentages: StatsPercentages{
			Confident:    stats.Percent(models.ConfidenceConfident),
			Somewhat:     stats.Percent(models.ConfidenceSomewhat),
			NotConfident: stats.Percent(models.ConfidenceNotConfident),
		},
	})
}

// Priority handles GET /api/priority
func (h *RevisionHandler) Priority(w http.ResponseWriter, r *http.Request) {
	groups, err := h.studyService.GetPriorityGroups(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "priority", "get_priority_failed")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, PriorityResponse{
		PriorityGroups: groups,
		Summaries:      services.SummarizePriorityGroups(groups),
	})
}
