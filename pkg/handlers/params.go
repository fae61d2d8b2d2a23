package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ParseSubjectID extracts the subject ID from the request path.
// Ids are opaque, so any non-empty value is accepted; unknown ids are
// reported by the service.
// Expects path parameter: id
func ParseSubjectID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parsePathID(w, r, "id", "invalid_subject_id", "Subject ID is required", logger)
}

// ParseTopicID extracts the topic ID from the request path.
// Expects path parameter: id
func ParseTopicID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parsePathID(w, r, "id", "invalid_topic_id", "Topic ID is required", logger)
}

func parsePathID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (string, bool) {
	id := strings.TrimSpace(r.PathValue(pathParam))
	if id == "" {
		writeError(w, logger, http.StatusBadRequest, errorCode, errorMessage)
		return "", false
	}
	return id, true
}
