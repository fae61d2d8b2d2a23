package models

import (
	"math"
)

// Stats counts topics per confidence level across all subjects.
// Confident + Somewhat + NotConfident always equals Total.
type Stats struct {
	Total        int `json:"total"`
	Confident    int `json:"confident"`
	Somewhat     int `json:"somewhat"`
	NotConfident int `json:"notConfident"`
}

// Count returns the bucket size for the given level.
func (s Stats) Count(level Confidence) int {
	switch level {
	case ConfidenceConfident:
		return s.Confident
	case ConfidenceSomewhat:
		return s.Somewhat
	case ConfidenceNotConfident:
		return s.NotConfident
	}
	return 0
}

// Percent returns the share of topics at the given level as a whole
// percentage, rounded half away from zero. Zero when there are no topics.
func (s Stats) Percent(level Confidence) int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Count(level)) / float64(s.Total) * 100))
}

// GroupedTopic is a topic annotated with the name of its owning subject.
type GroupedTopic struct {
	Topic
	SubjectName string `json:"subjectName"`
}

// PriorityGroups partitions every topic by confidence level.
type PriorityGroups struct {
	NotConfident []GroupedTopic `json:"notConfident"`
	Somewhat     []GroupedTopic `json:"somewhat"`
	Confident    []GroupedTopic `json:"confident"`
}

// Group returns the bucket for the given level.
func (g PriorityGroups) Group(level Confidence) []GroupedTopic {
	switch level {
	case ConfidenceNotConfident:
		return g.NotConfident
	case ConfidenceSomewhat:
		return g.Somewhat
	case ConfidenceConfident:
		return g.Confident
	}
	return nil
}

// GroupSummary describes one non-empty priority bucket for display.
type GroupSummary struct {
	Confidence Confidence `json:"confidence"`
	Heading    string     `json:"heading"`
	Count      int        `json:"count"`
	Label      string     `json:"label"`
}
