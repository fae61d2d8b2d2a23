package services

import (
	"fmt"

	"github.com/jinzhu/inflection"

	"github.com/ekaya-inc/study-sensei/pkg/models"
)

var groupHeadings = map[models.Confidence]string{
	models.ConfidenceNotConfident: "Need Attention",
	models.ConfidenceSomewhat:     "Getting There",
	models.ConfidenceConfident:    "Ready",
}

// ComputeStats counts topics per confidence level across subjects.
func ComputeStats(subjects []*models.Subject) models.Stats {
	var stats models.Stats
	for _, subject := range subjects {
		for _, topic := range subject.Topics {
			stats.Total++
			switch topic.Confidence {
			case models.ConfidenceConfident:
				stats.Confident++
			case models.ConfidenceSomewhat:
				stats.Somewhat++
			case models.ConfidenceNotConfident:
				stats.NotConfident++
			}
		}
	}
	return stats
}

// ComputePriorityGroups flattens every topic, annotates it with its subject's
// name and partitions by confidence. Order within a bucket follows the subject
// listing, then each subject's topic order.
func ComputePriorityGroups(subjects []*models.Subject) models.PriorityGroups {
	groups := models.PriorityGroups{
		NotConfident: []models.GroupedTopic{},
		Somewhat:     []models.GroupedTopic{},
		Confident:    []models.GroupedTopic{},
	}
	for _, subject := range subjects {
		for _, topic := range subject.Topics {
			grouped := models.GroupedTopic{Topic: *topic, SubjectName: subject.Name}
			switch topic.Confidence {
			case models.ConfidenceNotConfident:
				groups.NotConfident = append(groups.NotConfident, grouped)
			case models.ConfidenceSomewhat:
				groups.Somewhat = append(groups.Somewhat, grouped)
			case models.ConfidenceConfident:
				groups.Confident = append(groups.Confident, grouped)
			}
		}
	}
	return groups
}

// SummarizePriorityGroups describes each non-empty bucket, most urgent first.
func SummarizePriorityGroups(groups models.PriorityGroups) []models.GroupSummary {
	summaries := []models.GroupSummary{}
	for _, level := range models.ConfidenceLevels {
		count := len(groups.Group(level))
		if count == 0 {
			continue
		}
		summaries = append(summaries, models.GroupSummary{
			Confidence: level,
			Heading:    groupHeadings[level],
			Count:      count,
			Label:      countLabel(count, "topic"),
		})
	}
	return summaries
}

func countLabel(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
