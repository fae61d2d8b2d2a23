package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// StudyToolDeps contains dependencies for the study tools.
type StudyToolDeps struct {
	StudyService services.StudyService
}

var confidenceEnum = []string{
	string(models.ConfidenceNotConfident),
	string(models.ConfidenceSomewhat),
	string(models.ConfidenceConfident),
}

type deleteResult struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

type statsResult struct {
	models.Stats
	Percentages map[models.Confidence]int `json:"percentages"`
}

type priorityResult struct {
	models.PriorityGroups
	Summaries []models.GroupSummary `json:"summaries"`
}

// RegisterStudyTools registers the subject, topic and revision tools.
func RegisterStudyTools(s *server.MCPServer, deps *StudyToolDeps) {
	registerListSubjectsTool(s, deps)
	registerGetSubjectTool(s, deps)
	registerCreateSubjectTool(s, deps)
	registerRenameSubjectTool(s, deps)
	registerDeleteSubjectTool(s, deps)
	registerCreateTopicTool(s, deps)
	registerSetTopicConfidenceTool(s, deps)
	registerDeleteTopicTool(s, deps)
	registerRevisionStatsTool(s, deps)
	registerRevisionPriorityTool(s, deps)
}

// ============================================================================
// Subjects
// ============================================================================

func registerListSubjectsTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"list_subjects",
		mcp.WithDescription("List every subject with its topics, in creation order."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		subjects, err := deps.StudyService.ListSubjects(ctx)
		if err != nil {
			return HandleServiceError(err, "list_subjects_failed")
		}
		return jsonResult(subjects)
	})
}

func registerGetSubjectTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"get_subject",
		mcp.WithDescription("Get one subject and its topics."),
		mcp.WithString(
			"subject_id",
			mcp.Required(),
			mcp.Description("ID of the subject"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, result := requireNonEmpty(req, "subject_id")
		if result != nil {
			return result, nil
		}

		subject, err := deps.StudyService.GetSubject(ctx, id)
		if err != nil {
			return HandleServiceError(err, "get_subject_failed")
		}
		return jsonResult(subject)
	})
}

func registerCreateSubjectTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"create_subject",
		mcp.WithDescription("Create a new subject with no topics."),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("Display name of the subject, for example 'Mathematics'"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		subject, err := deps.StudyService.CreateSubject(ctx, services.CreateSubjectInput{Name: name})
		if err != nil {
			return HandleServiceError(err, "create_subject_failed")
		}
		return jsonResult(subject)
	})
}

func registerRenameSubjectTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"rename_subject",
		mcp.WithDescription("Change a subject's name. Its topics are kept."),
		mcp.WithString(
			"subject_id",
			mcp.Required(),
			mcp.Description("ID of the subject to rename"),
		),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("New display name"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, result := requireNonEmpty(req, "subject_id")
		if result != nil {
			return result, nil
		}
		name, err := req.RequireString("name")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		subject, err := deps.StudyService.UpdateSubjectName(ctx, id, services.UpdateSubjectInput{Name: name})
		if err != nil {
			return HandleServiceError(err, "rename_subject_failed")
		}
		return jsonResult(subject)
	})
}

func registerDeleteSubjectTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"delete_subject",
		mcp.WithDescription(
			"Delete a subject and every topic in it. "+
				"Deleting an unknown subject succeeds and changes nothing.",
		),
		mcp.WithString(
			"subject_id",
			mcp.Required(),
			mcp.Description("ID of the subject to delete"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, result := requireNonEmpty(req, "subject_id")
		if result != nil {
			return result, nil
		}

		if err := deps.StudyService.DeleteSubject(ctx, id); err != nil {
			return HandleServiceError(err, "delete_subject_failed")
		}
		return jsonResult(deleteResult{Deleted: true, ID: id})
	})
}

// ============================================================================
// Topics
// ============================================================================

func registerCreateTopicTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"create_topic",
		mcp.WithDescription(
			"Add a topic to an existing subject. "+
				"Confidence defaults to not-confident when omitted.",
		),
		mcp.WithString(
			"subject_id",
			mcp.Required(),
			mcp.Description("ID of the subject the topic belongs to"),
		),
		mcp.WithString(
			"title",
			mcp.Required(),
			mcp.Description("Title of the topic, for example 'Quadratic equations'"),
		),
		mcp.WithString(
			"confidence",
			mcp.Description("Initial confidence level"),
			mcp.Enum(confidenceEnum...),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		subjectID, result := requireNonEmpty(req, "subject_id")
		if result != nil {
			return result, nil
		}
		title, err := req.RequireString("title")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		topic, err := deps.StudyService.CreateTopic(ctx, services.CreateTopicInput{
			SubjectID:  subjectID,
			Title:      title,
			Confidence: trimString(getOptionalString(req, "confidence")),
		})
		if err != nil {
			return HandleServiceError(err, "create_topic_failed")
		}
		return jsonResult(topic)
	})
}

func registerSetTopicConfidenceTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"set_topic_confidence",
		mcp.WithDescription("Record how confident the student now feels about a topic."),
		mcp.WithString(
			"topic_id",
			mcp.Required(),
			mcp.Description("ID of the topic"),
		),
		mcp.WithString(
			"confidence",
			mcp.Required(),
			mcp.Description("New confidence level"),
			mcp.Enum(confidenceEnum...),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, result := requireNonEmpty(req, "topic_id")
		if result != nil {
			return result, nil
		}
		confidence, err := req.RequireString("confidence")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		topic, err := deps.StudyService.UpdateTopicConfidence(ctx, id, services.UpdateTopicConfidenceInput{
			Confidence: trimString(confidence),
		})
		if err != nil {
			return HandleServiceError(err, "set_topic_confidence_failed")
		}
		return jsonResult(topic)
	})
}

func registerDeleteTopicTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"delete_topic",
		mcp.WithDescription("Delete a topic. Deleting an unknown topic succeeds and changes nothing."),
		mcp.WithString(
			"topic_id",
			mcp.Required(),
			mcp.Description("ID of the topic to delete"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, result := requireNonEmpty(req, "topic_id")
		if result != nil {
			return result, nil
		}

		if err := deps.StudyService.DeleteTopic(ctx, id); err != nil {
			return HandleServiceError(err, "delete_topic_failed")
		}
		return jsonResult(deleteResult{Deleted: true, ID: id})
	})
}

// ============================================================================
// Revision views
// ============================================================================

func registerRevisionStatsTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"revision_stats",
		mcp.WithDescription("Count topics per confidence level across all subjects, with rounded percentages."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := deps.StudyService.GetStats(ctx)
		if err != nil {
			return HandleServiceError(err, "revision_stats_failed")
		}

		percentages := make(map[models.Confidence]int, len(models.ConfidenceLevels))
		for _, level := range models.ConfidenceLevels {
			percentages[level] = stats.Percent(level)
		}
		return jsonResult(statsResult{Stats: stats, Percentages: percentages})
	})
}

func registerRevisionPriorityTool(s *server.MCPServer, deps *StudyToolDeps) {
	tool := mcp.NewTool(
		"revision_priority",
		mcp.WithDescription(
			"Group every topic by confidence level, least confident first, "+
				"with its subject name. Use this to decide what to revise next.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups, err := deps.StudyService.GetPriorityGroups(ctx)
		if err != nil {
			return HandleServiceError(err, "revision_priority_failed")
		}
		return jsonResult(priorityResult{
			PriorityGroups: groups,
			Summaries:      services.SummarizePriorityGroups(groups),
		})
	})
}

// requireNonEmpty reads a required id argument. A non-nil result is the
// error to return to the caller.
func requireNonEmpty(req mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	value, err := req.RequireString(key)
	if err != nil {
		return "", NewErrorResult("invalid_parameters", err.Error())
	}
	value = trimString(value)
	if value == "" {
		return "", NewErrorResult("invalid_parameters", fmt.Sprintf("parameter '%s' cannot be empty", key))
	}
	return value, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
