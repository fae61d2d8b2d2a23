package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/study-sensei/pkg/apperrors"
	"github.com/ekaya-inc/study-sensei/pkg/logging"
	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/repositories"
)

// StudyService is the single entry point to subjects and topics for every
// transport. Inputs are validated before they reach the store.
type StudyService interface {
	// ListSubjects returns all subjects with their topics, in creation order.
	ListSubjects(ctx context.Context) ([]*models.Subject, error)

	// GetSubject returns apperrors.ErrNotFound for an unknown id.
	GetSubject(ctx context.Context, id string) (*models.Subject, error)

	CreateSubject(ctx context.Context, input CreateSubjectInput) (*models.Subject, error)

	// UpdateSubjectName replaces only the subject's name.
	UpdateSubjectName(ctx context.Context, id string, input UpdateSubjectInput) (*models.Subject, error)

	// DeleteSubject removes the subject together with its topics.
	// Unknown ids are not an error.
	DeleteSubject(ctx context.Context, id string) error

	// ListTopics returns apperrors.ErrNotFound when the subject does not exist.
	ListTopics(ctx context.Context, subjectID string) ([]*models.Topic, error)

	GetTopic(ctx context.Context, id string) (*models.Topic, error)

	// CreateTopic returns apperrors.ErrInvalidReference when the subject
	// does not exist.
	CreateTopic(ctx context.Context, input CreateTopicInput) (*models.Topic, error)

	UpdateTopicConfidence(ctx context.Context, id string, input UpdateTopicConfidenceInput) (*models.Topic, error)

	// DeleteTopic is a no-op for unknown ids.
	DeleteTopic(ctx context.Context, id string) error

	// GetStats counts topics per confidence level.
	GetStats(ctx context.Context) (models.Stats, error)

	// GetPriorityGroups partitions all topics by confidence level.
	GetPriorityGroups(ctx context.Context) (models.PriorityGroups, error)
}

type studyService struct {
	store   repositories.StudyStore
	metrics *StudyMetrics
	logger  *zap.Logger
}

// NewStudyService creates a StudyService over store. metrics may be nil.
func NewStudyService(store repositories.StudyStore, metrics *StudyMetrics, logger *zap.Logger) StudyService {
	return &studyService{
		store:   store,
		metrics: metrics,
		logger:  logger.Named("study"),
	}
}

var _ StudyService = (*studyService)(nil)

// ============================================================================
// Subjects
// ============================================================================

func (s *studyService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.store.ListSubjects(), nil
}

func (s *studyService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return s.store.GetSubject(id)
}

func (s *studyService) CreateSubject(ctx context.Context, input CreateSubjectInput) (*models.Subject, error) {
	if err := ValidateInput(input); err != nil {
		s.metrics.recordMutation("create_subject", err)
		return nil, err
	}

	subject := s.store.CreateSubject(input.Name)
	s.metrics.recordMutation("create_subject", nil)

	s.logger.Info("Created subject",
		zap.String("subject_id", subject.ID),
		logging.UserText("name", subject.Name))
	return subject, nil
}

func (s *studyService) UpdateSubjectName(ctx context.Context, id string, input UpdateSubjectInput) (*models.Subject, error) {
	if err := ValidateInput(input); err != nil {
		s.metrics.recordMutation("update_subject", err)
		return nil, err
	}

	subject, err := s.store.UpdateSubjectName(id, input.Name)
	s.metrics.recordMutation("update_subject", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Renamed subject",
		zap.String("subject_id", subject.ID),
		logging.UserText("name", subject.Name))
	return subject, nil
}

func (s *studyService) DeleteSubject(ctx context.Context, id string) error {
	removed := s.store.DeleteSubject(id)
	s.metrics.recordMutation("delete_subject", nil)

	if removed {
		s.logger.Info("Deleted subject", zap.String("subject_id", id))
	} else {
		s.logger.Debug("Delete of unknown subject ignored", zap.String("subject_id", id))
	}
	return nil
}

// ============================================================================
// Topics
// ============================================================================

func (s *studyService) ListTopics(ctx context.Context, subjectID string) ([]*models.Topic, error) {
	subject, err := s.store.GetSubject(subjectID)
	if err != nil {
		return nil, err
	}
	return subject.Topics, nil
}

func (s *studyService) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	return s.store.GetTopic(id)
}

func (s *studyService) CreateTopic(ctx context.Context, input CreateTopicInput) (*models.Topic, error) {
	if err := ValidateInput(input); err != nil {
		s.metrics.recordMutation("create_topic", err)
		return nil, err
	}

	topic, err := s.store.CreateTopic(input.SubjectID, input.Title, confidenceOrDefault(input.Confidence))
	s.metrics.recordMutation("create_topic", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	s.logger.Info("Created topic",
		zap.String("topic_id", topic.ID),
		zap.String("subject_id", topic.SubjectID),
		logging.UserText("title", topic.Title),
		zap.String("confidence", topic.Confidence.String()))
	return topic, nil
}

func (s *studyService) UpdateTopicConfidence(ctx context.Context, id string, input UpdateTopicConfidenceInput) (*models.Topic, error) {
	if err := ValidateInput(input); err != nil {
		s.metrics.recordMutation("update_topic", err)
		return nil, err
	}

	topic, err := s.store.UpdateTopicConfidence(id, models.Confidence(input.Confidence))
	s.metrics.recordMutation("update_topic", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated topic confidence",
		zap.String("topic_id", topic.ID),
		zap.String("confidence", topic.Confidence.String()))
	return topic, nil
}

func (s *studyService) DeleteTopic(ctx context.Context, id string) error {
	removed := s.store.DeleteTopic(id)
	s.metrics.recordMutation("delete_topic", nil)

	if removed {
		s.logger.Info("Deleted topic", zap.String("topic_id", id))
	} else {
		s.logger.Debug("Delete of unknown topic ignored", zap.String("topic_id", id))
	}
	return nil
}

// ============================================================================
// Aggregation
// ============================================================================

func (s *studyService) GetStats(ctx context.Context) (models.Stats, error) {
	return ComputeStats(s.store.ListSubjects()), nil
}

func (s *studyService) GetPriorityGroups(ctx context.Context) (models.PriorityGroups, error) {
	return ComputePriorityGroups(s.store.ListSubjects()), nil
}

// IsClientError reports whether err was caused by the caller's input rather
// than by the service.
func IsClientError(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInvalidReference)
}
