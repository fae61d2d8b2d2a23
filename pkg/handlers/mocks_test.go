package handlers

import (
	"context"

	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// failingStudyService returns err from every method. Used to drive the
// internal-failure paths that the in-memory service never takes.
type failingStudyService struct {
	err error
}

func (m *failingStudyService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return nil, m.err
}
func (m *failingStudyService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return nil, m.err
}
func (m *failingStudyService) CreateSubject(ctx context.Context, input services.CreateSubjectInput) (*models.Subject, error) {
	return nil, m.err
}
func (m *failingStudyService) UpdateSubjectName(ctx context.Context, id string, input services.UpdateSubjectInput) (*models.Subject, error) {
	return nil, m.err
}
func (m *failingStudyService) DeleteSubject(ctx context.Context, id string) error {
	return m.err
}
func (m *failingStudyService) ListTopics(ctx context.Context, subjectID string) ([]*models.Topic, error) {
	return nil, m.err
}
func (m *failingStudyService) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	return nil, m.err
}
func (m *failingStudyService) CreateTopic(ctx context.Context, input services.CreateTopicInput) (*models.Topic, error) {
	return nil, m.err
}
func (m *failingStudyService) UpdateTopicConfidence(ctx context.Context, id string, input services.UpdateTopicConfidenceInput) (*models.Topic, error) {
	return nil, m.err
}
func (m *failingStudyService) DeleteTopic(ctx context.Context, id string) error {
	return m.err
}
func (m *failingStudyService) GetStats(ctx context.Context) (models.Stats, error) {
	return models.Stats{}, m.err
}
func (m *failingStudyService) GetPriorityGroups(ctx context.Context) (models.PriorityGroups, error) {
	return models.PriorityGroups{}, m.err
}

var _ services.StudyService = (*failingStudyService)(nil)
