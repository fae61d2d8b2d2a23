package services

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/study-sensei/pkg/apperrors"
	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/repositories"
)

func newTestStudyService(t *testing.T) (StudyService, *StudyMetrics, *prometheus.Registry) {
	t.Helper()
	store := repositories.NewMemoryStudyStore()
	reg := prometheus.NewRegistry()
	metrics := NewStudyMetrics(reg, store)
	return NewStudyService(store, metrics, zap.NewNop()), metrics, reg
}

func TestStudyService_ConfidenceScenario(t *testing.T) {
	svc, _, _ := newTestStudyService(t)
	ctx := context.Background()

	math, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Math"})
	require.NoError(t, err)

	algebra, err := svc.CreateTopic(ctx, CreateTopicInput{SubjectID: math.ID, Title: "Algebra"})
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceNotConfident, algebra.Confidence)

	_, err = svc.UpdateTopicConfidence(ctx, algebra.ID, UpdateTopicConfidenceInput{Confidence: "confident"})
	require.NoError(t, err)

	subject, err := svc.GetSubject(ctx, math.ID)
	require.NoError(t, err)
	stats := ComputeStats([]*models.Subject{subject})
	assert.Equal(t, models.Stats{Total: 1, Confident: 1, Somewhat: 0, NotConfident: 0}, stats)
}

func TestStudyService_PriorityGroupsScenario(t *testing.T) {
	svc, _, _ := newTestStudyService(t)
	ctx := context.Background()

	math, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Math"})
	require.NoError(t, err)
	physics, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Physics"})
	require.NoError(t, err)

	algebra, err := svc.CreateTopic(ctx, CreateTopicInput{SubjectID: math.ID, Title: "Algebra"})
	require.NoError(t, err)
	optics, err := svc.CreateTopic(ctx, CreateTopicInput{SubjectID: physics.ID, Title: "Optics", Confidence: "not-confident"})
	require.NoError(t, err)

	groups, err := svc.GetPriorityGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups.NotConfident, 2)
	assert.Equal(t, algebra.ID, groups.NotConfident[0].ID)
	assert.Equal(t, "Math", groups.NotConfident[0].SubjectName)
	assert.Equal(t, optics.ID, groups.NotConfident[1].ID)
	assert.Equal(t, "Physics", groups.NotConfident[1].SubjectName)
}

func TestStudyService_CreateSubject_Validation(t *testing.T) {
	svc, metrics, _ := newTestStudyService(t)

	_, err := svc.CreateSubject(context.Background(), CreateSubjectInput{Name: ""})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	subjects, err := svc.ListSubjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subjects)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.mutations.WithLabelValues("create_subject", "error")))
}

func TestStudyService_CreateTopic_UnknownSubject(t *testing.T) {
	svc, _, _ := newTestStudyService(t)
	ctx := context.Background()

	_, err := svc.CreateTopic(ctx, CreateTopicInput{SubjectID: "missing", Title: "Algebra"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.True(t, IsClientError(err))

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestStudyService_UpdateTopicConfidence_NotFound(t *testing.T) {
	svc, _, _ := newTestStudyService(t)

	_, err := svc.UpdateTopicConfidence(context.Background(), "missing", UpdateTopicConfidenceInput{Confidence: "somewhat"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudyService_UpdateSubjectName_NotFound(t *testing.T) {
	svc, _, _ := newTestStudyService(t)

	_, err := svc.UpdateSubjectName(context.Background(), "missing", UpdateSubjectInput{Name: "Math"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudyService_DeleteSubject_IsIdempotent(t *testing.T) {
	svc, _, _ := newTestStudyService(t)
	ctx := context.Background()

	math, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Math"})
	require.NoError(t, err)
	_, err = svc.CreateTopic(ctx, CreateTopicInput{SubjectID: math.ID, Title: "Algebra"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubject(ctx, math.ID))
	require.NoError(t, svc.DeleteSubject(ctx, math.ID))

	_, err = svc.ListTopics(ctx, math.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestStudyService_ListTopics(t *testing.T) {
	svc, _, _ := newTestStudyService(t)
	ctx := context.Background()

	math, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Math"})
	require.NoError(t, err)
	algebra, err := svc.CreateTopic(ctx, CreateTopicInput{SubjectID: math.ID, Title: "Algebra"})
	require.NoError(t, err)

	topics, err := svc.ListTopics(ctx, math.ID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, algebra, topics[0])

	got, err := svc.GetTopic(ctx, algebra.ID)
	require.NoError(t, err)
	assert.Equal(t, algebra, got)
}

func TestStudyService_StatsInvariantHoldsAcrossRandomOperations(t *testing.T) {
	svc, _, _ := newTestStudyService(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	var subjectIDs, topicIDs []string
	pick := func(ids []string) string {
		if len(ids) == 0 || rng.Intn(10) == 0 {
			return "unknown"
		}
		return ids[rng.Intn(len(ids))]
	}

	for i := 0; i < 500; i++ {
		switch rng.Intn(6) {
		case 0:
			s, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Subject"})
			require.NoError(t, err)
			subjectIDs = append(subjectIDs, s.ID)
		case 1:
			topic, err := svc.CreateTopic(ctx, CreateTopicInput{SubjectID: pick(subjectIDs), Title: "Topic"})
			if err == nil {
				topicIDs = append(topicIDs, topic.ID)
			}
		case 2:
			level := models.ConfidenceLevels[rng.Intn(len(models.ConfidenceLevels))]
			_, _ = svc.UpdateTopicConfidence(ctx, pick(topicIDs), UpdateTopicConfidenceInput{Confidence: string(level)})
		case 3:
			_ = svc.DeleteTopic(ctx, pick(topicIDs))
		case 4:
			_ = svc.DeleteSubject(ctx, pick(subjectIDs))
		case 5:
			_, _ = svc.UpdateSubjectName(ctx, pick(subjectIDs), UpdateSubjectInput{Name: "Renamed"})
		}

		stats, err := svc.GetStats(ctx)
		require.NoError(t, err)
		require.Equal(t, stats.Total, stats.Confident+stats.Somewhat+stats.NotConfident)

		groups, err := svc.GetPriorityGroups(ctx)
		require.NoError(t, err)
		require.Equal(t, stats.Total, len(groups.NotConfident)+len(groups.Somewhat)+len(groups.Confident))
	}
}

func TestStudyService_LogsMutations(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewStudyService(repositories.NewMemoryStudyStore(), nil, zap.New(core))
	ctx := context.Background()

	subject, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Math"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSubject(ctx, subject.ID))
	require.NoError(t, svc.DeleteSubject(ctx, subject.ID))

	entries := logs.All()
	require.Len(t, entries, 2, "unknown-id delete logs at debug only")
	assert.Equal(t, "Created subject", entries[0].Message)
	assert.Equal(t, subject.ID, entries[0].ContextMap()["subject_id"])
	assert.Equal(t, "Deleted subject", entries[1].Message)
}

func TestStudyMetrics_GaugesFollowStore(t *testing.T) {
	svc, metrics, reg := newTestStudyService(t)
	ctx := context.Background()

	math, err := svc.CreateSubject(ctx, CreateSubjectInput{Name: "Math"})
	require.NoError(t, err)
	_, err = svc.CreateTopic(ctx, CreateTopicInput{SubjectID: math.ID, Title: "Algebra"})
	require.NoError(t, err)
	_, err = svc.CreateTopic(ctx, CreateTopicInput{SubjectID: math.ID, Title: "Geometry", Confidence: "confident"})
	require.NoError(t, err)

	expected := `
# HELP study_subjects Number of subjects currently stored
# TYPE study_subjects gauge
study_subjects 1
# HELP study_topics Number of topics currently stored
# TYPE study_topics gauge
study_topics 2
# HELP study_topics_by_confidence Number of topics at each confidence level
# TYPE study_topics_by_confidence gauge
study_topics_by_confidence{confidence="confident"} 1
study_topics_by_confidence{confidence="not-confident"} 1
study_topics_by_confidence{confidence="somewhat"} 0
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"study_subjects", "study_topics", "study_topics_by_confidence")
	assert.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.mutations.WithLabelValues("create_topic", "ok")))
}

func TestStudyMetrics_NilIsNoop(t *testing.T) {
	var m *StudyMetrics
	assert.NotPanics(t, func() { m.recordMutation("create_subject", nil) })
}
