package repositories

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ekaya-inc/study-sensei/pkg/apperrors"
	"github.com/ekaya-inc/study-sensei/pkg/models"
)

// StudyStore owns every subject and topic and guarantees that no topic ever
// references a subject that does not exist.
//
// Returned values are copies. Mutating them has no effect on the store.
type StudyStore interface {
	ListSubjects() []*models.Subject
	GetSubject(id string) (*models.Subject, error)
	CreateSubject(name string) *models.Subject
	UpdateSubjectName(id, name string) (*models.Subject, error)
	// DeleteSubject removes the subject and all of its topics as one step.
	// Returns false when the subject did not exist.
	DeleteSubject(id string) bool

	ListTopicsBySubject(subjectID string) []*models.Topic
	GetTopic(id string) (*models.Topic, error)
	CreateTopic(subjectID, title string, confidence models.Confidence) (*models.Topic, error)
	UpdateTopicConfidence(id string, confidence models.Confidence) (*models.Topic, error)
	// DeleteTopic returns false when the topic did not exist.
	DeleteTopic(id string) bool

	Counts() (subjects, topics int)
}

type subjectRecord struct {
	id   string
	name string
}

// memoryStudyStore keeps both collections behind a single lock so that a
// cascade delete and the subject check in CreateTopic are each atomic.
type memoryStudyStore struct {
	mu sync.RWMutex

	subjects     map[string]*subjectRecord
	subjectOrder []string

	topics map[string]*models.Topic
	// topicsBySubject holds topic ids per subject in insertion order.
	topicsBySubject map[string][]string

	newID func() string
}

// NewMemoryStudyStore creates an empty in-memory StudyStore.
func NewMemoryStudyStore() StudyStore {
	return &memoryStudyStore{
		subjects:        make(map[string]*subjectRecord),
		topics:          make(map[string]*models.Topic),
		topicsBySubject: make(map[string][]string),
		newID:           uuid.NewString,
	}
}

var _ StudyStore = (*memoryStudyStore)(nil)

// ============================================================================
// Subjects
// ============================================================================

func (s *memoryStudyStore) ListSubjects() []*models.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Subject, 0, len(s.subjectOrder))
	for _, id := range s.subjectOrder {
		result = append(result, s.subjectLocked(s.subjects[id]))
	}
	return result
}

func (s *memoryStudyStore) GetSubject(id string) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.subjects[id]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", id, apperrors.ErrNotFound)
	}
	return s.subjectLocked(rec), nil
}

func (s *memoryStudyStore) CreateSubject(name string) *models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &subjectRecord{id: s.uniqueIDLocked(), name: name}
	s.subjects[rec.id] = rec
	s.subjectOrder = append(s.subjectOrder, rec.id)

	return &models.Subject{ID: rec.id, Name: rec.name, Topics: []*models.Topic{}}
}

func (s *memoryStudyStore) UpdateSubjectName(id, name string) (*models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.subjects[id]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", id, apperrors.ErrNotFound)
	}
	rec.name = name
	return s.subjectLocked(rec), nil
}

func (s *memoryStudyStore) DeleteSubject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subjects[id]; !ok {
		return false
	}

	for _, topicID := range s.topicsBySubject[id] {
		delete(s.topics, topicID)
	}
	delete(s.topicsBySubject, id)
	delete(s.subjects, id)
	s.subjectOrder = slices.DeleteFunc(s.subjectOrder, func(sid string) bool { return sid == id })
	return true
}

// ============================================================================
// Topics
// ============================================================================

func (s *memoryStudyStore) ListTopicsBySubject(subjectID string) []*models.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.topicsLocked(subjectID)
}

func (s *memoryStudyStore) GetTopic(id string) (*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topic, ok := s.topics[id]
	if !ok {
		return nil, fmt.Errorf("topic %s: %w", id, apperrors.ErrNotFound)
	}
	return copyTopic(topic), nil
}

func (s *memoryStudyStore) CreateTopic(subjectID, title string, confidence models.Confidence) (*models.Topic, error) {
	if confidence == "" {
		confidence = models.ConfidenceNotConfident
	}
	if !confidence.IsValid() {
		return nil, fmt.Errorf("invalid confidence level %q: %w", confidence, apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subjects[subjectID]; !ok {
		return nil, fmt.Errorf("subject %s: %w", subjectID, apperrors.ErrInvalidReference)
	}

	topic := &models.Topic{
		ID:         s.uniqueIDLocked(),
		SubjectID:  subjectID,
		Title:      title,
		Confidence: confidence,
	}
	s.topics[topic.ID] = topic
	s.topicsBySubject[subjectID] = append(s.topicsBySubject[subjectID], topic.ID)

	return copyTopic(topic), nil
}

func (s *memoryStudyStore) UpdateTopicConfidence(id string, confidence models.Confidence) (*models.Topic, error) {
	if !confidence.IsValid() {
		return nil, fmt.Errorf("invalid confidence level %q: %w", confidence, apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[id]
	if !ok {
		return nil, fmt.Errorf("topic %s: %w", id, apperrors.ErrNotFound)
	}
	topic.Confidence = confidence
	return copyTopic(topic), nil
}

func (s *memoryStudyStore) DeleteTopic(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[id]
	if !ok {
		return false
	}

	delete(s.topics, id)
	remaining := slices.DeleteFunc(s.topicsBySubject[topic.SubjectID], func(tid string) bool { return tid == id })
	if len(remaining) == 0 {
		delete(s.topicsBySubject, topic.SubjectID)
	} else {
		s.topicsBySubject[topic.SubjectID] = remaining
	}
	return true
}

func (s *memoryStudyStore) Counts() (subjects, topics int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subjects), len(s.topics)
}

// ============================================================================
// Helpers (caller must hold s.mu)
// ============================================================================

func (s *memoryStudyStore) subjectLocked(rec *subjectRecord) *models.Subject {
	return &models.Subject{
		ID:     rec.id,
		Name:   rec.name,
		Topics: s.topicsLocked(rec.id),
	}
}

func (s *memoryStudyStore) topicsLocked(subjectID string) []*models.Topic {
	ids := s.topicsBySubject[subjectID]
	result := make([]*models.Topic, 0, len(ids))
	for _, id := range ids {
		result = append(result, copyTopic(s.topics[id]))
	}
	return result
}

// uniqueIDLocked draws ids until one is unused in both collections.
func (s *memoryStudyStore) uniqueIDLocked() string {
	for {
		id := s.newID()
		_, subjectTaken := s.subjects[id]
		_, topicTaken := s.topics[id]
		if !subjectTaken && !topicTaken {
			return id
		}
	}
}

func copyTopic(t *models.Topic) *models.Topic {
	c := *t
	return &c
}
