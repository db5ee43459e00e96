package service

import (
	"context"
	"time"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCasher is a mock implementation of the Casher interface
type MockCasher struct {
	mock.Mock
}

func (m *MockCasher) AddToCash(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCasher) RemoveFromCash(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(payload interface{}) error {
	args := m.Called(payload)
	return args.Error(0)
}

func (m *MockRepository) GetForm(id uuid.UUID) (*entity.Form, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockRepository) GetFormWithQuestions(id uuid.UUID) (*entity.Form, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockRepository) ListForms(ownerID string) ([]entity.Form, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Form), args.Error(1)
}

func (m *MockRepository) GetQuestion(id uuid.UUID) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockRepository) UpdateForm(id uuid.UUID, field string, value interface{}) error {
	args := m.Called(id, field, value)
	return args.Error(0)
}

func (m *MockRepository) UpdateQuestionMany(id uuid.UUID, values interface{}) error {
	args := m.Called(id, values)
	return args.Error(0)
}

func (m *MockRepository) UpdateOption(id uuid.UUID, field string, value interface{}) error {
	args := m.Called(id, field, value)
	return args.Error(0)
}

func (m *MockRepository) DeleteForm(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepository) InsertQuestion(q *entity.Question) error {
	args := m.Called(q)
	return args.Error(0)
}

func (m *MockRepository) DeleteQuestion(formID, questionID uuid.UUID) error {
	args := m.Called(formID, questionID)
	return args.Error(0)
}

func (m *MockRepository) InsertOption(opt *entity.Option) error {
	args := m.Called(opt)
	return args.Error(0)
}

func (m *MockRepository) DeleteOption(questionID, optionID uuid.UUID) error {
	args := m.Called(questionID, optionID)
	return args.Error(0)
}

func (m *MockRepository) QuestionsByForm(formID uuid.UUID) ([]entity.Question, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockRepository) QuestionsWithAnswers(formID uuid.UUID) ([]entity.Question, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockRepository) AnswersByForm(formID uuid.UUID) ([]entity.Answer, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockRepository) CreateSubmission(formID uuid.UUID, answers []entity.NormalizedAnswer) (*entity.Response, error) {
	args := m.Called(formID, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Response), args.Error(1)
}

// MockPublisher is a mock implementation of the Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(data interface{}, event string) error {
	args := m.Called(data, event)
	return args.Error(0)
}

func setupService() (*Service, *MockCasher, *MockRepository, *MockPublisher) {
	mockCasher := &MockCasher{}
	mockRepo := &MockRepository{}
	mockPublisher := &MockPublisher{}
	service := Init(mockCasher, mockRepo, mockPublisher, 5*time.Second)
	return service, mockCasher, mockRepo, mockPublisher
}
