package service

import (
	"testing"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func uuidptr(id uuid.UUID) *uuid.UUID { return &id }

func TestNormalizeAnswers_OneRecordPerEntry(t *testing.T) {
	shortID := uuid.New()
	oneID := uuid.New()
	manyID := uuid.New()
	optionB := uuid.New()
	optionsXY := []uuid.UUID{uuid.New(), uuid.New()}

	answers, err := NormalizeAnswers(map[uuid.UUID]entity.AnswerPayload{
		shortID: {Type: entity.ShortResponse, Text: strptr("hello")},
		oneID:   {Type: entity.SelectOne, OptionID: uuidptr(optionB)},
		manyID:  {Type: entity.SelectMany, OptionIDs: optionsXY},
	})

	require.NoError(t, err)
	require.Len(t, answers, 3)

	byQuestion := make(map[uuid.UUID]entity.NormalizedAnswer, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer
	}

	short := byQuestion[shortID]
	assert.Equal(t, entity.ShortResponse, short.Type)
	require.NotNil(t, short.AnswerText)
	assert.Equal(t, "hello", *short.AnswerText)
	assert.Nil(t, short.OptionID)
	assert.Nil(t, short.OptionIDs)

	one := byQuestion[oneID]
	assert.Equal(t, entity.SelectOne, one.Type)
	assert.Nil(t, one.AnswerText)
	require.NotNil(t, one.OptionID)
	assert.Equal(t, optionB, *one.OptionID)
	assert.Nil(t, one.OptionIDs)

	many := byQuestion[manyID]
	assert.Equal(t, entity.SelectMany, many.Type)
	assert.Nil(t, many.AnswerText)
	assert.Nil(t, many.OptionID)
	assert.Equal(t, optionsXY, many.OptionIDs)
}

func TestNormalizeAnswers_Deterministic(t *testing.T) {
	payloads := make(map[uuid.UUID]entity.AnswerPayload)
	for i := 0; i < 20; i++ {
		payloads[uuid.New()] = entity.AnswerPayload{
			Type: entity.ShortResponse,
			Text: strptr("answer"),
		}
	}

	first, err := NormalizeAnswers(payloads)
	require.NoError(t, err)

	// Map iteration order varies between runs; the normalized output
	// must not.
	for i := 0; i < 5; i++ {
		again, err := NormalizeAnswers(payloads)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNormalizeAnswers_UnknownType(t *testing.T) {
	_, err := NormalizeAnswers(map[uuid.UUID]entity.AnswerPayload{
		uuid.New(): {Type: "RANKING"},
	})

	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestNormalizeAnswers_MissingVariant(t *testing.T) {
	_, err := NormalizeAnswers(map[uuid.UUID]entity.AnswerPayload{
		uuid.New(): {Type: entity.ShortResponse},
	})
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = NormalizeAnswers(map[uuid.UUID]entity.AnswerPayload{
		uuid.New(): {Type: entity.SelectOne},
	})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestNormalizeAnswers_SelectManyAllowsEmptySelection(t *testing.T) {
	questionID := uuid.New()

	answers, err := NormalizeAnswers(map[uuid.UUID]entity.AnswerPayload{
		questionID: {Type: entity.SelectMany},
	})

	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Empty(t, answers[0].OptionIDs)
}

func TestService_SubmitForm_Success(t *testing.T) {
	service, _, mockRepo, mockPublisher := setupService()

	formID := uuid.New()
	questionID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1", Published: true}
	response := &entity.Response{ID: uuid.New()}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("CreateSubmission", formID, mock.MatchedBy(func(answers []entity.NormalizedAnswer) bool {
		return len(answers) == 1 && answers[0].QuestionID == questionID
	})).Return(response, nil)
	mockPublisher.On("Publish", mock.Anything, entity.EventResponseSubmitted).Return(nil)

	got, err := service.SubmitForm(formID, map[uuid.UUID]entity.AnswerPayload{
		questionID: {Type: entity.ShortResponse, Text: strptr("hi")},
	})

	assert.NoError(t, err)
	assert.Equal(t, response.ID, got.ID)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestService_SubmitForm_FormNotFound(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()

	mockRepo.On("GetForm", formID).Return(nil, entity.ErrNotFound)

	_, err := service.SubmitForm(formID, map[uuid.UUID]entity.AnswerPayload{})

	assert.ErrorIs(t, err, entity.ErrNotFound)
	mockRepo.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
}

func TestService_SubmitForm_InvalidPayloadRejectedBeforePersist(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}

	mockRepo.On("GetForm", formID).Return(form, nil)

	_, err := service.SubmitForm(formID, map[uuid.UUID]entity.AnswerPayload{
		uuid.New(): {Type: "RANKING"},
	})

	assert.ErrorIs(t, err, entity.ErrValidation)
	mockRepo.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
}
