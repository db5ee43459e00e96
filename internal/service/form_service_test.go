package service

import (
	"errors"
	"testing"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestService_CreateForm_Success(t *testing.T) {
	service, mockCasher, mockRepo, mockPublisher := setupService()

	full := &entity.Form{OwnerID: "user-1"}

	mockRepo.On("Create", mock.AnythingOfType("*entity.Form")).Return(nil)
	mockRepo.On("GetFormWithQuestions", mock.AnythingOfType("uuid.UUID")).
		Run(func(args mock.Arguments) {
			full.ID = args.Get(0).(uuid.UUID)
		}).
		Return(full, nil)
	mockCasher.On("AddToCash", mock.AnythingOfType("*context.timerCtx"), mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).
		Return(nil)
	mockPublisher.On("Publish", full, entity.EventFormCreated).Return(nil)

	form, err := service.CreateForm("user-1")

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, form.ID)
	assert.Equal(t, "user-1", form.OwnerID)
	mockRepo.AssertExpectations(t)
	mockCasher.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestService_CreateForm_Unauthenticated(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	_, err := service.CreateForm("")

	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestService_CreateForm_RepositoryError(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	mockRepo.On("Create", mock.AnythingOfType("*entity.Form")).
		Return(errors.New("database error"))

	_, err := service.CreateForm("user-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create form in repository")
	mockRepo.AssertExpectations(t)
}

func TestService_TogglePublish_Success(t *testing.T) {
	service, mockCasher, mockRepo, mockPublisher := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1", Published: false}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("UpdateForm", formID, "published", true).Return(nil)
	mockRepo.On("GetFormWithQuestions", formID).Return(form, nil)
	mockCasher.On("AddToCash", mock.AnythingOfType("*context.timerCtx"), formID.String(), mock.AnythingOfType("[]uint8")).
		Return(nil)
	mockPublisher.On("Publish", form, entity.EventFormUpdated).Return(nil)

	published, err := service.TogglePublish("user-1", formID)

	assert.NoError(t, err)
	assert.True(t, published)
	mockRepo.AssertExpectations(t)
	mockCasher.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestService_TogglePublish_Unauthorized(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "someone-else"}

	mockRepo.On("GetForm", formID).Return(form, nil)

	_, err := service.TogglePublish("user-1", formID)

	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	mockRepo.AssertNotCalled(t, "UpdateForm", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateTitle_Success(t *testing.T) {
	service, mockCasher, mockRepo, mockPublisher := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("UpdateForm", formID, "title", "Customer survey").Return(nil)
	mockRepo.On("GetFormWithQuestions", formID).Return(form, nil)
	mockCasher.On("AddToCash", mock.AnythingOfType("*context.timerCtx"), formID.String(), mock.AnythingOfType("[]uint8")).
		Return(nil)
	mockPublisher.On("Publish", form, entity.EventFormUpdated).Return(nil)

	err := service.UpdateTitle("user-1", formID, "Customer survey")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_AddQuestion_SeedsDefaultOption(t *testing.T) {
	service, mockCasher, mockRepo, mockPublisher := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("InsertQuestion", mock.MatchedBy(func(q *entity.Question) bool {
		return q.FormID == formID &&
			q.Type == entity.SelectOne &&
			q.OrderNumber == 2 &&
			len(q.Options) == 1 &&
			q.Options[0].OptionText == "Option 1" &&
			q.Options[0].OrderNumber == 1
	})).Return(nil)
	mockRepo.On("GetFormWithQuestions", formID).Return(form, nil)
	mockCasher.On("AddToCash", mock.AnythingOfType("*context.timerCtx"), formID.String(), mock.AnythingOfType("[]uint8")).
		Return(nil)
	mockPublisher.On("Publish", form, entity.EventFormUpdated).Return(nil)

	question, err := service.AddQuestion("user-1", formID, entity.SelectOne, 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, question.OrderNumber)
	mockRepo.AssertExpectations(t)
}

func TestService_AddQuestion_ShortResponseHasNoOptions(t *testing.T) {
	service, mockCasher, mockRepo, mockPublisher := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("InsertQuestion", mock.MatchedBy(func(q *entity.Question) bool {
		return q.Type == entity.ShortResponse && len(q.Options) == 0
	})).Return(nil)
	mockRepo.On("GetFormWithQuestions", formID).Return(form, nil)
	mockCasher.On("AddToCash", mock.AnythingOfType("*context.timerCtx"), formID.String(), mock.AnythingOfType("[]uint8")).
		Return(nil)
	mockPublisher.On("Publish", form, entity.EventFormUpdated).Return(nil)

	_, err := service.AddQuestion("user-1", formID, entity.ShortResponse, 1)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_AddQuestion_UnknownType(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}

	mockRepo.On("GetForm", formID).Return(form, nil)

	_, err := service.AddQuestion("user-1", formID, "RANKING", 1)

	assert.ErrorIs(t, err, entity.ErrValidation)
	mockRepo.AssertNotCalled(t, "InsertQuestion", mock.Anything)
}

func TestService_DeleteQuestion_Unauthorized(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "someone-else"}

	mockRepo.On("GetForm", formID).Return(form, nil)

	err := service.DeleteQuestion("user-1", formID, uuid.New())

	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	mockRepo.AssertNotCalled(t, "DeleteQuestion", mock.Anything, mock.Anything)
}

func TestService_DeleteOption_MismatchedQuestion(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()
	questionID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}
	question := &entity.Question{ID: questionID, FormID: uuid.New()}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("GetQuestion", questionID).Return(question, nil)

	err := service.DeleteOption("user-1", formID, questionID, uuid.New())

	assert.ErrorIs(t, err, entity.ErrMismatch)
	mockRepo.AssertNotCalled(t, "DeleteOption", mock.Anything, mock.Anything)
}

func TestService_FormForRespondent_PublishedGate(t *testing.T) {
	service, _, mockRepo, _ := setupService()

	formID := uuid.New()
	unpublished := &entity.Form{ID: formID, OwnerID: "owner"}

	mockRepo.On("GetForm", formID).Return(unpublished, nil)

	_, err := service.FormForRespondent("stranger", formID)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	// The owner can always preview their own unpublished form.
	form, err := service.FormForRespondent("owner", formID)
	assert.NoError(t, err)
	assert.Equal(t, formID, form.ID)
}

func TestService_DeleteForm_Success(t *testing.T) {
	service, mockCasher, mockRepo, mockPublisher := setupService()

	formID := uuid.New()
	form := &entity.Form{ID: formID, OwnerID: "user-1"}

	mockRepo.On("GetForm", formID).Return(form, nil)
	mockRepo.On("DeleteForm", formID).Return(nil)
	mockCasher.On("RemoveFromCash", mock.AnythingOfType("*context.timerCtx"), formID.String()).
		Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(data interface{}) bool {
		if payload, ok := data.(struct {
			FormID string `json:"form_id"`
		}); ok {
			return payload.FormID == formID.String()
		}
		return false
	}), entity.EventFormDeleted).Return(nil)

	err := service.DeleteForm("user-1", formID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCasher.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}
