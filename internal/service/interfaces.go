package service

import (
	"context"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
)

type (
	Repository interface {
		Create(any) error
		GetForm(uuid.UUID) (*entity.Form, error)
		GetFormWithQuestions(uuid.UUID) (*entity.Form, error)
		ListForms(string) ([]entity.Form, error)
		GetQuestion(uuid.UUID) (*entity.Question, error)
		UpdateForm(uuid.UUID, string, any) error
		UpdateQuestionMany(uuid.UUID, any) error
		UpdateOption(uuid.UUID, string, any) error
		DeleteForm(uuid.UUID) error

		InsertQuestion(*entity.Question) error
		DeleteQuestion(formID, questionID uuid.UUID) error
		InsertOption(*entity.Option) error
		DeleteOption(questionID, optionID uuid.UUID) error

		QuestionsByForm(uuid.UUID) ([]entity.Question, error)
		QuestionsWithAnswers(uuid.UUID) ([]entity.Question, error)
		AnswersByForm(uuid.UUID) ([]entity.Answer, error)
		CreateSubmission(uuid.UUID, []entity.NormalizedAnswer) (*entity.Response, error)
	}

	Publisher interface {
		Publish(any, string) error
	}

	Casher interface {
		AddToCash(ctx context.Context, key string, payload any) error // payload must marshal through the client
		RemoveFromCash(ctx context.Context, key string) error
	}
)
