// Package repository provides data persistence functionality using GORM
package repository

import (
	"errors"
	"fmt"

	"github.com/formhive/form-service/internal/entity"
	"github.com/formhive/form-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repository handles database operations using GORM
type Repository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// Init creates and returns a new Repository instance
func Init(db *gorm.DB, logger *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the schema for all persisted entities.
func (repo *Repository) Migrate() error {
	return repo.db.AutoMigrate(
		&entity.Form{},
		&entity.Question{},
		&entity.Option{},
		&entity.Response{},
		&entity.Answer{},
	)
}

func (repo *Repository) IsHealthy() bool {
	sqlDB, err := repo.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// Create persists a new entity in the database
func (repo *Repository) Create(payload any) error {
	res := repo.db.Create(payload)

	if err := res.Error; err != nil {
		repo.logger.Error("error create entity", zap.Error(err))
		return err
	}

	return nil
}

// GetForm retrieves a form by its ID
func (repo *Repository) GetForm(ID uuid.UUID) (*entity.Form, error) {
	var form entity.Form

	res := repo.db.Where("id = ?", ID).First(&form)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: form %s", entity.ErrNotFound, ID)
		}

		repo.logger.Error("error get form",
			zap.String("form_id", ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &form, nil
}

// GetFormWithQuestions retrieves a form together with its questions and
// their options, both in display order.
func (repo *Repository) GetFormWithQuestions(ID uuid.UUID) (*entity.Form, error) {
	var form entity.Form

	res := repo.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number asc")
		}).
		Where("id = ?", ID).First(&form)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: form %s", entity.ErrNotFound, ID)
		}

		repo.logger.Error("error get form with questions",
			zap.String("form_id", ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &form, nil
}

// ListForms retrieves all forms of one owner, newest first.
func (repo *Repository) ListForms(ownerID string) ([]entity.Form, error) {
	var forms []entity.Form

	res := repo.db.Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&forms)
	if err := res.Error; err != nil {
		repo.logger.Error("error list forms",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return nil, err
	}

	return forms, nil
}

// GetQuestion retrieves a question by its ID
func (repo *Repository) GetQuestion(ID uuid.UUID) (*entity.Question, error) {
	var question entity.Question

	res := repo.db.Where("id = ?", ID).First(&question)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %s", entity.ErrNotFound, ID)
		}

		repo.logger.Error("error get question",
			zap.String("question_id", ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &question, nil
}

// UpdateForm modifies a single column of a form
func (repo *Repository) UpdateForm(ID uuid.UUID, key string, value any) error {
	res := repo.db.Model(&entity.Form{}).Where("id = ?", ID).Update(key, value)

	if err := res.Error; err != nil {
		repo.logger.Error("error update form",
			zap.String("form_id", ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// UpdateQuestionMany updates multiple columns of a question simultaneously
func (repo *Repository) UpdateQuestionMany(ID uuid.UUID, value any) error {
	res := repo.db.Model(&entity.Question{}).Where("id = ?", ID).Updates(value)

	if err := res.Error; err != nil {
		repo.logger.Error("error update question many",
			zap.String("question_id", ID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

// UpdateOption modifies a single column of an option
func (repo *Repository) UpdateOption(ID uuid.UUID, key string, value any) error {
	res := repo.db.Model(&entity.Option{}).Where("id = ?", ID).Update(key, value)

	if err := res.Error; err != nil {
		repo.logger.Error("error update option",
			zap.String("column", key),
			zap.String("option_id", ID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

// DeleteForm removes a form from the database
func (repo *Repository) DeleteForm(formID uuid.UUID) error {
	res := repo.db.Where("id = ?", formID).Delete(&entity.Form{})

	if err := res.Error; err != nil {
		repo.logger.Error("error delete form",
			zap.String("form_id", formID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// QuestionsByForm retrieves the questions of a form in display order,
// each with its options in display order.
func (repo *Repository) QuestionsByForm(formID uuid.UUID) ([]entity.Question, error) {
	var questions []entity.Question

	res := repo.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number asc")
		}).
		Where("form_id = ?", formID).
		Order("order_number asc").
		Find(&questions)
	if err := res.Error; err != nil {
		repo.logger.Error("error list questions",
			zap.String("form_id", formID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return questions, nil
}

// QuestionsWithAnswers retrieves the questions of a form in display
// order, each with its options, its answers and each answer's selected
// options. This is the read model behind response summaries.
func (repo *Repository) QuestionsWithAnswers(formID uuid.UUID) ([]entity.Question, error) {
	var questions []entity.Question

	res := repo.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number asc")
		}).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		Preload("Answers.Options").
		Where("form_id = ?", formID).
		Order("order_number asc").
		Find(&questions)
	if err := res.Error; err != nil {
		repo.logger.Error("error list questions with answers",
			zap.String("form_id", formID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return questions, nil
}

// AnswersByForm retrieves every answer submitted to a form, each with
// its question, its selected options and its parent response. This is
// the read model behind the export matrix.
func (repo *Repository) AnswersByForm(formID uuid.UUID) ([]entity.Answer, error) {
	var answers []entity.Answer

	res := repo.db.
		Preload("Question").
		Preload("Options").
		Preload("Response").
		Where("form_id = ?", formID).
		Find(&answers)
	if err := res.Error; err != nil {
		repo.logger.Error("error list answers",
			zap.String("form_id", formID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return answers, nil
}
