package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateSubmission records one respondent submission: one Response row
// plus one Answer row per normalized answer, linked to their selected
// options. The whole submission commits in a single transaction; any
// answer referencing a question outside the form, or an unknown
// option, rolls back everything.
func (repo *Repository) CreateSubmission(formID uuid.UUID, answers []entity.NormalizedAnswer) (*entity.Response, error) {
	response := &entity.Response{
		ID:          uuid.New(),
		SubmittedAt: time.Now(),
	}

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		for _, answer := range answers {
			var question entity.Question

			if err := tx.Where("id = ?", answer.QuestionID).First(&question).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: question %s", entity.ErrNotFound, answer.QuestionID)
				}
				return err
			}

			if question.FormID != formID {
				return fmt.Errorf("%w: question %s is not part of form %s",
					entity.ErrMismatch, answer.QuestionID, formID)
			}
		}

		if err := tx.Create(response).Error; err != nil {
			return err
		}

		for _, answer := range answers {
			row := entity.Answer{
				ID:         uuid.New(),
				QuestionID: answer.QuestionID,
				FormID:     formID,
				ResponseID: response.ID,
			}

			var optionIDs []uuid.UUID

			switch answer.Type {
			case entity.ShortResponse:
				if answer.AnswerText != nil {
					row.AnswerText = *answer.AnswerText
				}
			case entity.SelectOne:
				if answer.OptionID == nil {
					return fmt.Errorf("%w: select-one answer without option", entity.ErrValidation)
				}
				optionIDs = []uuid.UUID{*answer.OptionID}
			case entity.SelectMany:
				optionIDs = answer.OptionIDs
			default:
				return fmt.Errorf("%w: unknown answer type %q", entity.ErrValidation, answer.Type)
			}

			if err := tx.Create(&row).Error; err != nil {
				return err
			}

			if len(optionIDs) == 0 {
				continue
			}

			var options []entity.Option

			if err := tx.Where("id IN ?", optionIDs).Find(&options).Error; err != nil {
				return err
			}

			if len(options) != len(optionIDs) {
				return fmt.Errorf("%w: answer references unknown options", entity.ErrNotFound)
			}

			if err := tx.Model(&row).Association("Options").Append(&options); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		repo.logger.Error("error create submission",
			zap.String("form_id", formID.String()),
			zap.Int("answers", len(answers)),
			zap.Error(err),
		)
		return nil, err
	}

	return response, nil
}
