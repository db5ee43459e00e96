package repository

import (
	"errors"
	"fmt"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ordering operations. Questions within a form and options within a
// question carry a dense 1-based OrderNumber: after every committed
// insert or delete the sibling order numbers are exactly 1..N. Each
// operation encloses the sibling read, the shifts and the final
// create/delete in one transaction, so a partial shift is never
// visible and concurrent mutations of the same parent serialize on the
// store.

// InsertQuestion creates q at q.OrderNumber within its form, shifting
// every sibling at that position or later up by one. A requested
// position past the end degenerates to a plain append.
func (repo *Repository) InsertQuestion(q *entity.Question) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var siblings []entity.Question

		if err := tx.Where("form_id = ? AND order_number >= ?", q.FormID, q.OrderNumber).
			Order("order_number asc").
			Find(&siblings).Error; err != nil {
			return err
		}

		// Shift highest first so order numbers stay unique mid-flight.
		for i := len(siblings) - 1; i >= 0; i-- {
			sibling := siblings[i]
			if err := tx.Model(&entity.Question{}).
				Where("id = ?", sibling.ID).
				Update("order_number", sibling.OrderNumber+1).Error; err != nil {
				return err
			}
		}

		return tx.Create(q).Error
	})
	if err != nil {
		repo.logger.Error("error insert question",
			zap.String("form_id", q.FormID.String()),
			zap.Int("order_number", q.OrderNumber),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// DeleteQuestion removes a question from its form and closes the gap,
// shifting every later sibling down by one. The target must belong to
// the given form.
func (repo *Repository) DeleteQuestion(formID, questionID uuid.UUID) error {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var target entity.Question

		if err := tx.Where("id = ?", questionID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %s", entity.ErrNotFound, questionID)
			}
			return err
		}

		if target.FormID != formID {
			return fmt.Errorf("%w: question %s is not part of form %s",
				entity.ErrMismatch, questionID, formID)
		}

		var siblings []entity.Question

		if err := tx.Where("form_id = ? AND order_number >= ?", formID, target.OrderNumber).
			Order("order_number asc").
			Find(&siblings).Error; err != nil {
			return err
		}

		// The target itself is part of the range; its decremented order
		// is discarded by the delete below.
		for _, sibling := range siblings {
			if err := tx.Model(&entity.Question{}).
				Where("id = ?", sibling.ID).
				Update("order_number", sibling.OrderNumber-1).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("question_id = ?", questionID).
			Delete(&entity.Option{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", questionID).Delete(&entity.Question{}).Error
	})
	if err != nil {
		repo.logger.Error("error delete question",
			zap.String("form_id", formID.String()),
			zap.String("question_id", questionID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// InsertOption creates opt at opt.OrderNumber within its question,
// shifting every sibling at that position or later up by one.
func (repo *Repository) InsertOption(opt *entity.Option) error {
	if opt.ID == uuid.Nil || opt.QuestionID == uuid.Nil || opt.OrderNumber < 1 {
		return fmt.Errorf("%w: invalid option", entity.ErrValidation)
	}

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var siblings []entity.Option

		if err := tx.Where("question_id = ? AND order_number >= ?", opt.QuestionID, opt.OrderNumber).
			Order("order_number asc").
			Find(&siblings).Error; err != nil {
			return err
		}

		for i := len(siblings) - 1; i >= 0; i-- {
			sibling := siblings[i]
			if err := tx.Model(&entity.Option{}).
				Where("id = ?", sibling.ID).
				Update("order_number", sibling.OrderNumber+1).Error; err != nil {
				return err
			}
		}

		return tx.Create(opt).Error
	})
	if err != nil {
		repo.logger.Error("error insert option",
			zap.String("question_id", opt.QuestionID.String()),
			zap.Int("order_number", opt.OrderNumber),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// DeleteOption removes an option from its question and closes the gap.
// The target must belong to the given question.
func (repo *Repository) DeleteOption(questionID, optionID uuid.UUID) error {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var target entity.Option

		if err := tx.Where("id = ?", optionID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: option %s", entity.ErrNotFound, optionID)
			}
			return err
		}

		if target.QuestionID != questionID {
			return fmt.Errorf("%w: option %s is not part of question %s",
				entity.ErrMismatch, optionID, questionID)
		}

		var siblings []entity.Option

		if err := tx.Where("question_id = ? AND order_number >= ?", questionID, target.OrderNumber).
			Order("order_number asc").
			Find(&siblings).Error; err != nil {
			return err
		}

		for _, sibling := range siblings {
			if err := tx.Model(&entity.Option{}).
				Where("id = ?", sibling.ID).
				Update("order_number", sibling.OrderNumber-1).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", optionID).Delete(&entity.Option{}).Error
	})
	if err != nil {
		repo.logger.Error("error delete option",
			zap.String("question_id", questionID.String()),
			zap.String("option_id", optionID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
