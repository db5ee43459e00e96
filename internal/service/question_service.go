package service

import (
	"fmt"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
)

// ownedQuestion resolves a question under the caller's form and checks
// it actually belongs to that form.
func (s *Service) ownedQuestion(ownerID string, formID, questionID uuid.UUID) (*entity.Question, error) {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return nil, err
	}

	question, err := s.repo.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}

	if question.FormID != formID {
		return nil, fmt.Errorf("%w: question %s is not part of form %s",
			entity.ErrMismatch, questionID, formID)
	}

	return question, nil
}

// AddQuestion inserts a question of the given type at the given 1-based
// position, shifting later questions down the page. Choice questions
// are seeded with a single default option.
func (s *Service) AddQuestion(ownerID string, formID uuid.UUID, qType entity.QuestionType, order int) (*entity.Question, error) {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return nil, err
	}

	if !qType.Valid() {
		return nil, fmt.Errorf("%w: unknown question type %q", entity.ErrValidation, qType)
	}

	question := &entity.Question{
		ID:          uuid.New(),
		FormID:      formID,
		OwnerID:     ownerID,
		OrderNumber: order,
		Type:        qType,
	}

	if qType == entity.SelectOne || qType == entity.SelectMany {
		question.Options = []entity.Option{{
			ID:          uuid.New(),
			QuestionID:  question.ID,
			OrderNumber: 1,
			OptionText:  "Option 1",
		}}
	}

	if err := s.repo.InsertQuestion(question); err != nil {
		return nil, fmt.Errorf("failed to create question in repository: %w", err)
	}

	if err := s.syncForm(formID, entity.EventFormUpdated); err != nil {
		return nil, err
	}

	return question, nil
}

// DeleteQuestion removes a question from the caller's form. Later
// questions move up so the order sequence stays dense.
func (s *Service) DeleteQuestion(ownerID string, formID, questionID uuid.UUID) error {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return err
	}

	if err := s.repo.DeleteQuestion(formID, questionID); err != nil {
		return fmt.Errorf("failed to delete question from repository: %w", err)
	}

	return s.syncForm(formID, entity.EventFormUpdated)
}

// UpdateQuestion edits a question's text and/or placeholder. Nil means
// leave the field untouched.
func (s *Service) UpdateQuestion(ownerID string, formID, questionID uuid.UUID, text, placeholder *string) error {
	if _, err := s.ownedQuestion(ownerID, formID, questionID); err != nil {
		return err
	}

	updates := make(map[string]any, 2)
	if text != nil {
		updates["text"] = *text
	}
	if placeholder != nil {
		updates["placeholder"] = *placeholder
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.repo.UpdateQuestionMany(questionID, updates); err != nil {
		return fmt.Errorf("failed to update question in repository: %w", err)
	}

	return s.syncForm(formID, entity.EventFormUpdated)
}

// AddOption inserts an option at the given 1-based position within a
// question of the caller's form.
func (s *Service) AddOption(ownerID string, formID, questionID uuid.UUID, order int) (*entity.Option, error) {
	if _, err := s.ownedQuestion(ownerID, formID, questionID); err != nil {
		return nil, err
	}

	option := &entity.Option{
		ID:          uuid.New(),
		QuestionID:  questionID,
		OrderNumber: order,
		OptionText:  fmt.Sprintf("Option %d", order),
	}

	if err := s.repo.InsertOption(option); err != nil {
		return nil, fmt.Errorf("failed to create option in repository: %w", err)
	}

	if err := s.syncForm(formID, entity.EventFormUpdated); err != nil {
		return nil, err
	}

	return option, nil
}

// DeleteOption removes an option from a question of the caller's form,
// compacting the remaining option order.
func (s *Service) DeleteOption(ownerID string, formID, questionID, optionID uuid.UUID) error {
	if _, err := s.ownedQuestion(ownerID, formID, questionID); err != nil {
		return err
	}

	if err := s.repo.DeleteOption(questionID, optionID); err != nil {
		return fmt.Errorf("failed to delete option from repository: %w", err)
	}

	return s.syncForm(formID, entity.EventFormUpdated)
}

// UpdateOptionText renames an option of a question in the caller's form.
func (s *Service) UpdateOptionText(ownerID string, formID, questionID, optionID uuid.UUID, text string) error {
	if _, err := s.ownedQuestion(ownerID, formID, questionID); err != nil {
		return err
	}

	if err := s.repo.UpdateOption(optionID, "option_text", text); err != nil {
		return fmt.Errorf("failed to update option in repository: %w", err)
	}

	return s.syncForm(formID, entity.EventFormUpdated)
}
