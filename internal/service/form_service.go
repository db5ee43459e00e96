package service

import (
	"context"
	"fmt"
	"time"

	"github.com/formhive/form-service/internal/entity"
	"github.com/formhive/form-service/pkg/retrier"
	"github.com/google/uuid"
)

// Service implements the owner-facing and respondent-facing form
// operations on top of the repository, the cache and the event
// publisher.
type Service struct {
	casher    Casher
	repo      Repository
	publisher Publisher

	timeout time.Duration
}

func Init(casher Casher, repo Repository, publisher Publisher, timeout time.Duration) *Service {
	return &Service{
		casher:    casher,
		repo:      repo,
		publisher: publisher,
		timeout:   timeout,
	}
}

// ownedForm resolves a form and verifies the caller owns it. Every
// owner-scoped operation goes through here before touching anything.
func (s *Service) ownedForm(ownerID string, formID uuid.UUID) (*entity.Form, error) {
	if ownerID == "" {
		return nil, entity.ErrUnauthenticated
	}

	form, err := s.repo.GetForm(formID)
	if err != nil {
		return nil, err
	}

	if form.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: form %s", entity.ErrUnauthorized, formID)
	}

	return form, nil
}

// syncForm refreshes the cached copy of a form and publishes the given
// event, mirroring every committed mutation to the outside world.
func (s *Service) syncForm(formID uuid.UUID, eventType string) error {
	form, err := s.repo.GetFormWithQuestions(formID)
	if err != nil {
		return fmt.Errorf("failed to retrieve updated form: %w", err)
	}

	formJson, err := form.ToJson()
	if err != nil {
		return fmt.Errorf("failed to encode form for cache: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cherr := make(chan error, 1)

	go func() {
		cherr <- retrier.Do(3, 5, func() error {
			return s.casher.AddToCash(ctx, form.ID.String(), formJson)
		})
	}()

	if err := s.publisher.Publish(form, eventType); err != nil {
		return err
	}

	return <-cherr
}

// CreateForm creates an empty untitled form for the given owner.
func (s *Service) CreateForm(ownerID string) (*entity.Form, error) {
	if ownerID == "" {
		return nil, entity.ErrUnauthenticated
	}

	form := &entity.Form{
		ID:      uuid.New(),
		OwnerID: ownerID,
	}

	if err := s.repo.Create(form); err != nil {
		return nil, fmt.Errorf("failed to create form in repository: %w", err)
	}

	if err := s.syncForm(form.ID, entity.EventFormCreated); err != nil {
		return nil, err
	}

	return form, nil
}

// UpdateTitle renames a form owned by the caller.
func (s *Service) UpdateTitle(ownerID string, formID uuid.UUID, title string) error {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return err
	}

	if err := s.repo.UpdateForm(formID, "title", title); err != nil {
		return fmt.Errorf("failed to update form title in repository: %w", err)
	}

	return s.syncForm(formID, entity.EventFormUpdated)
}

// TogglePublish flips the published flag of a form owned by the caller
// and returns the new state.
func (s *Service) TogglePublish(ownerID string, formID uuid.UUID) (bool, error) {
	form, err := s.ownedForm(ownerID, formID)
	if err != nil {
		return false, err
	}

	published := !form.Published

	if err := s.repo.UpdateForm(formID, "published", published); err != nil {
		return false, fmt.Errorf("failed to update form status in repository: %w", err)
	}

	if err := s.syncForm(formID, entity.EventFormUpdated); err != nil {
		return false, err
	}

	return published, nil
}

// ListForms returns all forms of the caller, newest first.
func (s *Service) ListForms(ownerID string) ([]entity.Form, error) {
	if ownerID == "" {
		return nil, entity.ErrUnauthenticated
	}

	return s.repo.ListForms(ownerID)
}

// GetForm returns a form owned by the caller.
func (s *Service) GetForm(ownerID string, formID uuid.UUID) (*entity.Form, error) {
	return s.ownedForm(ownerID, formID)
}

// FormForRespondent returns a form when it is published or the caller
// owns it. Respondents may be anonymous, so callerID can be empty.
func (s *Service) FormForRespondent(callerID string, formID uuid.UUID) (*entity.Form, error) {
	form, err := s.repo.GetForm(formID)
	if err != nil {
		return nil, err
	}

	if !form.Published && form.OwnerID != callerID {
		return nil, fmt.Errorf("%w: form %s is not published", entity.ErrUnauthorized, formID)
	}

	return form, nil
}

// QuestionsForRespondent returns the ordered questions of a form, with
// their ordered options, under the same gate as FormForRespondent.
func (s *Service) QuestionsForRespondent(callerID string, formID uuid.UUID) ([]entity.Question, error) {
	if _, err := s.FormForRespondent(callerID, formID); err != nil {
		return nil, err
	}

	return s.repo.QuestionsByForm(formID)
}

// DeleteForm removes a form owned by the caller, drops the cached copy
// and announces the deletion.
func (s *Service) DeleteForm(ownerID string, formID uuid.UUID) error {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return err
	}

	if err := s.repo.DeleteForm(formID); err != nil {
		return fmt.Errorf("failed to delete form from repository: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.casher.RemoveFromCash(ctx, formID.String()); err != nil {
		return err
	}

	return s.publisher.Publish(struct {
		FormID string `json:"form_id"`
	}{FormID: formID.String()}, entity.EventFormDeleted)
}
