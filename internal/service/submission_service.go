package service

import (
	"fmt"
	"sort"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
)

// NormalizeAnswers flattens a client answer map into one normalized
// record per question. The function is pure: iteration order over the
// input never changes the output content, and the result is sorted by
// question ID only to keep it reproducible.
//
// Exactly one value field is populated per record, matching the payload
// tag. A missing variant or an unknown tag fails the whole map.
func NormalizeAnswers(payloads map[uuid.UUID]entity.AnswerPayload) ([]entity.NormalizedAnswer, error) {
	answers := make([]entity.NormalizedAnswer, 0, len(payloads))

	for questionID, payload := range payloads {
		record := entity.NormalizedAnswer{
			QuestionID: questionID,
			Type:       payload.Type,
		}

		switch payload.Type {
		case entity.ShortResponse:
			if payload.Text == nil {
				return nil, fmt.Errorf("%w: short-response answer for %s has no text",
					entity.ErrValidation, questionID)
			}
			record.AnswerText = payload.Text
		case entity.SelectOne:
			if payload.OptionID == nil {
				return nil, fmt.Errorf("%w: select-one answer for %s has no option",
					entity.ErrValidation, questionID)
			}
			record.OptionID = payload.OptionID
		case entity.SelectMany:
			record.OptionIDs = payload.OptionIDs
		default:
			return nil, fmt.Errorf("%w: unknown answer type %q for %s",
				entity.ErrValidation, payload.Type, questionID)
		}

		answers = append(answers, record)
	}

	sort.Slice(answers, func(i, j int) bool {
		return answers[i].QuestionID.String() < answers[j].QuestionID.String()
	})

	return answers, nil
}

// SubmitForm records one respondent submission. Submissions are
// anonymous; the form only has to exist. Every answer must reference a
// question of this form or the whole submission is rejected, and the
// response plus all its answers commit atomically.
func (s *Service) SubmitForm(formID uuid.UUID, payloads map[uuid.UUID]entity.AnswerPayload) (*entity.Response, error) {
	if _, err := s.repo.GetForm(formID); err != nil {
		return nil, err
	}

	answers, err := NormalizeAnswers(payloads)
	if err != nil {
		return nil, err
	}

	response, err := s.repo.CreateSubmission(formID, answers)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission in repository: %w", err)
	}

	err = s.publisher.Publish(struct {
		FormID      string `json:"form_id"`
		ResponseID  string `json:"response_id"`
		SubmittedAt string `json:"submitted_at"`
	}{
		FormID:      formID.String(),
		ResponseID:  response.ID.String(),
		SubmittedAt: response.SubmittedAt.String(),
	}, entity.EventResponseSubmitted)
	if err != nil {
		return nil, err
	}

	return response, nil
}
