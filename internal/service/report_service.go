package service

import (
	"sort"

	"github.com/formhive/form-service/internal/entity"
	"github.com/google/uuid"
)

type (
	// PieSlice is one wedge of a select-one breakdown: the option label
	// and how many answers chose it.
	PieSlice struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	// BarItem is one bar of a select-many breakdown: the option label
	// and how many answers included it.
	BarItem struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	// QuestionSummary is the chart-ready aggregate for one question.
	// Exactly one of Texts, Pie or Bar is populated, matching Type.
	QuestionSummary struct {
		QuestionID    uuid.UUID           `json:"question_id"`
		Text          string              `json:"text"`
		Type          entity.QuestionType `json:"type"`
		ResponseCount int                 `json:"response_count"`
		Texts         []string            `json:"texts,omitempty"`
		Pie           []PieSlice          `json:"pie,omitempty"`
		Bar           []BarItem           `json:"bar,omitempty"`
	}
)

// Summarize builds per-question aggregates for a form owned by the
// caller, in question display order.
//
// Short-response questions list their raw texts. Select-one questions
// tally each answer's single selected option. Select-many questions
// tally over all declared options, zero included. Both tallies are
// emitted in declared option order so charts are stable regardless of
// answer arrival order.
func (s *Service) Summarize(ownerID string, formID uuid.UUID) ([]QuestionSummary, error) {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return nil, err
	}

	questions, err := s.repo.QuestionsWithAnswers(formID)
	if err != nil {
		return nil, err
	}

	summaries := make([]QuestionSummary, 0, len(questions))

	for _, question := range questions {
		summary := QuestionSummary{
			QuestionID:    question.ID,
			Text:          question.Text,
			Type:          question.Type,
			ResponseCount: len(question.Answers),
		}

		switch question.Type {
		case entity.ShortResponse:
			summary.Texts = make([]string, 0, len(question.Answers))
			for _, answer := range question.Answers {
				summary.Texts = append(summary.Texts, answer.AnswerText)
			}

		case entity.SelectOne:
			counts := make(map[uuid.UUID]int, len(question.Options))
			for _, answer := range question.Answers {
				if len(answer.Options) == 0 {
					continue
				}
				counts[answer.Options[0].ID]++
			}
			// Options are preloaded in declared order; only chosen
			// options appear in the pie.
			for _, option := range question.Options {
				if count := counts[option.ID]; count > 0 {
					summary.Pie = append(summary.Pie, PieSlice{
						Name:  option.OptionText,
						Value: count,
					})
				}
			}

		case entity.SelectMany:
			counts := make(map[uuid.UUID]int, len(question.Options))
			for _, option := range question.Options {
				counts[option.ID] = 0
			}
			for _, answer := range question.Answers {
				for _, selected := range answer.Options {
					if _, ok := counts[selected.ID]; ok {
						counts[selected.ID]++
					}
				}
			}
			summary.Bar = make([]BarItem, 0, len(question.Options))
			for _, option := range question.Options {
				summary.Bar = append(summary.Bar, BarItem{
					Name:  option.OptionText,
					Count: counts[option.ID],
				})
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ExportMatrix reshapes a form's normalized answers into a rectangular
// matrix for the export sink: row 0 holds the question texts in display
// order, then one row per submission with each cell at the column of
// its question. Select-one cells carry the selected option's text when
// exactly one option is linked, everything else carries the raw answer
// text. Rows are sorted by submission time, ties broken by response ID,
// so repeated exports of the same data are identical.
func (s *Service) ExportMatrix(ownerID string, formID uuid.UUID) ([][]string, error) {
	if _, err := s.ownedForm(ownerID, formID); err != nil {
		return nil, err
	}

	answers, err := s.repo.AnswersByForm(formID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.QuestionsByForm(formID)
	if err != nil {
		return nil, err
	}

	header := make([]string, len(questions))
	for i, question := range questions {
		header[i] = question.Text
	}

	grouped := make(map[uuid.UUID][]entity.Answer)
	for _, answer := range answers {
		grouped[answer.ResponseID] = append(grouped[answer.ResponseID], answer)
	}

	responseIDs := make([]uuid.UUID, 0, len(grouped))
	for responseID := range grouped {
		responseIDs = append(responseIDs, responseID)
	}

	sort.Slice(responseIDs, func(i, j int) bool {
		a := grouped[responseIDs[i]][0].Response
		b := grouped[responseIDs[j]][0].Response
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return responseIDs[i].String() < responseIDs[j].String()
	})

	matrix := make([][]string, 0, len(responseIDs)+1)
	matrix = append(matrix, header)

	for _, responseID := range responseIDs {
		row := make([]string, len(questions))

		for _, answer := range grouped[responseID] {
			index := answer.Question.OrderNumber - 1
			if index < 0 || index >= len(row) {
				continue
			}

			if answer.Question.Type == entity.SelectOne {
				if len(answer.Options) == 1 {
					row[index] = answer.Options[0].OptionText
				}
				continue
			}

			row[index] = answer.AnswerText
		}

		matrix = append(matrix, row)
	}

	return matrix, nil
}
