package entity

import (
	"time"

	"github.com/google/uuid"
)

type (
	// Response represents one anonymous submission event. Its answers
	// reference it by ResponseID.
	Response struct {
		ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
		SubmittedAt time.Time
	}

	// Answer holds one respondent's value for one question.
	//
	// For ShortResponse questions AnswerText carries the value and
	// Options is empty. For SelectOne exactly one option is linked,
	// for SelectMany zero or more; both leave AnswerText empty.
	Answer struct {
		ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
		QuestionID uuid.UUID `gorm:"type:uuid;index"`
		FormID     uuid.UUID `gorm:"type:uuid;index"`
		ResponseID uuid.UUID `gorm:"type:uuid;index"`
		AnswerText string
		Options    []Option `gorm:"many2many:answer_options"`
		Question   Question `gorm:"foreignKey:QuestionID"`
		Response   Response `gorm:"foreignKey:ResponseID"`
		CreatedAt  time.Time
	}

	// AnswerPayload is the tagged client payload for one question.
	// Exactly one of Text, OptionID or OptionIDs is set, matching Type.
	AnswerPayload struct {
		Type      QuestionType `json:"type"`
		Text      *string      `json:"text,omitempty"`
		OptionID  *uuid.UUID   `json:"option_id,omitempty"`
		OptionIDs []uuid.UUID  `json:"option_ids,omitempty"`
	}

	// NormalizedAnswer is the flattened write-path record produced from
	// one AnswerPayload entry. Exactly one of the three value fields is
	// populated, matching Type.
	NormalizedAnswer struct {
		QuestionID uuid.UUID
		Type       QuestionType
		AnswerText *string
		OptionID   *uuid.UUID
		OptionIDs  []uuid.UUID
	}
)
