// Package entity defines the core data structures used throughout the application
package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuestionType discriminates the answer shape a question expects.
type QuestionType string

const (
	// ShortResponse questions collect free text
	ShortResponse QuestionType = "SHORT_RESPONSE"
	// SelectOne questions collect exactly one option
	SelectOne QuestionType = "SELECT_ONE_OPTION"
	// SelectMany questions collect zero or more options
	SelectMany QuestionType = "SELECT_MULTIPLE_OPTIONS"
)

// Valid reports whether t is one of the declared question types.
func (t QuestionType) Valid() bool {
	switch t {
	case ShortResponse, SelectOne, SelectMany:
		return true
	}
	return false
}

type (
	// Form represents a questionnaire owned by a single user
	Form struct {
		ID        uuid.UUID  `gorm:"type:uuid;primaryKey"` // Unique identifier
		OwnerID   string     `gorm:"index"`                // Creator of the form
		Title     string     // Title of the form
		Published bool       // Whether respondents may submit
		Questions []Question `gorm:"foreignKey:FormID"` // Ordered collection of questions
		CreatedAt time.Time  // Creation timestamp
		UpdatedAt time.Time  // Last modification timestamp
	}

	// Question represents a single prompt within a form.
	//
	// OrderNumber is 1-based and dense per form: at rest the question
	// order numbers of a form are exactly 1..N. Only the repository
	// ordering operations may change it.
	Question struct {
		ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
		FormID      uuid.UUID    `gorm:"type:uuid;index"` // Reference to the parent form
		OwnerID     string       `gorm:"index"`           // Denormalized form owner for read-side filters
		OrderNumber int          // Position of question in form, 1-based
		Type        QuestionType `gorm:"type:varchar(32)"`
		Text        string       // The actual question text
		Placeholder string       // Hint shown for short-response inputs
		Options     []Option     `gorm:"foreignKey:QuestionID"`
		Answers     []Answer     `gorm:"foreignKey:QuestionID"`
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Option is a selectable choice belonging to a choice question.
	// OrderNumber follows the same dense 1..N contract scoped to the question.
	Option struct {
		ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
		QuestionID  uuid.UUID `gorm:"type:uuid;index"`
		OrderNumber int
		OptionText  string
	}

	// OutputOption is a DTO for option data in outbound events
	OutputOption struct {
		ID          string `json:"id"`
		OrderNumber int    `json:"order_number"`
		OptionText  string `json:"option_text"`
	}

	// OutputQuestion is a DTO for question data in outbound events
	OutputQuestion struct {
		ID          string         `json:"id"`
		OrderNumber int            `json:"order_number"`
		Type        string         `json:"type"`
		Text        string         `json:"text"`
		Placeholder string         `json:"placeholder,omitempty"`
		Options     []OutputOption `json:"options,omitempty"`
	}

	// OutputForm is a DTO for form data in outbound events
	OutputForm struct {
		ID        string           `json:"id"`
		OwnerID   string           `json:"owner_id"`
		Title     string           `json:"title"`
		Published bool             `json:"published"`
		CreatedAt string           `json:"created_at"`
		Questions []OutputQuestion `json:"questions"`
	}
)

func (f *Form) Validate() error {
	if f.ID == uuid.Nil {
		return errors.New("form ID can not be nil")
	}
	if f.OwnerID == "" {
		return errors.New("owner ID can not be empty")
	}

	return nil
}

func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return errors.New("question ID can not be nil")
	}
	if q.FormID == uuid.Nil {
		return errors.New("form ID can not be nil")
	}
	if q.OrderNumber < 1 {
		return errors.New("order number must be >= 1")
	}
	if !q.Type.Valid() {
		return errors.New("unknown question type")
	}

	return nil
}

// ToOutput converts an Option entity to its DTO representation
func (o *Option) ToOutput() OutputOption {
	return OutputOption{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		OptionText:  o.OptionText,
	}
}

// ToOutput converts a Question entity to its DTO representation
func (q *Question) ToOutput() OutputQuestion {
	out := OutputQuestion{
		ID:          q.ID.String(),
		OrderNumber: q.OrderNumber,
		Type:        string(q.Type),
		Text:        q.Text,
		Placeholder: q.Placeholder,
	}

	for _, opt := range q.Options {
		out.Options = append(out.Options, opt.ToOutput())
	}

	return out
}

// ToOutput converts a Form entity to its DTO representation
func (f *Form) ToOutput() OutputForm {
	return OutputForm{
		ID:        f.ID.String(),
		OwnerID:   f.OwnerID,
		Title:     f.Title,
		Published: f.Published,
		CreatedAt: f.CreatedAt.String(),
	}
}

// ToJson converts a Form entity to its JSON representation
// including all related questions
func (f *Form) ToJson() ([]byte, error) {
	form := f.ToOutput()
	form.Questions = make([]OutputQuestion, len(f.Questions))

	// Convert each question to its DTO form
	for i, q := range f.Questions {
		form.Questions[i] = q.ToOutput()
	}

	// Marshal the complete form to JSON
	formJson, err := json.Marshal(&form)
	return formJson, err
}
