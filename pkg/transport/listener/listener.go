// Package listener dispatches decoded request events to the service
// layer. It is the message-driven equivalent of an HTTP handler set:
// one request type per operation, with the caller identity carried in
// the payload.
package listener

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/formhive/form-service/internal/entity"
	"github.com/formhive/form-service/internal/service"
	"github.com/formhive/form-service/pkg/config"
	"github.com/formhive/form-service/pkg/debounce"
	"github.com/formhive/form-service/pkg/exporter"
	"github.com/formhive/form-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// editSettle is the quiet period before a burst of per-keystroke edit
// requests is written through as a single update.
const editSettle = 500 * time.Millisecond

type (
	createFormRequest struct {
		UserID string `json:"user_id"`
	}

	updateFormRequest struct {
		UserID string    `json:"user_id"`
		FormID uuid.UUID `json:"form_id"`
		Title  string    `json:"title"`
	}

	publishFormRequest struct {
		UserID string    `json:"user_id"`
		FormID uuid.UUID `json:"form_id"`
	}

	addQuestionRequest struct {
		UserID string    `json:"user_id"`
		FormID uuid.UUID `json:"form_id"`
		Type   string    `json:"type"`
		Order  int       `json:"order"`
	}

	deleteQuestionRequest struct {
		UserID     string    `json:"user_id"`
		FormID     uuid.UUID `json:"form_id"`
		QuestionID uuid.UUID `json:"question_id"`
	}

	updateQuestionRequest struct {
		UserID      string    `json:"user_id"`
		FormID      uuid.UUID `json:"form_id"`
		QuestionID  uuid.UUID `json:"question_id"`
		Text        *string   `json:"text"`
		Placeholder *string   `json:"placeholder"`
	}

	addOptionRequest struct {
		UserID     string    `json:"user_id"`
		FormID     uuid.UUID `json:"form_id"`
		QuestionID uuid.UUID `json:"question_id"`
		Order      int       `json:"order"`
	}

	deleteOptionRequest struct {
		UserID     string    `json:"user_id"`
		FormID     uuid.UUID `json:"form_id"`
		QuestionID uuid.UUID `json:"question_id"`
		OptionID   uuid.UUID `json:"option_id"`
	}

	updateOptionRequest struct {
		UserID     string    `json:"user_id"`
		FormID     uuid.UUID `json:"form_id"`
		QuestionID uuid.UUID `json:"question_id"`
		OptionID   uuid.UUID `json:"option_id"`
		Text       string    `json:"text"`
	}

	submitFormRequest struct {
		FormID  uuid.UUID                          `json:"form_id"`
		Answers map[uuid.UUID]entity.AnswerPayload `json:"answers"`
	}

	exportFormRequest struct {
		UserID string    `json:"user_id"`
		FormID uuid.UUID `json:"form_id"`
	}
)

type Listener struct {
	inputChan chan entity.Event
	logger    *logger.Logger
	service   *service.Service
	cfg       *config.Config
	sink      exporter.Sink

	mu    sync.Mutex
	edits map[uuid.UUID]*debounce.Debouncer
}

func Init(
	inputChan chan entity.Event,
	logger *logger.Logger,
	cfg *config.Config,
	service *service.Service,
	sink exporter.Sink,
) *Listener {
	return &Listener{
		inputChan: inputChan,
		service:   service,
		logger:    logger,
		cfg:       cfg,
		sink:      sink,
		edits:     make(map[uuid.UUID]*debounce.Debouncer),
	}
}

// debounceEdit coalesces rapid edit requests targeting the same entity
// into one trailing write. Errors surface through the log only; the
// client observes the result via the next output event, same as any
// other dropped request.
func (list *Listener) debounceEdit(target uuid.UUID, requestType string, fn func() error) {
	list.mu.Lock()
	d, ok := list.edits[target]
	if !ok {
		d = debounce.New(editSettle)
		list.edits[target] = d
	}
	list.mu.Unlock()

	d.Call(func() {
		if err := fn(); err != nil {
			list.logger.Error("error handling debounced edit",
				zap.String("request_type", requestType),
				zap.String("target_id", target.String()),
				zap.Error(err))
		}
	})
}

// Listen consumes request events until ctx is cancelled. Failed
// requests are logged and dropped; the originating client observes the
// absence of the corresponding output event.
func (list *Listener) Listen(ctx context.Context) {
	for {
		select {
		case event := <-list.inputChan:
			if err := list.dispatch(event); err != nil {
				list.logger.Error("error handling request",
					zap.String("event_type", event.Type),
					zap.String("event_id", event.ID),
					zap.Error(err))
			}

		case <-ctx.Done():
			list.logger.Info("stopping listeners...")
			return
		}
	}
}

func (list *Listener) dispatch(event entity.Event) error {
	switch event.Type {
	case list.cfg.Reqs.CreateFormRequestType:
		var req createFormRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		_, err := list.service.CreateForm(req.UserID)
		return err

	case list.cfg.Reqs.UpdateFormRequestType:
		var req updateFormRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		// Title edits arrive per keystroke; only the last one counts.
		list.debounceEdit(req.FormID, event.Type, func() error {
			return list.service.UpdateTitle(req.UserID, req.FormID, req.Title)
		})
		return nil

	case list.cfg.Reqs.PublishFormRequestType:
		var req publishFormRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		_, err := list.service.TogglePublish(req.UserID, req.FormID)
		return err

	case list.cfg.Reqs.AddQuestionRequestType:
		var req addQuestionRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		_, err := list.service.AddQuestion(req.UserID, req.FormID, entity.QuestionType(req.Type), req.Order)
		return err

	case list.cfg.Reqs.DeleteQuestionRequestType:
		var req deleteQuestionRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		return list.service.DeleteQuestion(req.UserID, req.FormID, req.QuestionID)

	case list.cfg.Reqs.UpdateQuestionRequestType:
		var req updateQuestionRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		list.debounceEdit(req.QuestionID, event.Type, func() error {
			return list.service.UpdateQuestion(req.UserID, req.FormID, req.QuestionID, req.Text, req.Placeholder)
		})
		return nil

	case list.cfg.Reqs.AddOptionRequestType:
		var req addOptionRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		_, err := list.service.AddOption(req.UserID, req.FormID, req.QuestionID, req.Order)
		return err

	case list.cfg.Reqs.DeleteOptionRequestType:
		var req deleteOptionRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		return list.service.DeleteOption(req.UserID, req.FormID, req.QuestionID, req.OptionID)

	case list.cfg.Reqs.UpdateOptionRequestType:
		var req updateOptionRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		list.debounceEdit(req.OptionID, event.Type, func() error {
			return list.service.UpdateOptionText(req.UserID, req.FormID, req.QuestionID, req.OptionID, req.Text)
		})
		return nil

	case list.cfg.Reqs.SubmitFormRequestType:
		var req submitFormRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		_, err := list.service.SubmitForm(req.FormID, req.Answers)
		return err

	case list.cfg.Reqs.ExportFormRequestType:
		var req exportFormRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil {
			return err
		}
		matrix, err := list.service.ExportMatrix(req.UserID, req.FormID)
		if err != nil {
			return err
		}
		return list.sink.Write(matrix, req.FormID.String())

	default:
		list.logger.Warn("unknown request type, dropping event",
			zap.String("event_type", event.Type),
			zap.String("event_id", event.ID))
		return nil
	}
}
