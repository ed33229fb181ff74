package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/validation"
)

// SubmittedEvent is published after a contact message has been stored.
type SubmittedEvent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier delivers SubmittedEvent to downstream consumers.
type Notifier interface {
	NotifyContactSubmitted(ctx context.Context, event SubmittedEvent) error
}

type Service interface {
	// Submit validates in and stores it. Violations are returned as
	// validation.Errors without touching the store.
	Submit(ctx context.Context, in validation.Input) (*ContactMessage, error)
	GetAll(ctx context.Context) ([]ContactMessage, error)
}

// DefaultNotifyTimeout is how long Submit waits for the notifier before
// answering. A slower publish keeps running in the background.
const DefaultNotifyTimeout = 2 * time.Second

// publishTimeout bounds a background publish.
const publishTimeout = 30 * time.Second

type Option func(*service)

// WithNotifyTimeout overrides DefaultNotifyTimeout.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *service) {
		s.notifyTimeout = d
	}
}

type service struct {
	repo          Repository
	validator     *validation.Validator
	notifier      Notifier
	notifyTimeout time.Duration
	logger        *slog.Logger
}

// NewService builds the submission service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		repo:          repo,
		validator:     validation.New(),
		notifier:      notifier,
		notifyTimeout: DefaultNotifyTimeout,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Submit(ctx context.Context, in validation.Input) (*ContactMessage, error) {
	form, err := s.validator.Validate(in)
	if err != nil {
		return nil, err
	}

	msg := &ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Subject: form.Subject,
		Message: form.Message,
		Status:  StatusNew,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "contact message stored", "id", msg.ID)
	s.notify(ctx, msg)
	return msg, nil
}

func (s *service) notify(ctx context.Context, msg *ContactMessage) {
	if s.notifier == nil {
		return
	}
	event := SubmittedEvent{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		CreatedAt: msg.CreatedAt,
	}

	// The publish outlives the request if it has to.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- s.notifier.NotifyContactSubmitted(publishCtx, event)
	}()

	timer := time.NewTimer(s.notifyTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			s.logger.WarnContext(ctx, "failed to publish contact submitted event", "id", msg.ID, "error", err)
		}
	case <-timer.C:
		s.logger.WarnContext(ctx, "contact submitted event still pending, answering without it", "id", msg.ID, "waited", s.notifyTimeout)
	}
}

func (s *service) GetAll(ctx context.Context) ([]ContactMessage, error) {
	return s.repo.GetAll(ctx)
}
