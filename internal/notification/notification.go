package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/safecity/backend/internal/notification/templates"
)

// Mailer delivers a single email and reports the dispatch id assigned by the
// transport. An empty id with a nil error is treated as a failed dispatch by
// callers that require delivery confirmation.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (id string, err error)
}

// Service renders scenario templates and dispatches them over email.
type Service struct {
	log    *slog.Logger
	mailer Mailer
	engine *templates.Engine
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, mailer Mailer, engine *templates.Engine) *Service {
	return &Service{log: log, mailer: mailer, engine: engine}
}

// SendEmail renders the template scenario and sends it to the recipient,
// returning the transport's dispatch id.
func SendEmail[T any](ctx context.Context, s *Service, h templates.Handle[T], to string, data T) (string, error) {
	rendered, err := templates.Render(ctx, s.engine, h, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", h.ID(), err)
	}

	id, err := s.mailer.Send(ctx, to, rendered.Subject, rendered.EmailHTML)
	if err != nil {
		return "", err
	}

	s.log.Info("email dispatched", "scenario", h.ID(), "to", to, "id", id)
	return id, nil
}
