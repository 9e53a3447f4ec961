package faq

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Service defines the FAQ module's business logic. It is a thin layer: the
// interesting rule (mutations are admin-only) lives at the route level.
type Service interface {
	Create(ctx context.Context, question, answer string) (*FAQ, error)
	Get(ctx context.Context, id string) (*FAQ, error)
	List(ctx context.Context) ([]FAQ, error)
	Update(ctx context.Context, id string, question, answer *string) (*FAQ, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new FAQ service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Create(ctx context.Context, question, answer string) (*FAQ, error) {
	f := &FAQ{
		ID:       uuid.Must(uuid.NewV7()).String(),
		Question: question,
		Answer:   answer,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("faq created", "faq_id", f.ID)
	return f, nil
}

func (s *service) Get(ctx context.Context, id string) (*FAQ, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]FAQ, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, question, answer *string) (*FAQ, error) {
	return s.repo.Update(ctx, id, question, answer)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
