package incident

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Attachment is an upload supplied with a new incident.
type Attachment struct {
	Filename string
	Data     []byte
}

// Service defines the incident module's business logic.
type Service interface {
	// Create files an incident, storing any attachments and recording their
	// URL references. Anonymous incidents drop the reporter id.
	Create(ctx context.Context, userID *string, title, description string, location *string, isAnonymous bool, attachments []Attachment) (*Incident, error)
	// ListAll returns every incident (officer view).
	ListAll(ctx context.Context) ([]Incident, error)
	// ListOwn returns the caller's incidents.
	ListOwn(ctx context.Context, userID string) ([]Incident, error)
}

type service struct {
	repo    Repository
	storage Storage
	logger  *slog.Logger
}

// NewService creates a new incident service.
func NewService(repo Repository, storage Storage, logger *slog.Logger) Service {
	return &service{repo: repo, storage: storage, logger: logger}
}

func (s *service) Create(ctx context.Context, userID *string, title, description string, location *string, isAnonymous bool, attachments []Attachment) (*Incident, error) {
	if isAnonymous {
		userID = nil
	}

	in := &Incident{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       title,
		Description: description,
		Location:    location,
		IsAnonymous: isAnonymous,
		UserID:      userID,
	}
	if err := s.repo.CreateIncident(ctx, in); err != nil {
		return nil, fmt.Errorf("creating incident: %w", err)
	}

	for _, att := range attachments {
		url, err := s.storage.Save(ctx, att.Filename, att.Data)
		if err != nil {
			s.logger.Error("failed to store attachment", "error", err, "incident_id", in.ID)
			continue
		}
		m := &Media{
			ID:         uuid.Must(uuid.NewV7()).String(),
			IncidentID: in.ID,
			URL:        url,
		}
		if err := s.repo.CreateMedia(ctx, m); err != nil {
			s.logger.Error("failed to record attachment", "error", err, "incident_id", in.ID)
			continue
		}
		in.Media = append(in.Media, *m)
	}

	s.logger.Info("incident filed", "incident_id", in.ID, "anonymous", in.IsAnonymous)
	return in, nil
}

func (s *service) ListAll(ctx context.Context) ([]Incident, error) {
	return s.repo.ListIncidents(ctx, nil)
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]Incident, error) {
	return s.repo.ListIncidents(ctx, &userID)
}
