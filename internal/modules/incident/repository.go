package incident

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/safecity/backend/internal/database"
)

// Repository defines the persistence operations for incidents and their media.
type Repository interface {
	CreateIncident(ctx context.Context, in *Incident) error
	CreateMedia(ctx context.Context, m *Media) error
	// ListIncidents returns incidents newest first, each with its media
	// attached. A non-nil forUserID scopes the list to that reporter.
	ListIncidents(ctx context.Context, forUserID *string) ([]Incident, error)
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new incident repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *repository) CreateIncident(ctx context.Context, in *Incident) error {
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("incidents").
		Columns("id", "title", "description", "location", "is_anonymous", "user_id", "created_at").
		Values(in.ID, in.Title, in.Description, in.Location, in.IsAnonymous, in.UserID, in.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) CreateMedia(ctx context.Context, m *Media) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("incident_media").
		Columns("id", "incident_id", "url", "created_at").
		Values(m.ID, m.IncidentID, m.URL, m.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) ListIncidents(ctx context.Context, forUserID *string) ([]Incident, error) {
	builder := r.psql.Select("id", "title", "description", "location", "is_anonymous", "user_id", "created_at").
		From("incidents").
		OrderBy("created_at DESC")
	if forUserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *forUserID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var incidents []Incident
	if err := pgxscan.Select(ctx, r.db, &incidents, query, args...); err != nil {
		return nil, err
	}
	if len(incidents) == 0 {
		return incidents, nil
	}

	ids := make([]string, 0, len(incidents))
	for i := range incidents {
		ids = append(ids, incidents[i].ID)
	}

	mediaQuery, mediaArgs, err := r.psql.Select("id", "incident_id", "url", "created_at").
		From("incident_media").
		Where(squirrel.Eq{"incident_id": ids}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var media []Media
	if err := pgxscan.Select(ctx, r.db, &media, mediaQuery, mediaArgs...); err != nil {
		return nil, err
	}

	byIncident := make(map[string][]Media, len(incidents))
	for _, m := range media {
		byIncident[m.IncidentID] = append(byIncident[m.IncidentID], m)
	}
	for i := range incidents {
		incidents[i].Media = byIncident[incidents[i].ID]
	}
	return incidents, nil
}
