package faq

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/safecity/backend/internal/database"
)

// Repository defines the persistence operations for FAQ entries.
type Repository interface {
	Create(ctx context.Context, f *FAQ) error
	FindByID(ctx context.Context, id string) (*FAQ, error)
	List(ctx context.Context) ([]FAQ, error)
	Update(ctx context.Context, id string, question, answer *string) (*FAQ, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new FAQ repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, f *FAQ) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	query, args, err := r.psql.Insert("faqs").
		Columns("id", "question", "answer", "created_at", "updated_at").
		Values(f.ID, f.Question, f.Answer, f.CreatedAt, f.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*FAQ, error) {
	query, args, err := r.psql.Select("id", "question", "answer", "created_at", "updated_at").
		From("faqs").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var f FAQ
	if err := pgxscan.Get(ctx, r.db, &f, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) List(ctx context.Context) ([]FAQ, error) {
	query, args, err := r.psql.Select("id", "question", "answer", "created_at", "updated_at").
		From("faqs").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var faqs []FAQ
	if err := pgxscan.Select(ctx, r.db, &faqs, query, args...); err != nil {
		return nil, err
	}
	return faqs, nil
}

func (r *repository) Update(ctx context.Context, id string, question, answer *string) (*FAQ, error) {
	builder := r.psql.Update("faqs").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	if question != nil {
		builder = builder.Set("question", *question)
	}
	if answer != nil {
		builder = builder.Set("answer", *answer)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("faqs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
