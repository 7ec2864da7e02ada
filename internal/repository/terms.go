package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func (r *Repository) CreateTerm(term *domain.Term) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO terms (name, year, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	params := []any{term.Name, term.Year, term.Period, term.StartDate, term.EndDate}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&term.ID, &term.CreatedAt, &term.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllTerms() ([]*domain.Term, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, year, period, start_date, end_date, created_at, version
		FROM terms
		ORDER BY start_date DESC, id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := make([]*domain.Term, 0)
	for rows.Next() {
		term := &domain.Term{}
		dst := []any{&term.ID, &term.Name, &term.Year, &term.Period, &term.StartDate, &term.EndDate, &term.CreatedAt, &term.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}

func (r *Repository) GetTermByID(id int64) (*domain.Term, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, year, period, start_date, end_date, created_at, version
		FROM terms WHERE id = $1
	`

	term := &domain.Term{
		ID: id,
	}
	dst := []any{&term.Name, &term.Year, &term.Period, &term.StartDate, &term.EndDate, &term.CreatedAt, &term.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return term, nil
}

func (r *Repository) GetTermByName(name string) (*domain.Term, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, year, period, start_date, end_date, created_at, version
		FROM terms WHERE name = $1
	`

	term := &domain.Term{
		Name: name,
	}
	dst := []any{&term.ID, &term.Year, &term.Period, &term.StartDate, &term.EndDate, &term.CreatedAt, &term.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	return term, nil
}
