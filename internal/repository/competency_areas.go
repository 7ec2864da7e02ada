package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func (r *Repository) CreateCompetencyArea(area *domain.CompetencyArea) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO competency_areas (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`
	if err := r.dbpool.QueryRowContext(ctx, query, area.Name).Scan(&area.ID, &area.CreatedAt, &area.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCompetencyAreaByName(name string) (*domain.CompetencyArea, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, created_at, version FROM competency_areas WHERE name = $1
	`

	area := &domain.CompetencyArea{
		Name: name,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(&area.ID, &area.CreatedAt, &area.Version); err != nil {
		return nil, err
	}

	return area, nil
}

func (r *Repository) GetAllCompetencyAreas() ([]*domain.CompetencyArea, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, created_at, version FROM competency_areas ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]*domain.CompetencyArea, 0)
	for rows.Next() {
		area := &domain.CompetencyArea{}
		if err := rows.Scan(&area.ID, &area.Name, &area.CreatedAt, &area.Version); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return areas, nil
}
