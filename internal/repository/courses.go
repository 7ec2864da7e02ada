package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func (r *Repository) CreateCourse(course *domain.Course) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO courses (name, workload, required_level, area_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	params := []any{course.Name, course.Workload, course.RequiredLevel, course.AreaID}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&course.ID, &course.CreatedAt, &course.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCourseByName(name string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, workload, required_level, area_id, created_at, version
		FROM courses WHERE name = $1
	`

	course := &domain.Course{
		Name: name,
	}
	dst := []any{&course.ID, &course.Workload, &course.RequiredLevel, &course.AreaID, &course.CreatedAt, &course.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	return course, nil
}
