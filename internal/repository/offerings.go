package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func (r *Repository) CreateOffering(offering *domain.Offering) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO offerings (term_id, course_id, class)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	params := []any{offering.TermID, offering.CourseID, offering.Class}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&offering.ID, &offering.CreatedAt, &offering.Version); err != nil {
		return err
	}

	return nil
}

// GetPendingOfferingsByTermID 返回该学期中还没有分配教师的开课，按 id 升序
// 返回的顺序就是遗传算法中基因位的顺序
func (r *Repository) GetPendingOfferingsByTermID(termID int64) ([]*domain.Offering, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			o.id,
			o.course_id,
			c.name,
			o.class,
			c.area_id,
			c.required_level,
			c.workload,
			o.created_at,
			o.version
		FROM offerings o
		JOIN courses c ON o.course_id = c.id
		LEFT JOIN allocations a ON o.id = a.offering_id
		WHERE o.term_id = $1 AND a.id IS NULL
		ORDER BY o.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offerings := make([]*domain.Offering, 0)
	for rows.Next() {
		offering := &domain.Offering{
			TermID: termID,
		}
		dst := []any{
			&offering.ID,
			&offering.CourseID,
			&offering.CourseName,
			&offering.Class,
			&offering.AreaID,
			&offering.RequiredLevel,
			&offering.Workload,
			&offering.CreatedAt,
			&offering.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		offerings = append(offerings, offering)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offerings, nil
}
