package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

// InsertAllocation 在开课已经分配过教师时返回违反 allocations_offering_id_key 约束的错误
func (r *Repository) InsertAllocation(allocation *domain.Allocation) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO allocations (offering_id, professor_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := r.dbpool.QueryRowContext(ctx, query, allocation.OfferingID, allocation.ProfessorID).Scan(&allocation.ID, &allocation.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllocationsByTermID(termID int64) ([]*domain.Allocation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT a.id, a.offering_id, a.professor_id, a.created_at
		FROM allocations a
		JOIN offerings o ON a.offering_id = o.id
		WHERE o.term_id = $1
		ORDER BY a.offering_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := make([]*domain.Allocation, 0)
	for rows.Next() {
		allocation := &domain.Allocation{}
		if err := rows.Scan(&allocation.ID, &allocation.OfferingID, &allocation.ProfessorID, &allocation.CreatedAt); err != nil {
			return nil, err
		}
		allocations = append(allocations, allocation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return allocations, nil
}
