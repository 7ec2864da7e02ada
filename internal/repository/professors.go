package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func (r *Repository) CreateProfessor(professor *domain.Professor) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO professors (code, full_name, title_level, max_workload, contract_model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	params := []any{professor.Code, professor.FullName, professor.TitleLevel, professor.MaxWorkload, professor.ContractModel}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&professor.ID, &professor.CreatedAt, &professor.Version); err != nil {
		return err
	}

	for _, areaID := range professor.AreaIDs {
		query = `
			INSERT INTO professor_areas (professor_id, area_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, professor.ID, areaID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetAllProfessors 按 id 升序返回所有教师及其能力领域
func (r *Repository) GetAllProfessors() ([]*domain.Professor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			p.id,
			p.code,
			p.full_name,
			p.title_level,
			p.max_workload,
			p.contract_model,
			p.created_at,
			p.version,
			pa.area_id
		FROM professors p
		LEFT JOIN professor_areas pa ON p.id = pa.professor_id
		ORDER BY p.id, pa.area_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	professors := make([]*domain.Professor, 0)
	var current *domain.Professor

	for rows.Next() {
		var row struct {
			domain.Professor
			AreaID sql.NullInt64
		}

		dst := []any{
			&row.ID,
			&row.Code,
			&row.FullName,
			&row.TitleLevel,
			&row.MaxWorkload,
			&row.ContractModel,
			&row.CreatedAt,
			&row.Version,
			&row.AreaID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		// 结果按教师 id 排序，同一位教师的行是连续的
		if current == nil || current.ID != row.ID {
			professor := row.Professor
			professor.AreaIDs = make([]int64, 0)
			current = &professor
			professors = append(professors, current)
		}

		// 没有任何能力领域的教师只有一行，area_id 为空
		if row.AreaID.Valid {
			current.AreaIDs = append(current.AreaIDs, row.AreaID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return professors, nil
}
