package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-awards/internal/core/award"
	pgdb "github.com/ogurasousui/employee-awards/internal/platform/db/postgres"
)

// AwardRepository は PostgreSQL を利用した表彰カテゴリ永続化の実装です。
type AwardRepository struct {
	pool pgdb.Queryer
}

// NewAwardRepository は AwardRepository を生成します。
func NewAwardRepository(pool pgdb.Queryer) *AwardRepository {
	return &AwardRepository{pool: pool}
}

// Create はカテゴリを新規作成します。
func (r *AwardRepository) Create(ctx context.Context, a *award.Award) (*award.Award, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO awards (name, description, department_specific, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, description, department_specific, created_at
    `, a.Name, a.Description, a.DepartmentSpecific, a.CreatedAt)

	created, err := scanAward(row)
	if err != nil {
		return nil, translateAwardPgError(err)
	}
	return created, nil
}

// FindByID は ID でカテゴリを取得します。
func (r *AwardRepository) FindByID(ctx context.Context, id string) (*award.Award, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, description, department_specific, created_at
          FROM awards
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanAward(row)
	if err != nil {
		return nil, translateAwardPgError(err)
	}
	return found, nil
}

// List は全カテゴリを名前順で取得します。
func (r *AwardRepository) List(ctx context.Context) ([]*award.Award, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, description, department_specific, created_at
          FROM awards
         ORDER BY name ASC, id ASC
    `)
	if err != nil {
		return nil, translateAwardPgError(err)
	}
	defer rows.Close()

	awards := make([]*award.Award, 0)
	for rows.Next() {
		a, err := scanAward(rows)
		if err != nil {
			return nil, translateAwardPgError(err)
		}
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAwardPgError(err)
	}
	return awards, nil
}

func scanAward(row pgx.Row) (*award.Award, error) {
	var (
		id                 string
		name               string
		description        string
		departmentSpecific bool
		createdAt          time.Time
	)
	if err := row.Scan(&id, &name, &description, &departmentSpecific, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, award.ErrAwardNotFound
		}
		return nil, err
	}
	return &award.Award{
		ID:                 id,
		Name:               name,
		Description:        description,
		DepartmentSpecific: departmentSpecific,
		CreatedAt:          createdAt,
	}, nil
}

func translateAwardPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return award.ErrAwardNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return award.ErrNameAlreadyExists
	}
	return err
}
