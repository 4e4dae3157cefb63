package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-awards/internal/platform/db/postgres"
)

// VoteRepository は PostgreSQL を利用した投票記録の実装です。投票は追記のみで更新・削除しません。
type VoteRepository struct {
	pool pgdb.Queryer
}

// NewVoteRepository は VoteRepository を生成します。
func NewVoteRepository(pool pgdb.Queryer) *VoteRepository {
	return &VoteRepository{pool: pool}
}

// Create は投票を 1 件記録します。
func (r *VoteRepository) Create(ctx context.Context, v *ballot.Vote) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO votes (id, voter_id, award_id, nominee_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, v.ID, v.VoterID, v.AwardID, v.NomineeID, v.CreatedAt)
	if err != nil {
		return translateVotePgError(err)
	}
	return nil
}

// List は記録済みの全投票を取得します。
func (r *VoteRepository) List(ctx context.Context) ([]*ballot.Vote, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, voter_id, award_id, nominee_id, created_at
          FROM votes
         ORDER BY created_at ASC, id ASC
    `)
	if err != nil {
		return nil, translateVotePgError(err)
	}
	defer rows.Close()

	votes := make([]*ballot.Vote, 0)
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, translateVotePgError(err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translateVotePgError(err)
	}
	return votes, nil
}

func scanVote(row pgx.Row) (*ballot.Vote, error) {
	var (
		v         ballot.Vote
		createdAt time.Time
	)
	if err := row.Scan(&v.ID, &v.VoterID, &v.AwardID, &v.NomineeID, &createdAt); err != nil {
		return nil, err
	}
	v.CreatedAt = createdAt
	return &v, nil
}

func translateVotePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return ballot.ErrAlreadyVoted
	case foreignKeyViolationCode:
		switch pgErr.ConstraintName {
		case "votes_award_id_fkey":
			return ballot.ErrAwardNotFound
		case "votes_voter_id_fkey", "votes_nominee_id_fkey":
			return employee.ErrEmployeeNotFound
		}
	}
	return err
}
