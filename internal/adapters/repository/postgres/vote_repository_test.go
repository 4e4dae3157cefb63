package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestVoteRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO votes`).
		WithArgs("v-1", "voter", "award", "nominee", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewVoteRepository(mock).Create(context.Background(), &ballot.Vote{
		ID: "v-1", VoterID: "voter", AwardID: "award", NomineeID: "nominee", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVoteRepository_List(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM votes ORDER BY created_at ASC, id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "voter_id", "award_id", "nominee_id", "created_at"}).
			AddRow("v-1", "e-1", "a-1", "e-2", now).
			AddRow("v-2", "e-3", "a-1", "e-2", now))

	votes, err := NewVoteRepository(mock).List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(votes) != 2 || votes[1].VoterID != "e-3" {
		t.Fatalf("unexpected votes: %+v", votes)
	}
}

func TestTranslateVotePgError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate voter award", &pgconn.PgError{Code: uniqueViolationCode}, ballot.ErrAlreadyVoted},
		{"unknown award", &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "votes_award_id_fkey"}, ballot.ErrAwardNotFound},
		{"unknown nominee", &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "votes_nominee_id_fkey"}, employee.ErrEmployeeNotFound},
	}
	for _, tc := range cases {
		if got := translateVotePgError(tc.err); !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	other := errors.New("other")
	if translateVotePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}
