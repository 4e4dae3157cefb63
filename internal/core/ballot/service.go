package ballot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は投票記録の ID を採番します。
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// UseCase は投票資格の判定と投票受付の公開インターフェースです。
type UseCase interface {
	CanVote(ctx context.Context, voterID string) (bool, error)
	GetBallot(ctx context.Context, voterID string) (*Ballot, error)
	SubmitBallot(ctx context.Context, in SubmitBallotInput) (*SubmitBallotResult, error)
}

// Service は投票資格の判定 (eligibility.go) と投票受付 (ledger.go) をまとめます。
type Service struct {
	employees EmployeeStore
	awards    AwardStore
	votes     VoteRepository
	tx        TransactionManager
	clock     Clock
	ids       IDGenerator
}

// NewService は Service を生成します。clock, ids, tx は nil の場合に既定実装を使います。
func NewService(employees EmployeeStore, awards AwardStore, votes VoteRepository, tx TransactionManager, clock Clock, ids IDGenerator) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		employees: employees,
		awards:    awards,
		votes:     votes,
		tx:        tx,
		clock:     clock,
		ids:       ids,
	}
}
