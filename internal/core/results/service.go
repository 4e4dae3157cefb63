package results

import (
	"context"
	"fmt"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

// AwardReader はカテゴリ一覧を返します。
type AwardReader interface {
	List(ctx context.Context) ([]*award.Award, error)
}

// EmployeeReader は社員一覧を返します。
type EmployeeReader interface {
	List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, error)
}

// VoteReader は記録済みの全投票を返します。
type VoteReader interface {
	List(ctx context.Context) ([]*ballot.Vote, error)
}

// TransactionManager は読み取り専用トランザクションの抽象です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// UseCase は集計結果取得の公開インターフェースです。
type UseCase interface {
	GetWinners(ctx context.Context) (*Report, error)
}

// Service はストアから集計入力を読み出して Resolve に渡します。
type Service struct {
	awards    AwardReader
	employees EmployeeReader
	votes     VoteReader
	tx        TransactionManager
}

// NewService は Service を生成します。
func NewService(awards AwardReader, employees EmployeeReader, votes VoteReader, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{awards: awards, employees: employees, votes: votes, tx: tx}
}

// GetWinners は 1 つの読み取りトランザクション内で取得したデータから集計します。
func (s *Service) GetWinners(ctx context.Context) (*Report, error) {
	var (
		awards    []*award.Award
		employees []*employee.Employee
		votes     []*ballot.Vote
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if awards, err = s.awards.List(txCtx); err != nil {
			return fmt.Errorf("results: list awards: %w", err)
		}
		if employees, err = s.employees.List(txCtx, employee.ListEmployeesFilter{}); err != nil {
			return fmt.Errorf("results: list employees: %w", err)
		}
		if votes, err = s.votes.List(txCtx); err != nil {
			return fmt.Errorf("results: list votes: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return Resolve(awards, employees, votes)
}
