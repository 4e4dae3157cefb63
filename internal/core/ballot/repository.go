package ballot

import (
	"context"

	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

// VoteRepository は投票記録の永続化の抽象です。
type VoteRepository interface {
	Create(ctx context.Context, vote *Vote) error
	List(ctx context.Context) ([]*Vote, error)
}

// EmployeeStore は投票処理が必要とする社員の参照と投票済みフラグ更新です。
type EmployeeStore interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, error)
	MarkVoted(ctx context.Context, id string) error
}

// AwardStore はカテゴリ一覧の参照です。
type AwardStore interface {
	List(ctx context.Context) ([]*award.Award, error)
}
