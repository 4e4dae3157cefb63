package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, error)
	// MarkVoted は投票済みフラグを false から true へ一度だけ切り替えます。
	// 既に true の場合は ErrAlreadyVoted を返します。
	MarkVoted(ctx context.Context, id string) error
}

// ListEmployeesFilter は一覧取得用フィルタです。nil の項目は絞り込みません。
type ListEmployeesFilter struct {
	HasVoted *bool
	IsStaff  *bool
}
