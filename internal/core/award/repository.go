package award

import "context"

// Repository は表彰カテゴリ永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, award *Award) (*Award, error)
	FindByID(ctx context.Context, id string) (*Award, error)
	// List は全カテゴリを名前順で返します。
	List(ctx context.Context) ([]*Award, error)
}
