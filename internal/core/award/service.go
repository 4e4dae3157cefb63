package award

import (
	"context"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
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

// Service は表彰カテゴリのユースケースです。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は表彰カテゴリユースケースの公開インターフェースです。
type UseCase interface {
	CreateAward(ctx context.Context, in CreateAwardInput) (*Award, error)
	GetAward(ctx context.Context, id string) (*Award, error)
	ListAwards(ctx context.Context) ([]*Award, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateAwardInput はカテゴリ作成時の入力です。
type CreateAwardInput struct {
	Name               string
	Description        string
	DepartmentSpecific bool
}

// CreateAward はカテゴリを作成します。名前は一意です。
func (s *Service) CreateAward(ctx context.Context, in CreateAwardInput) (*Award, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	var created *Award
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, &Award{
			Name:               name,
			Description:        strings.TrimSpace(in.Description),
			DepartmentSpecific: in.DepartmentSpecific,
			CreatedAt:          s.clock.Now(),
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// ListAwards は全カテゴリを返します。
func (s *Service) ListAwards(ctx context.Context) ([]*Award, error) {
	var awards []*Award
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		awards = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return awards, nil
}

// GetAward は ID でカテゴリを取得します。存在しない場合は ErrAwardNotFound を返します。
func (s *Service) GetAward(ctx context.Context, id string) (*Award, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidID
	}

	var found *Award
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		a, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = a
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}
