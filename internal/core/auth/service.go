package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/employee-awards/internal/core/employee"
)

// EmployeeFinder はログインとトークン検証に必要な社員参照です。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindByEmail(ctx context.Context, email string) (*employee.Employee, error)
}

// UseCase は認証ユースケースの公開インターフェースです。
type UseCase interface {
	Login(ctx context.Context, email, password string, remember bool) (*Session, error)
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// Session はログイン成功時に発行されるトークンです。
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// Service はログインとトークンからの本人解決を提供します。
type Service struct {
	employees EmployeeFinder
	tokens    *TokenIssuer
}

// NewService は Service を生成します。
func NewService(employees EmployeeFinder, tokens *TokenIssuer) *Service {
	return &Service{employees: employees, tokens: tokens}
}

// Login はメールアドレスとパスワードを検証してセッションを発行します。
// 社員が存在しない場合とパスワード不一致は区別せず ErrInvalidCredentials を返します。
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*Session, error) {
	normalized, err := employee.NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	emp, err := s.employees.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find employee: %w", err)
	}
	if !emp.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(emp.ID, emp.IsStaff, remember)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  Identity{EmployeeID: emp.ID, Name: emp.Name, IsStaff: emp.IsStaff},
	}, nil
}

// Authenticate はトークンを検証し、現在の社員情報から Identity を組み立てます。
// 職員フラグはトークンではなく保存済みの社員情報を正とします。
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.FindByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("auth: find employee: %w", err)
	}

	return &Identity{EmployeeID: emp.ID, Name: emp.Name, IsStaff: emp.IsStaff}, nil
}
