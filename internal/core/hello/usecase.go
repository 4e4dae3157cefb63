package hello

import (
	"context"
	"fmt"
	"strings"
)

// DefaultCompany は会社名が未設定の場合に表示する名前です。
const DefaultCompany = "No Company"

// Greeter はトップページの挨拶文を生成するユースケースのインターフェースを定義します。
type Greeter interface {
	// SayHello は呼び出し元へ返却するメッセージを生成します。
	SayHello(ctx context.Context) (string, error)
}

// Service は Greeter ユースケースのデフォルト実装です。
type Service struct {
	company string
}

// NewService は会社名を埋め込んだ Greeter を返します。空白のみの場合は DefaultCompany を使います。
func NewService(company string) *Service {
	company = strings.TrimSpace(company)
	if company == "" {
		company = DefaultCompany
	}
	return &Service{company: company}
}

// SayHello は社員表彰投票への案内文を返却します。
func (s *Service) SayHello(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Welcome to the %s employee awards", s.company), nil
}
