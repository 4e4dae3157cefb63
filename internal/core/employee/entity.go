package employee

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Employee は投票者であり、被推薦者にもなり得る社員エンティティです。
type Employee struct {
	ID           string
	Name         string
	Email        string
	IsStaff      bool
	Department   string
	HasVoted     bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsNominee はこの社員が推薦対象になれるかを返します。スタッフは推薦対象外です。
func (e *Employee) IsNominee() bool {
	return e != nil && !e.IsStaff
}

// CanVote はまだ投票を提出していないかを返します。
func (e *Employee) CanVote() bool {
	return e != nil && !e.HasVoted
}

// VerifyPassword は平文パスワードが保存済みハッシュと一致するかを検証します。
func (e *Employee) VerifyPassword(password string) bool {
	if e == nil || e.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}
