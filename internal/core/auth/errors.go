package auth

import "errors"

var (
	// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しない場合に返却されます。
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	// ErrInvalidToken はトークンの署名・期限・形式が不正な場合に返却されます。
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrAuthenticationRequired はログインが必要な操作を匿名で呼び出した場合に返却されます。
	ErrAuthenticationRequired = errors.New("auth: authentication required")
	// ErrForbidden は権限の無い操作を呼び出した場合に返却されます。
	ErrForbidden = errors.New("auth: forbidden")
)
