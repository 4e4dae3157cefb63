package auth

// Identity はリクエストを発行した社員です。匿名リクエストでは nil を使います。
type Identity struct {
	EmployeeID string
	Name       string
	IsStaff    bool
}

// Decision はアクセス判定の結果です。
type Decision int

const (
	// Allowed は操作を許可します。
	Allowed Decision = iota
	// AuthenticationRequired はログインが必要です。
	AuthenticationRequired
	// Forbidden はログイン済みだが権限がありません。
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case AuthenticationRequired:
		return "authentication_required"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Err は判定結果に対応するエラーを返します。Allowed では nil です。
func (d Decision) Err() error {
	switch d {
	case Allowed:
		return nil
	case AuthenticationRequired:
		return ErrAuthenticationRequired
	default:
		return ErrForbidden
	}
}

// RequireLogin はログイン済みであれば許可します。
func RequireLogin(id *Identity) Decision {
	if id == nil || id.EmployeeID == "" {
		return AuthenticationRequired
	}
	return Allowed
}

// RequireStaff は職員としてログインしていれば許可します。
func RequireStaff(id *Identity) Decision {
	if d := RequireLogin(id); d != Allowed {
		return d
	}
	if !id.IsStaff {
		return Forbidden
	}
	return Allowed
}
