package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "employee-awards"

// Claims はセッショントークンに格納される情報です。
type Claims struct {
	EmployeeID string `json:"employee_id"`
	IsStaff    bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// TokenIssuer は HS256 で署名したセッショントークンを発行・検証します。
type TokenIssuer struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewTokenIssuer は TokenIssuer を生成します。remember 指定時は rememberTTL を有効期限に使います。
func NewTokenIssuer(secret string, ttl, rememberTTL time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: secret key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	if rememberTTL < ttl {
		rememberTTL = ttl
	}
	return &TokenIssuer{
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue は社員 ID と職員フラグを持つトークンを発行し、その有効期限とともに返します。
func (i *TokenIssuer) Issue(employeeID string, isStaff, remember bool) (string, time.Time, error) {
	now := i.now()
	ttl := i.ttl
	if remember {
		ttl = i.rememberTTL
	}
	expiresAt := now.Add(ttl)

	claims := Claims{
		EmployeeID: employeeID,
		IsStaff:    isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   employeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse はトークンの署名と有効期限を検証して Claims を返します。
func (i *TokenIssuer) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.EmployeeID == "" || claims.Issuer != issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
