package handler

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ogurasousui/employee-awards/internal/core/auth"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// Authenticator はトークンから本人を解決します。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// RequestLogger はリクエストごとのロガーをコンテキストへ格納し、完了時に 1 行出力します。
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	inject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLogger := base.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))
			return next(c)
		}
	}

	logRequest := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logger.FromContext(c.Request().Context())
			event := l.Info()
			if v.Status >= 500 {
				event = l.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("http request")
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return inject(logRequest(next))
	}
}

// Authenticate はセッションクッキーまたは Authorization ヘッダーから本人を解決します。
// トークンが無い・無効な場合は匿名として後続へ進みます。
func Authenticate(authenticator Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				if cookie, err := c.Cookie(cookieName); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			id, err := authenticator.Authenticate(ctx, token)
			if err != nil {
				logger.FromContext(ctx).Debug().Err(err).Msg("ignoring invalid session token")
				return next(c)
			}

			c.Set(identityKey, id)
			c.SetRequest(c.Request().WithContext(logger.WithFields(ctx, map[string]any{"employee_id": id.EmployeeID})))
			return next(c)
		}
	}
}

// RequireLogin はログインしていないリクエストを 401 で拒否します。
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return require(auth.RequireLogin, next)
}

// RequireStaff は職員以外のリクエストを 401 または 403 で拒否します。
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return require(auth.RequireStaff, next)
}

func require(check func(*auth.Identity) auth.Decision, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := check(CurrentIdentity(c)).Err(); err != nil {
			return err
		}
		return next(c)
	}
}

// CurrentIdentity はリクエストの本人を返します。匿名の場合は nil です。
func CurrentIdentity(c echo.Context) *auth.Identity {
	id, _ := c.Get(identityKey).(*auth.Identity)
	return id
}

func bearerToken(header string) string {
	after, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}
