package handler

import (
	"context"
	"strings"
	"time"

	"github.com/ogurasousui/employee-awards/internal/core/auth"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Authenticator はトークンから本人を解決します。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

type identityContextKey struct{}

// IdentityFromContext はインターセプタが解決した本人を返します。
func IdentityFromContext(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityContextKey{}).(*auth.Identity)
	return id
}

// StaffAuthInterceptor は AwardsAdminService の呼び出しに職員のベアラートークンを要求します。
// その他のサービスはそのまま通します。
func StaffAuthInterceptor(authenticator Authenticator) grpc.UnaryServerInterceptor {
	prefix := "/" + AdminServiceName + "/"
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}

		var identity *auth.Identity
		if token := bearerToken(ctx); token != "" {
			id, err := authenticator.Authenticate(ctx, token)
			if err != nil {
				return nil, toStatusError(err)
			}
			identity = id
		}

		if err := auth.RequireStaff(identity).Err(); err != nil {
			return nil, toStatusError(err)
		}

		ctx = context.WithValue(ctx, identityContextKey{}, identity)
		ctx = logger.WithFields(ctx, map[string]any{"employee_id": identity.EmployeeID})
		return handler(ctx, req)
	}
}

// LoggingInterceptor は各 RPC の結果をリクエストロガーへ出力します。
func LoggingInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		reqLogger := base.With().Str("grpc_method", info.FullMethod).Logger()
		ctx = reqLogger.WithContext(ctx)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := logger.FromContext(ctx).Info()
		if code == codes.Internal || code == codes.Unknown {
			event = logger.FromContext(ctx).Error().Err(err)
		}
		event.Str("code", code.String()).Dur("latency", time.Since(start)).Msg("grpc request")
		return resp, err
	}
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get("authorization") {
		if after, found := strings.CutPrefix(v, "Bearer "); found {
			return strings.TrimSpace(after)
		}
	}
	return ""
}
