package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-awards/internal/adapters/grpc/handler"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

// Services は gRPC に登録するサービス実装です。
type Services struct {
	Greeter       handler.GreeterServiceServer
	Admin         handler.AdminServiceServer
	Authenticator handler.Authenticator
}

// Server は gRPC サーバーと HTTP サーバーのライフサイクルを管理します。
type Server struct {
	grpcAddr   string
	grpcServer *grpc.Server
	httpAddr   string
	http       *echo.Echo
	log        zerolog.Logger
}

// New は gRPC (管理用) と HTTP (投票画面) を待ち受けるサーバーを構築します。
// httpServer が nil の場合は gRPC のみを起動します。
func New(grpcAddr, httpAddr string, svcs Services, httpServer *echo.Echo, log zerolog.Logger, opts ...grpc.ServerOption) *Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		handler.LoggingInterceptor(log),
		handler.StaffAuthInterceptor(svcs.Authenticator),
	))
	srv := grpc.NewServer(opts...)
	if svcs.Greeter != nil {
		handler.RegisterGreeterServiceServer(srv, svcs.Greeter)
	}
	if svcs.Admin != nil {
		handler.RegisterAdminServiceServer(srv, svcs.Admin)
	}

	return &Server{
		grpcAddr:   grpcAddr,
		grpcServer: srv,
		httpAddr:   httpAddr,
		http:       httpServer,
		log:        log,
	}
}

// Run は両サーバーを起動し、コンテキストがキャンセルされるとどちらも停止します。
// 一方が異常終了した場合はもう一方も停止してそのエラーを返します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.grpcAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.grpcAddr).Msg("gRPC server listening")
		if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	if s.http != nil {
		g.Go(func() error {
			s.log.Info().Str("addr", s.httpAddr).Msg("HTTP server listening")
			if err := s.http.Start(s.httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Msg("shutting down servers")
		s.grpcServer.GracefulStop()
		if s.http != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.http.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown HTTP: %w", err)
			}
		}
		return nil
	})

	return g.Wait()
}

// GracefulStop は gRPC サーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
