package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	grpchandler "github.com/ogurasousui/employee-awards/internal/adapters/grpc/handler"
	httphandler "github.com/ogurasousui/employee-awards/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-awards/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-awards/internal/core/auth"
	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/ballot"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/core/hello"
	"github.com/ogurasousui/employee-awards/internal/core/results"
	"github.com/ogurasousui/employee-awards/internal/platform/config"
	pg "github.com/ogurasousui/employee-awards/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
	"github.com/ogurasousui/employee-awards/internal/platform/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	appLogger, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer func() { _ = closeLog() }()
	logger.SetDefault(appLogger)
	ctx = appLogger.WithContext(ctx)

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("server stopped with error")
		_ = closeLog()
		os.Exit(1)
	}
	appLogger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	awardRepo := postgres.NewAwardRepository(dbPool)
	voteRepo := postgres.NewVoteRepository(dbPool)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL, cfg.Auth.RememberTTL)
	if err != nil {
		return err
	}

	greeterSvc := hello.NewService(cfg.App.Company)
	authSvc := auth.NewService(employeeRepo, tokens)
	employeeSvc := employee.NewService(employeeRepo, nil, txManager)
	awardSvc := award.NewService(awardRepo, nil, txManager)
	ballotSvc := ballot.NewService(employeeRepo, awardRepo, voteRepo, txManager, nil, nil)
	resultsSvc := results.NewService(awardRepo, employeeRepo, voteRepo, txManager)

	httpServer := httphandler.NewEcho(httphandler.Dependencies{
		Greeter:   greeterSvc,
		Auth:      authSvc,
		Ballots:   ballotSvc,
		Winners:   resultsSvc,
		Employees: employeeSvc,
		Awards:    awardSvc,
		Cookie: httphandler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		},
	}, appLogger)

	srv := server.New(cfg.Server.ListenAddr, cfg.HTTP.ListenAddr, server.Services{
		Greeter:       grpchandler.NewGreeterHandler(greeterSvc),
		Admin:         grpchandler.NewAdminHandler(resultsSvc, employeeSvc),
		Authenticator: authSvc,
	}, httpServer, appLogger)

	appLogger.Info().Str("company", cfg.App.Company).Msg("starting employee awards")
	return srv.Run(ctx)
}
