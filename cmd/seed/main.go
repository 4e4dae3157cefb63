package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/employee-awards/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-awards/internal/core/award"
	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"github.com/ogurasousui/employee-awards/internal/platform/config"
	pg "github.com/ogurasousui/employee-awards/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
	"github.com/ogurasousui/employee-awards/internal/platform/seed"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		rosterPath = flag.String("file", "assets/seed.example.yaml", "YAML roster of employees and awards")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
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
	ctx = appLogger.WithContext(ctx)

	roster, err := seed.LoadRoster(*rosterPath)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load roster")
	}

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize database pool")
	}
	defer pool.Close()

	tx := pg.NewTransactionManager(pool)
	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(pool), nil, tx)
	awardSvc := award.NewService(postgres.NewAwardRepository(pool), nil, tx)

	sum, err := seed.Apply(ctx, roster, employeeSvc, awardSvc)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("seeding failed")
	}

	appLogger.Info().
		Int("employees_created", sum.EmployeesCreated).
		Int("employees_skipped", sum.EmployeesSkipped).
		Int("awards_created", sum.AwardsCreated).
		Int("awards_skipped", sum.AwardsSkipped).
		Msg("seeding completed")
}
