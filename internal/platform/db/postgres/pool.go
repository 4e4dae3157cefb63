package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/employee-awards/internal/platform/config"
	"github.com/ogurasousui/employee-awards/internal/platform/logger"
)

// ApplicationName は pg_stat_activity に表示される接続名です。
const ApplicationName = "employee-awards"

const (
	healthCheckPeriod = time.Minute
	pingTimeout       = 5 * time.Second
)

// 投票時刻は UTC で保存する。DSN で指定された値は上書きしない。
var defaultRuntimeParams = map[string]string{
	"application_name": ApplicationName,
	"timezone":         "UTC",
}

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// 0 以下の接続数や期間は pgxpool の既定値のままにします。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	switch {
	case cfg.MaxOpenConns > 0 && cfg.MaxIdleConns > cfg.MaxOpenConns:
		return nil, fmt.Errorf("postgres: max_idle_conns (%d) exceeds max_open_conns (%d)", cfg.MaxIdleConns, cfg.MaxOpenConns)
	case cfg.MaxOpenConns > 0:
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	params := poolCfg.ConnConfig.RuntimeParams
	if params == nil {
		params = make(map[string]string, len(defaultRuntimeParams))
		poolCfg.ConnConfig.RuntimeParams = params
	}
	for k, v := range defaultRuntimeParams {
		if _, ok := params[k]; !ok {
			params[k] = v
		}
	}

	return poolCfg, nil
}

// NewPool は接続プールを生成し、pingTimeout 以内に疎通できなければエラーを返します。
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.FromContext(ctx).Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int32("max_conns", poolCfg.MaxConns).
		Int32("min_conns", poolCfg.MinConns).
		Msg("connected to postgres")

	return pool, nil
}
