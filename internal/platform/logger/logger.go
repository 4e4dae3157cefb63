package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-awards/internal/platform/config"
)

// New は設定からプロセス全体で使う zerolog ロガーを構築します。
// file_path が指定された場合は標準出力とファイルの両方に書き込み、返却される close 関数でファイルを閉じます。
func New(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logger: parse level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{os.Stdout}
	closeFn := func() error { return nil }

	if cfg.FilePath != "" {
		file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("logger: open %s: %w", cfg.FilePath, err)
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	return NewWithWriter(zerolog.MultiLevelWriter(writers...), level), closeFn, nil
}

// NewWithWriter は任意の出力先に書き込むロガーを返します。
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// WithFields は fields を付与したロガーをコンテキストに格納します。
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	l := FromContext(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// FromContext はコンテキストのロガーを返します。未設定の場合はグローバルロガーを返します。
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	if zerolog.DefaultContextLogger != nil {
		return zerolog.DefaultContextLogger
	}
	nop := zerolog.Nop()
	return &nop
}

// SetDefault はコンテキストにロガーが無い場合のフォールバックを設定します。
func SetDefault(l zerolog.Logger) {
	zerolog.DefaultContextLogger = &l
}
