package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gunvolt24/resto-orders/pkg/ctxmeta"
)

// ZapLogger — обёртка над zap, реализующая ports.Logger.
// Если в контексте есть request_id, он добавляется к каждой записи.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger — dev или prod конфигурация zap.
// Возвращает логгер и cleanup (Sync) для вызова при остановке.
func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		base *zap.Logger
		err  error
	)
	if isProd {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}

	l := &ZapLogger{base: base, sugar: base.Sugar()}
	return l, func() error { return base.Sync() }, nil
}

func (l *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	l.with(ctx).Infof(format, args...)
}

func (l *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	l.with(ctx).Warnf(format, args...)
}

func (l *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	l.with(ctx).Errorf(format, args...)
}

// Base — доступ к исходному *zap.Logger (для сторонних интеграций).
func (l *ZapLogger) Base() *zap.Logger { return l.base }

func (l *ZapLogger) with(ctx context.Context) *zap.SugaredLogger {
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		return l.sugar.With("request_id", rid)
	}
	return l.sugar
}
