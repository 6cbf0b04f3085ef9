package retention

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/resto-orders/internal/ports/mocks"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// Воркер делает прогон сразу на старте, не дожидаясь первого тика.
func TestRun_ImmediateFirstPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	done := make(chan struct{})
	svc.EXPECT().RunRetention(gomock.Any(), 30).
		DoAndReturn(func(context.Context, int) (int64, error) {
			close(done)
			return 2, nil
		})

	w := NewWorker(svc, nopLogger{}, time.Hour, 30)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first pass did not run on start")
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Ошибка прогона не роняет воркер: следующий тик снова вызывает сервис.
func TestRun_ErrorAbsorbed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	var calls atomic.Int32
	done := make(chan struct{})
	svc.EXPECT().RunRetention(gomock.Any(), 30).
		DoAndReturn(func(context.Context, int) (int64, error) {
			if calls.Add(1) == 2 {
				close(done)
			}
			return 0, errors.New("db down")
		}).MinTimes(2)

	w := NewWorker(svc, nopLogger{}, 10*time.Millisecond, 30)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a failed pass")
	}

	cancel()
	<-errCh
}

// Наложение прогонов: пока первый висит, очередной тик пропускается.
func TestRun_OverlappingTickSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	release := make(chan struct{})
	started := make(chan struct{})
	svc.EXPECT().RunRetention(gomock.Any(), 30).
		DoAndReturn(func(ctx context.Context, _ int) (int64, error) {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
			}
			return 0, nil
		}).Times(1)

	w := NewWorker(svc, nopLogger{}, 10*time.Millisecond, 30)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	<-started
	// Несколько тиков проходят, пока первый прогон ещё висит — сервис
	// больше не вызывается (Times(1) уронит тест при лишнем вызове).
	time.Sleep(50 * time.Millisecond)

	close(release)
	cancel()
	<-errCh
}

// Нулевые параметры конструктора заменяются дефолтами.
func TestNewWorker_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	w := NewWorker(svc, nopLogger{}, 0, 0)
	if w.interval != 24*time.Hour {
		t.Fatalf("want default interval 24h, got %s", w.interval)
	}
	if w.ageDays != 30 {
		t.Fatalf("want default age 30 days, got %d", w.ageDays)
	}
}
