package retention

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/resto-orders/internal/ports"
	"github.com/Gunvolt24/resto-orders/pkg/metrics"
)

// Worker — периодическая чистка доставленных заказов старше порога возраста.
// Ошибки отдельного прогона поглощаются: воркер живёт до отмены контекста.
type Worker struct {
	service  ports.OrderService
	log      ports.Logger
	interval time.Duration
	ageDays  int

	// running — защита от наложения прогонов: если предыдущий ещё идёт,
	// очередной тик пропускается, а не встаёт в очередь.
	running atomic.Bool
}

// NewWorker — конструктор; нулевые interval/ageDays получают дефолты (24h, 30 дней).
func NewWorker(service ports.OrderService, log ports.Logger, interval time.Duration, ageDays int) *Worker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if ageDays <= 0 {
		ageDays = 30
	}
	return &Worker{
		service:  service,
		log:      log,
		interval: interval,
		ageDays:  ageDays,
	}
}

// Run — цикл по тикеру до отмены контекста. Первый прогон — сразу на старте,
// чтобы долго стоявший сервис не ждал целый интервал.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Infof(ctx, "retention worker started interval=%s age_days=%d", w.interval, w.ageDays)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Прогоны идут в отдельной горутине, чтобы долгая чистка не блокировала
	// цикл: защёлка running отбрасывает тики, пришедшие во время работы.
	go w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Infof(ctx, "retention worker stopped")
			return ctx.Err()
		case <-ticker.C:
			go w.runOnce(ctx)
		}
	}
}

// runOnce — один прогон чистки; результат уходит в метрики и лог.
func (w *Worker) runOnce(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		metrics.RetentionRuns.WithLabelValues("skipped").Inc()
		w.log.Warnf(ctx, "retention run still in progress, skipping tick")
		return
	}
	defer w.running.Store(false)

	deleted, err := w.service.RunRetention(ctx, w.ageDays)
	if err != nil {
		metrics.RetentionRuns.WithLabelValues("error").Inc()
		w.log.Errorf(ctx, "retention run failed: %v", err)
		return
	}
	metrics.RetentionRuns.WithLabelValues("ok").Inc()
	w.log.Infof(ctx, "retention run done deleted=%d", deleted)
}
