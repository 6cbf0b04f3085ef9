package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/resto-orders/internal/domain"
)

// OrderRepository — источник истины по заказам (Postgres).
type OrderRepository interface {
	// Create — атомарно сохраняет заказ вместе с позициями: либо всё, либо ничего.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID — точечное чтение; (nil, nil), если записи нет.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListActive — заказы со статусом ≠ delivered, свежие сверху (created_at DESC).
	ListActive(ctx context.Context) ([]*domain.Order, error)

	// UpdateStatus — условное обновление: строка меняется, только если текущий
	// статус равен expected. updatedAt пишется в строку как есть, чтобы ответ
	// и хранилище несли одну и ту же метку времени. Возвращает false, если
	// строку перехватил параллельный вызов (или её уже нет).
	UpdateStatus(ctx context.Context, id string, next, expected domain.Status, updatedAt time.Time) (bool, error)

	// Delete — удаляет заказ; позиции уходят каскадом.
	Delete(ctx context.Context, id string) error

	// DeleteDeliveredBefore — чистит доставленные заказы старше cutoff,
	// возвращает число удалённых.
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
