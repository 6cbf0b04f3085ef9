package ports

import (
	"context"

	"github.com/Gunvolt24/resto-orders/internal/domain"
)

// OrderService — поверхность прикладного слоя, которую потребляют транспорт,
// консьюмер и retention-воркер.
type OrderService interface {
	// ListActive — кэшируемый список недоставленных заказов.
	ListActive(ctx context.Context) ([]*domain.Order, error)

	// GetByID — точечное чтение мимо кэша; (nil, nil), если заказа нет.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// Create — валидация, атомарное сохранение, инвалидация кэша.
	Create(ctx context.Context, clientName string, items []domain.ItemInput) (*domain.Order, error)

	// AdvanceStatus — шаг конечного автомата; на delivered заказ синхронно удаляется.
	AdvanceStatus(ctx context.Context, id string) (*domain.Order, error)

	// RunRetention — удаление доставленных заказов старше ageDays; возвращает число удалённых.
	RunRetention(ctx context.Context, ageDays int) (int64, error)
}
