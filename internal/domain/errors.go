package domain

import "errors"

// Типизированные ошибки доменного слоя. Транспорт мапит их в коды ответов,
// usecase — оборачивает через %w, сохраняя возможность errors.Is.
var (
	// ErrNotFound — заказ с указанным id отсутствует в хранилище.
	ErrNotFound = errors.New("order not found")

	// ErrAlreadyDelivered — попытка продвинуть заказ из терминального статуса.
	ErrAlreadyDelivered = errors.New("order is already delivered, cannot advance further")

	// ErrInvalidStatus — в хранилище оказалось нераспознанное значение статуса.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrConflict — условное обновление статуса не нашло строку:
	// параллельный вызов успел изменить заказ первым.
	ErrConflict = errors.New("order was modified concurrently")
)
