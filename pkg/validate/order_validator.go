package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/resto-orders/internal/domain"
	"github.com/Gunvolt24/resto-orders/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу ports.OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel) ошибка валидации входа.
var ErrInvalidOrder = errors.New("order validation failed")

// OrderValidator — проверка входных данных создания заказа.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
type OrderValidator struct{}

func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// ValidateCreate — правила:
// client_name непустой; минимум одна позиция;
// у каждой позиции непустое описание, quantity ≥ 1 и unit_price ≥ 0.
func (v *OrderValidator) ValidateCreate(_ context.Context, clientName string, items []domain.ItemInput) error {
	if strings.TrimSpace(clientName) == "" {
		return fmt.Errorf("%w: client_name обязателен", ErrInvalidOrder)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: заказ без позиций недопустим", ErrInvalidOrder)
	}

	for i := range items {
		item := &items[i]
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("%w: items[%d].description обязателен", ErrInvalidOrder, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity должен быть ≥ 1", ErrInvalidOrder, i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: items[%d].unit_price должен быть неотрицательным", ErrInvalidOrder, i)
		}
	}
	return nil
}
