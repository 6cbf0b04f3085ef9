//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/resto-orders/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeOrder — мини-генератор валидного заказа: клиент и две позиции,
// суммы считает domain.NewOrder. Опции меняют результат после сборки.
func MakeOrder(opts ...func(*domain.Order)) *domain.Order {
	o := domain.NewOrder("client-"+UniqSuffix(), []domain.ItemInput{
		{Description: "Ceviche", Quantity: 2, UnitPrice: decimal.New(5000, -2)},
		{Description: "Chicha morada", Quantity: 1, UnitPrice: decimal.New(1000, -2)},
	})

	for _, fn := range opts {
		fn(o)
	}
	return o
}

func WithClient(name string) func(*domain.Order) {
	return func(o *domain.Order) { o.ClientName = name }
}

func WithStatus(s domain.Status) func(*domain.Order) {
	return func(o *domain.Order) { o.Status = s }
}

// WithCreatedAt — для retention-сценариев: состарить заказ на нужную дату.
func WithCreatedAt(ts time.Time) func(*domain.Order) {
	return func(o *domain.Order) {
		o.CreatedAt = ts
		o.UpdatedAt = ts
	}
}

func WithItems(inputs []domain.ItemInput) func(*domain.Order) {
	return func(o *domain.Order) {
		rebuilt := domain.NewOrder(o.ClientName, inputs)
		o.Items = rebuilt.Items
		o.TotalAmount = rebuilt.TotalAmount
	}
}
