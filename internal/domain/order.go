package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status — этап жизненного цикла заказа.
// Переходы строго вперёд: initiated → sent → delivered, без пропусков и откатов.
type Status string

const (
	StatusInitiated Status = "initiated" // начальный статус при создании
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered" // терминальный: заказ удаляется из хранилища
)

// Next — чистая функция перехода: возвращает следующий статус.
// На терминальном статусе — ErrAlreadyDelivered, на неизвестном значении
// (битые/легаси данные) — ErrInvalidStatus.
func (s Status) Next() (Status, error) {
	switch s {
	case StatusInitiated:
		return StatusSent, nil
	case StatusSent:
		return StatusDelivered, nil
	case StatusDelivered:
		return "", ErrAlreadyDelivered
	default:
		return "", ErrInvalidStatus
	}
}

// IsTerminal — true для статуса, из которого нет переходов.
func (s Status) IsTerminal() bool { return s == StatusDelivered }

// Order — заказ ресторана. Владеет позициями: позиции не живут дольше заказа.
// Денежные поля — decimal, чтобы суммы не плыли на двоичной арифметике.
type Order struct {
	ID          string          `json:"id"`
	ClientName  string          `json:"client_name"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []Item          `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Item — позиция заказа. Subtotal считается один раз при создании и хранится.
type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ItemInput — входные данные позиции при создании заказа.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewOrder — собирает новый заказ: статус initiated, id — UUID,
// subtotal = quantity × unit_price, total — сумма subtotal всех позиций.
// Валидация входа выполняется до вызова (pkg/validate).
func NewOrder(clientName string, items []ItemInput) *Order {
	now := time.Now().UTC()
	order := &Order{
		ID:          uuid.NewString(),
		ClientName:  clientName,
		Status:      StatusInitiated,
		TotalAmount: decimal.Zero,
		Items:       make([]Item, 0, len(items)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, in := range items {
		subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		order.Items = append(order.Items, Item{
			ID:          uuid.NewString(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Subtotal:    subtotal,
		})
		order.TotalAmount = order.TotalAmount.Add(subtotal)
	}
	return order
}
