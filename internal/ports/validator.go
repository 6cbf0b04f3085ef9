package ports

import (
	"context"

	"github.com/Gunvolt24/resto-orders/internal/domain"
)

type OrderValidator interface {
	ValidateCreate(ctx context.Context, clientName string, items []domain.ItemInput) error
}
