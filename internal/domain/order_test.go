package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/resto-orders/internal/domain"
)

func TestStatusNext_ForwardOnly(t *testing.T) {
	next, err := domain.StatusInitiated.Next()
	if err != nil || next != domain.StatusSent {
		t.Fatalf("initiated: want sent, got %q err=%v", next, err)
	}

	next, err = domain.StatusSent.Next()
	if err != nil || next != domain.StatusDelivered {
		t.Fatalf("sent: want delivered, got %q err=%v", next, err)
	}
}

func TestStatusNext_TerminalFails(t *testing.T) {
	if _, err := domain.StatusDelivered.Next(); !errors.Is(err, domain.ErrAlreadyDelivered) {
		t.Fatalf("want ErrAlreadyDelivered, got %v", err)
	}
}

func TestStatusNext_UnknownValue(t *testing.T) {
	if _, err := domain.Status("shipped").Next(); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
}

func TestStatusNext_DoubleAdvanceLandsOnDelivered(t *testing.T) {
	s := domain.StatusInitiated
	for i := 0; i < 2; i++ {
		next, err := s.Next()
		if err != nil {
			t.Fatalf("advance #%d: %v", i+1, err)
		}
		s = next
	}
	if s != domain.StatusDelivered || !s.IsTerminal() {
		t.Fatalf("want terminal delivered, got %q", s)
	}
}

func TestNewOrder_TotalsAndSubtotals(t *testing.T) {
	order := domain.NewOrder("Ana López", []domain.ItemInput{
		{Description: "Ceviche", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		{Description: "Chicha morada", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	})

	if order.Status != domain.StatusInitiated {
		t.Fatalf("want initiated, got %q", order.Status)
	}
	if order.ID == "" {
		t.Fatalf("order id must be generated")
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("want total 110, got %s", order.TotalAmount)
	}

	// subtotal каждой позиции = quantity × unit_price, и сумма сходится с total
	sum := decimal.Zero
	for _, it := range order.Items {
		want := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if !it.Subtotal.Equal(want) {
			t.Fatalf("item %q: want subtotal %s, got %s", it.Description, want, it.Subtotal)
		}
		if it.ID == "" {
			t.Fatalf("item id must be generated")
		}
		sum = sum.Add(it.Subtotal)
	}
	if !sum.Equal(order.TotalAmount) {
		t.Fatalf("sum of subtotals %s != total %s", sum, order.TotalAmount)
	}
}

func TestNewOrder_FractionalPricesDoNotDrift(t *testing.T) {
	price, err := decimal.NewFromString("0.10")
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	order := domain.NewOrder("client", []domain.ItemInput{
		{Description: "mint", Quantity: 3, UnitPrice: price},
	})

	want, _ := decimal.NewFromString("0.30")
	if !order.TotalAmount.Equal(want) {
		t.Fatalf("want 0.30 exactly, got %s", order.TotalAmount)
	}
}
