//go:build !integration

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/resto-orders/internal/domain"
	"github.com/Gunvolt24/resto-orders/internal/ports"
	"github.com/Gunvolt24/resto-orders/pkg/httpx"
)

type benchLogger struct{}

func (benchLogger) Infof(context.Context, string, ...any)  {}
func (benchLogger) Warnf(context.Context, string, ...any)  {}
func (benchLogger) Errorf(context.Context, string, ...any) {}

// benchService — фиксированный срез заказов без БД и кэша:
// меряем только HTTP-слой и маршалинг.
type benchService struct {
	orders []*domain.Order
}

var _ ports.OrderService = (*benchService)(nil)

func (s *benchService) ListActive(context.Context) ([]*domain.Order, error) { return s.orders, nil }
func (s *benchService) GetByID(_ context.Context, id string) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}
func (s *benchService) Create(context.Context, string, []domain.ItemInput) (*domain.Order, error) {
	return s.orders[0], nil
}
func (s *benchService) AdvanceStatus(_ context.Context, id string) (*domain.Order, error) {
	return s.GetByID(context.Background(), id)
}
func (s *benchService) RunRetention(context.Context, int) (int64, error) { return 0, nil }

func benchOrders(n int) []*domain.Order {
	out := make([]*domain.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.NewOrder("bench-client", []domain.ItemInput{
			{Description: "Ceviche", Quantity: 2, UnitPrice: decimal.New(5000, -2)},
			{Description: "Chicha morada", Quantity: 1, UnitPrice: decimal.New(1000, -2)},
		}))
	}
	return out
}

// makeLeanRouter — маршруты без middleware (потолок хендлера).
func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/orders", h.listOrders)
	r.GET("/orders/:id", h.getOrderByID)
	return r
}

// makeFullRouter — продакшен-набор middleware.
func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestID())
	r.Use(httpx.RequestLogger(h.log))
	r.GET("/orders", h.listOrders)
	r.GET("/orders/:id", h.getOrderByID)
	return r
}

func benchServeGET(b *testing.B, r *gin.Engine, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("status %d", w.Code)
		}
	}
}

// GetOrder: lean против полного пайплайна middleware
func BenchmarkHTTP_GetOrder(b *testing.B) {
	svc := &benchService{orders: benchOrders(1)}
	h := NewHandler(svc, benchLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)
	path := "/orders/" + svc.orders[0].ID

	b.Run("lean/no-mw", func(b *testing.B) { benchServeGET(b, lean, path) })
	b.Run("full/prod-mw", func(b *testing.B) { benchServeGET(b, full, path) })
}

// Список: рост стоимости маршалинга с размером среза
func BenchmarkHTTP_ListOrders(b *testing.B) {
	for _, n := range []int{10, 50, 100} {
		svc := &benchService{orders: benchOrders(n)}
		h := NewHandler(svc, benchLogger{}, 2*time.Second)
		r := makeLeanRouter(h)

		b.Run("n="+strconv.Itoa(n), func(b *testing.B) { benchServeGET(b, r, "/orders") })
	}
}
