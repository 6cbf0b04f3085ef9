package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/resto-orders/internal/domain"
	"github.com/Gunvolt24/resto-orders/internal/ports"
	"github.com/Gunvolt24/resto-orders/pkg/httpx"
	"github.com/Gunvolt24/resto-orders/pkg/validate"
)

// Handler — HTTP-обработчики поверх прикладного слоя заказов.
type Handler struct {
	service        ports.OrderService
	log            ports.Logger
	handlerTimeout time.Duration
}

// NewHandler — конструктор; нулевой handlerTimeout получает дефолт 3s.
func NewHandler(service ports.OrderService, log ports.Logger, handlerTimeout time.Duration) *Handler {
	if handlerTimeout <= 0 {
		handlerTimeout = 3 * time.Second
	}
	return &Handler{service: service, log: log, handlerTimeout: handlerTimeout}
}

// NewRouter — маршрутизатор сервиса.
// otelServiceName != "" включает otelgin-трейсинг на всех маршрутах.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestID())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/orders", h.listOrders)
	r.GET("/orders/:id", h.getOrderByID)
	r.POST("/orders", h.createOrder)
	r.POST("/orders/:id/advance", h.advanceOrder)

	return r
}

// createOrderRequest — тело POST /orders.
type createOrderRequest struct {
	ClientName string             `json:"client_name"`
	Items      []domain.ItemInput `json:"items"`
}

func (h *Handler) listOrders(c *gin.Context) {
	ctx, cancel := h.boundCtx(c)
	defer cancel()

	orders, err := h.service.ListActive(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrderByID(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	ctx, cancel := h.boundCtx(c)
	defer cancel()

	order, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := h.boundCtx(c)
	defer cancel()

	order, err := h.service.Create(ctx, req.ClientName, req.Items)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) advanceOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	ctx, cancel := h.boundCtx(c)
	defer cancel()

	order, err := h.service.AdvanceStatus(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// orderID — id заказа из пути. Колонка id — UUID, поэтому битый формат
// отклоняется до похода в хранилище: клиентская ошибка, а не 500 от кодека pgx.
func (h *Handler) orderID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return "", false
	}
	return id, true
}

// boundCtx — контекст запроса, ограниченный handlerTimeout.
func (h *Handler) boundCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.handlerTimeout)
}

// writeError — единая проекция ошибок прикладного слоя на HTTP-статусы.
func (h *Handler) writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, validate.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, domain.ErrAlreadyDelivered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order is already delivered"})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order has an unknown status"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "order was modified concurrently, retry"})
	default:
		h.log.Errorf(ctx, "request failed method=%s path=%s err=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
