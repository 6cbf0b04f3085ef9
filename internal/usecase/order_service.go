package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Gunvolt24/resto-orders/internal/domain"
	"github.com/Gunvolt24/resto-orders/internal/ports"
	"github.com/Gunvolt24/resto-orders/pkg/metrics"
)

// Проверка, что OrderService удовлетворяет интерфейсу ports.OrderService.
var _ ports.OrderService = (*OrderService)(nil)

// ErrBadMessage — сообщение консьюмера не распарсилось; повторная обработка бессмысленна.
var ErrBadMessage = errors.New("invalid order message")

// OrderService — прикладная логика заказов: конечный автомат статусов,
// cache-aside поверх списка активных заказов, retention.
// Кэш — производное хранилище: его отказ деградирует до прямого чтения из БД,
// но никогда не роняет запрос.
type OrderService struct {
	repo      ports.OrderRepository
	cache     ports.ListCache
	log       ports.Logger
	validator ports.OrderValidator

	cacheKey string
	cacheTTL time.Duration
}

// NewOrderService — DI-конструктор. cacheKey/cacheTTL при нулевых значениях
// получают дефолты (orders:active, 30s).
func NewOrderService(
	repo ports.OrderRepository,
	cache ports.ListCache,
	log ports.Logger,
	validator ports.OrderValidator,
	cacheKey string,
	cacheTTL time.Duration,
) *OrderService {
	if cacheKey == "" {
		cacheKey = "orders:active"
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &OrderService{
		repo:      repo,
		cache:     cache,
		log:       log,
		validator: validator,
		cacheKey:  cacheKey,
		cacheTTL:  cacheTTL,
	}
}

// ListActive — cache-aside чтение списка недоставленных заказов.
// Попадание — отдаём кэш без похода в БД; промах — читаем БД и кладём в кэш с TTL.
// Недоступный кэш или битое содержимое — деградация до прямого чтения.
func (s *OrderService) ListActive(ctx context.Context) ([]*domain.Order, error) {
	if raw, ok, err := s.cache.Get(ctx, s.cacheKey); err != nil {
		metrics.CacheOps.WithLabelValues("degraded").Inc()
		s.log.Warnf(ctx, "cache.Get failed, falling back to storage: %v", err)
	} else if ok {
		var orders []*domain.Order
		if uErr := json.Unmarshal(raw, &orders); uErr == nil {
			metrics.CacheOps.WithLabelValues("hit").Inc()
			return orders, nil
		}
		// Битое содержимое считаем промахом: ниже перезапишем свежими данными.
		s.log.Warnf(ctx, "cache payload is corrupt, refreshing: key=%s", s.cacheKey)
	} else {
		metrics.CacheOps.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	orders, err := s.repo.ListActive(ctx)
	if err != nil {
		s.log.Errorf(ctx, "repo.ListActive failed: %v", err)
		return nil, err
	}
	s.log.Infof(ctx, "db fetch active orders n=%d took=%s", len(orders), time.Since(start))

	if raw, mErr := json.Marshal(orders); mErr != nil {
		s.log.Warnf(ctx, "marshal orders for cache failed: %v", mErr)
	} else if sErr := s.cache.Set(ctx, s.cacheKey, raw, s.cacheTTL); sErr != nil {
		metrics.CacheOps.WithLabelValues("degraded").Inc()
		s.log.Warnf(ctx, "cache.Set failed: %v", sErr)
	}

	return orders, nil
}

// GetByID — точечное чтение всегда мимо кэша: кэшируется только список.
// Возвращает (nil, nil), если заказа нет.
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed id=%s err=%v", id, err)
		return nil, err
	}
	return order, nil
}

// Create — валидация входа, атомарное сохранение заказа с позициями,
// затем безусловная инвалидация кэша списка.
func (s *OrderService) Create(ctx context.Context, clientName string, items []domain.ItemInput) (*domain.Order, error) {
	if err := s.validator.ValidateCreate(ctx, clientName, items); err != nil {
		s.log.Warnf(ctx, "validation failed client=%q err=%v", clientName, err)
		return nil, err
	}

	order := domain.NewOrder(clientName, items)
	if err := s.repo.Create(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Create failed id=%s err=%v", order.ID, err)
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.invalidate(ctx)
	s.log.Infof(ctx, "order created id=%s items=%d total=%s", order.ID, len(order.Items), order.TotalAmount)
	return order, nil
}

// AdvanceStatus — один шаг конечного автомата.
// Обновление условное (по статусу, из которого считался переход): гонка двух
// параллельных вызовов не даёт двойного продвижения — проигравший получает ErrConflict.
// Переход в delivered удаляет заказ синхронно, в рамках той же логической операции.
func (s *OrderService) AdvanceStatus(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed id=%s err=%v", id, err)
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	next, err := order.Status.Next()
	if err != nil {
		return nil, err
	}

	// Одна метка времени и в строке, и в ответе: БД ничего не дорисовывает сама.
	now := time.Now().UTC()

	updated, err := s.repo.UpdateStatus(ctx, id, next, order.Status, now)
	if err != nil {
		s.log.Errorf(ctx, "repo.UpdateStatus failed id=%s err=%v", id, err)
		return nil, err
	}
	if !updated {
		return nil, domain.ErrConflict
	}

	if next.IsTerminal() {
		if dErr := s.repo.Delete(ctx, id); dErr != nil {
			// Статус уже delivered, а строка осталась: retention доберёт её
			// на следующем цикле. Кэш всё равно инвалидируем.
			s.log.Errorf(ctx, "delete delivered order failed id=%s err=%v", id, dErr)
			s.invalidate(ctx)
			return nil, fmt.Errorf("delete delivered order: %w", dErr)
		}
		s.log.Infof(ctx, "order delivered and removed id=%s", id)
	}

	s.invalidate(ctx)

	order.Status = next
	order.UpdatedAt = now
	return order, nil
}

// RunRetention — удаляет доставленные заказы старше ageDays.
// Кэш инвалидируется только если что-то реально удалили: пустой прогон
// не трогает кэш вообще.
func (s *OrderService) RunRetention(ctx context.Context, ageDays int) (int64, error) {
	if ageDays <= 0 {
		ageDays = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -ageDays)

	deleted, err := s.repo.DeleteDeliveredBefore(ctx, cutoff)
	if err != nil {
		s.log.Errorf(ctx, "retention delete failed cutoff=%s err=%v", cutoff.Format(time.RFC3339), err)
		return 0, err
	}
	if deleted > 0 {
		metrics.RetentionDeleted.Add(float64(deleted))
		s.invalidate(ctx)
	}

	s.log.Infof(ctx, "retention pass done deleted=%d cutoff=%s", deleted, cutoff.Format(time.RFC3339))
	return deleted, nil
}

// createOrderMessage — команда создания заказа из Kafka.
type createOrderMessage struct {
	ClientName string             `json:"client_name"`
	Items      []domain.ItemInput `json:"items"`
}

// CreateFromMessage — создание заказа из raw JSON консьюмера.
// Парсинг строгий (DisallowUnknownFields + запрет хвостовых данных):
// мусор помечается ErrBadMessage, чтобы консьюмер пропустил его навсегда.
func (s *OrderService) CreateFromMessage(ctx context.Context, raw []byte) error {
	var msg createOrderMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		s.log.Warnf(ctx, "invalid message json: %v", err)
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid message json: trailing data")
		return fmt.Errorf("%w: trailing data", ErrBadMessage)
	}

	if _, err := s.Create(ctx, msg.ClientName, msg.Items); err != nil {
		return err
	}
	return nil
}

// invalidate — безусловное удаление ключа списка после любой записи.
// Отказ не фатален: устаревший список доживёт максимум до конца TTL.
func (s *OrderService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, s.cacheKey); err != nil {
		metrics.CacheOps.WithLabelValues("invalidate_failed").Inc()
		s.log.Warnf(ctx, "cache invalidation failed (stale list self-heals within TTL): %v", err)
		return
	}
	metrics.CacheOps.WithLabelValues("invalidated").Inc()
}
