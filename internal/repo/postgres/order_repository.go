package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/resto-orders/internal/domain"
	"github.com/Gunvolt24/resto-orders/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу ports.OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация репозитория заказов на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Create — транзакционно сохраняет заказ и его позиции: либо всё, либо ничего.
// Позиции вставляются через COPY — быстрее, чем INSERT в цикле.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return errors.New("order is empty or id is required")
	}
	if len(order.Items) == 0 {
		return errors.New("order must have at least one item")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO orders (id, client_name, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, order.ID, order.ClientName, string(order.Status), order.TotalAmount, order.CreatedAt, order.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	rows := make([][]any, 0, len(order.Items))
	for _, item := range order.Items {
		rows = append(rows, []any{item.ID, order.ID, item.Description, item.Quantity, item.UnitPrice, item.Subtotal})
	}
	if _, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"id", "order_id", "description", "quantity", "unit_price", "subtotal"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID — точечное чтение заказа с позициями. Если записи нет, возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	var status string

	err := r.pool.QueryRow(ctx, `
		SELECT id, client_name, status, total_amount, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.ClientName, &status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.Status(status)

	rows, err := r.pool.Query(ctx, `
		SELECT id, description, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("items rows: %w", err)
	}

	return &order, nil
}

// ListActive — заказы со статусом ≠ delivered, свежие сверху.
// Два запроса: базовые строки, затем позиции для всех id страницы через ANY.
func (r *OrderRepository) ListActive(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_name, status, total_amount, created_at, updated_at
		FROM orders
		WHERE status <> $1
		ORDER BY created_at DESC, id DESC
	`, string(domain.StatusDelivered))
	if err != nil {
		return nil, fmt.Errorf("select active orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	byID := make(map[string]*domain.Order)
	ids := make([]string, 0)

	for rows.Next() {
		order := &domain.Order{}
		var status string
		if err := rows.Scan(&order.ID, &order.ClientName, &status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.Status = domain.Status(status)
		orders = append(orders, order)
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	if len(orders) == 0 {
		return []*domain.Order{}, nil
	}

	iRows, err := r.pool.Query(ctx, `
		SELECT order_id, id, description, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer iRows.Close()

	for iRows.Next() {
		var orderID string
		var item domain.Item
		if err := iRows.Scan(&orderID, &item.ID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if order := byID[orderID]; order != nil {
			order.Items = append(order.Items, item)
		}
	}
	if err := iRows.Err(); err != nil {
		return nil, fmt.Errorf("items rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus — условное обновление: строка меняется, только если текущий
// статус равен expected. updatedAt приходит от вызывающего слоя, чтобы ответ
// API и строка в базе несли одну и ту же метку времени.
// false — параллельный вызов успел первым (или строки нет).
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, next, expected domain.Status, updatedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`, id, string(expected), string(next), updatedAt)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete — удаляет заказ; позиции уходят каскадом (FK ON DELETE CASCADE).
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// DeleteDeliveredBefore — чистит доставленные заказы старше cutoff одним запросом;
// позиции уходят каскадом. Возвращает число удалённых заказов.
func (r *OrderRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM orders WHERE status = $1 AND created_at < $2
	`, string(domain.StatusDelivered), cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old delivered: %w", err)
	}
	return tag.RowsAffected(), nil
}
