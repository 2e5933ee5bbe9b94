package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const (
	orderColumns     = `id, supplier_id, status, notes, order_date, received_at, total_value, created_by, updated_at`
	orderLineColumns = `id, order_id, product_id, quantity, unit_price, value, stock_applied, created_at, updated_at`
)

// OrderRepo persiste órdenes de compra y sus líneas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.SupplierID, &o.Status, &o.Notes, &o.OrderDate, &o.ReceivedAt,
		&o.TotalValue, &o.CreatedBy, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrderLine(row rowScanner) (*entity.OrderLine, error) {
	var l entity.OrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Value,
		&l.StockApplied, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, o.ID, o.SupplierID, o.Status, o.Notes, o.OrderDate, o.ReceivedAt,
		o.TotalValue, o.CreatedBy, o.UpdatedAt)
	if err != nil {
		return writeError("insert order", err)
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, received_at = $3, updated_at = $4 WHERE id = $1`,
		o.ID, o.Status, o.ReceivedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET total_value = $2, updated_at = now() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por fecha de orden descendente.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	var w where
	if f.SupplierID != "" {
		w.add("supplier_id = ?::uuid", f.SupplierID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Since != nil {
		w.add("order_date >= ?", *f.Since)
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + w.sql() + ` ORDER BY order_date DESC, id` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	query := `INSERT INTO order_lines (` + orderLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.Value,
		l.StockApplied, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return writeError("insert order line", err)
	}
	return nil
}

// GetLine devuelve (nil, nil) si la línea no existe.
func (r *OrderRepo) GetLine(ctx context.Context, id string) (*entity.OrderLine, error) {
	l, err := scanOrderLine(r.q.QueryRow(ctx, `SELECT `+orderLineColumns+` FROM order_lines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order line: %w", err)
	}
	return l, nil
}

func (r *OrderRepo) ListLines(ctx context.Context, orderID string) ([]*entity.OrderLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+orderLineColumns+` FROM order_lines WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderLine
	for rows.Next() {
		l, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *OrderRepo) UpdateLine(ctx context.Context, l *entity.OrderLine) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE order_lines SET quantity = $2, unit_price = $3, value = $4, stock_applied = $5, updated_at = $6
		WHERE id = $1`,
		l.ID, l.Quantity, l.UnitPrice, l.Value, l.StockApplied, l.UpdatedAt)
	if err != nil {
		return writeError("update order line", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) DeleteLine(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
